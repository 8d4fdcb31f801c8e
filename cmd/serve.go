package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/raven-go"

	"github.com/go-imsto/bulkimg/config"
	"github.com/go-imsto/bulkimg/storage"
	"github.com/go-imsto/bulkimg/web"
)

var cmdServe = &Command{
	UsageLine: "serve -l :8968",
	Short:     "serve the batch resize http service",
	Long: `
serve the batch resize http service
`,
}

var (
	maddr string
)

func init() {
	cmdServe.Run = runServe
	cmdServe.Flag.StringVar(&maddr, "l", config.Current.Listen, "tcp listen addr")
}

func runServe(args []string) bool {
	if dsn := config.Current.SentryDSN; dsn != "" {
		raven.SetDSN(dsn)
		raven.SetTagsContext(map[string]string{"service": config.Name, "ver": config.Version})
	}

	store, err := storage.New(config.Current.OutRoot)
	if err != nil {
		logger().Errorw("store open fail", "root", config.Current.OutRoot, "err", err)
		return false
	}
	go sweeper(store, config.Current.Retention)

	str := fmt.Sprintf("Start %s service %s at addr %s", config.Name, config.Version, maddr)
	fmt.Println(str)
	logger().Infow(str, "root", store.Root())
	srv := &http.Server{
		Addr:        maddr,
		Handler:     web.Handler(store),
		ReadTimeout: config.Current.ReadTimeout,
	}
	err = srv.ListenAndServe()
	if err != nil {
		logger().Errorw("serve fail", "err", err)
		return false
	}

	return true
}

func sweeper(store *storage.Store, retention time.Duration) {
	if retention <= 0 {
		return
	}
	store.Sweep(retention)
	for range time.Tick(time.Hour) {
		store.Sweep(retention)
	}
}
