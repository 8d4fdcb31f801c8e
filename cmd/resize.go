package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-imsto/bulkimg/batch"
	"github.com/go-imsto/bulkimg/config"
	iimg "github.com/go-imsto/bulkimg/image"
	"github.com/go-imsto/bulkimg/storage"
)

var cmdResize = &Command{
	UsageLine: "resize -dir photos -out resized [-w 800] [-h 600]",
	Short:     "batch resize a local folder",
	Long: `
resize every image of a folder into an output folder, using the
same executor as the http service
`,
}

var (
	rdir     string
	rout     string
	rwidth   int
	rheight  int
	rmode    string
	rformat  string
	rquality uint
	rpattern string
	rworkers int
	rmatch   string
	rmeta    bool
	rnoRatio bool
)

func init() {
	cmdResize.Run = runResize
	cur := config.Current
	cmdResize.Flag.StringVar(&rdir, "dir", "", "folder with source images")
	cmdResize.Flag.StringVar(&rout, "out", cur.OutRoot, "output folder")
	cmdResize.Flag.IntVar(&rwidth, "w", cur.Width, "target width")
	cmdResize.Flag.IntVar(&rheight, "h", cur.Height, "target height")
	cmdResize.Flag.StringVar(&rmode, "mode", cur.Mode, "fit, fill, crop or stretch")
	cmdResize.Flag.StringVar(&rformat, "format", cur.Format, "jpeg, png or webp")
	cmdResize.Flag.UintVar(&rquality, "q", uint(cur.Quality), "quality 1..100")
	cmdResize.Flag.StringVar(&rpattern, "pattern", cur.Pattern, "output name pattern")
	cmdResize.Flag.IntVar(&rworkers, "workers", cur.Workers, "parallel workers 1..8")
	cmdResize.Flag.StringVar(&rmatch, "match", "*", "pattern of file names to pick, works together with -dir")
	cmdResize.Flag.BoolVar(&rmeta, "meta", false, "carry jpeg metadata through")
	cmdResize.Flag.BoolVar(&rnoRatio, "ignore-ratio", false, "ignore the source aspect ratio")
}

func runResize(args []string) bool {
	sources, err := collectDir(rdir, rmatch, args)
	if err != nil {
		errorf("%s", err)
		return false
	}
	if len(sources) == 0 {
		errorf("no image found")
		return false
	}

	mode, err := iimg.ParseMode(rmode)
	if err != nil {
		errorf("%s", err)
		return false
	}
	format, err := iimg.ParseFormat(rformat)
	if err != nil {
		errorf("%s", err)
		return false
	}
	opt := batch.Options{
		Width: rwidth, Height: rheight,
		Mode: mode, KeepRatio: !rnoRatio,
		Format: format, Quality: uint8(rquality),
		KeepMeta: rmeta,
		Pattern:  rpattern, Workers: rworkers,
	}

	s, err := batch.New(rout, batch.WithSink(batch.ProgressFunc(func(completed, total int) {
		fmt.Printf("\r%d/%d", completed, total)
	})))
	if err != nil {
		errorf("%s", err)
		return false
	}
	res, err := s.Run(batch.BuildJobs(sources, opt))
	if err != nil {
		errorf("%s", err)
		return false
	}
	fmt.Printf("\rdone: %d ok, %d failed\n", len(res.Succeeded), len(res.Failed))
	for _, f := range res.Failed {
		fmt.Printf("  %s: %s\n", f.Name, f.Reason)
		setExitStatus(1)
	}
	return true
}

// collectDir gathers sources from -dir and any extra file args
func collectDir(dir, match string, args []string) (sources []batch.Source, err error) {
	add := func(fp string) {
		if storage.SourceExt(fp) {
			sources = append(sources, batch.Source{Name: filepath.Base(fp), Path: fp})
		}
	}
	if dir != "" {
		err = filepath.Walk(dir, func(fp string, fi os.FileInfo, we error) error {
			if we != nil {
				return we
			}
			if fi.IsDir() {
				return nil
			}
			if ok, _ := filepath.Match(match, fi.Name()); ok {
				add(fp)
			}
			return nil
		})
		if err != nil {
			return
		}
	}
	for _, fp := range args {
		add(fp)
	}
	return
}
