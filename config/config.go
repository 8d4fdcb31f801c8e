package config

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Name prefix of environment variables
const Name = "bulkimg"

// Version of the app, overridable at link time
var Version = "0.2.1"

// Settings all recognized options, loaded once from environment
type Settings struct {
	Listen      string        `envconfig:"LISTEN" default:":8968"`
	ReadTimeout time.Duration `envconfig:"READ_TIMEOUT" default:"20s"`

	OutRoot   string        `envconfig:"OUT_ROOT" default:"resized_images"`
	Retention time.Duration `envconfig:"RETENTION" default:"24h"`

	MaxFileSize   int64 `envconfig:"MAX_FILE_SIZE" default:"52428800"` // 50 MB
	MaxBatchFiles int   `envconfig:"MAX_BATCH_FILES" default:"100"`

	Width   int    `envconfig:"WIDTH" default:"800"`
	Height  int    `envconfig:"HEIGHT" default:"600"`
	Quality uint8  `envconfig:"QUALITY" default:"85"`
	Format  string `envconfig:"FORMAT" default:"jpeg"`
	Mode    string `envconfig:"MODE" default:"fit"`
	Pattern string `envconfig:"PATTERN" default:"{name}_resized"`
	Workers int    `envconfig:"WORKERS" default:"4"`

	APIKey    string `envconfig:"API_KEY"`
	SentryDSN string `envconfig:"SENTRY_DSN"`
}

// Current ...
var Current = new(Settings)

func init() {
	if err := envconfig.Process(Name, Current); err != nil {
		log.Printf("envconfig fail: %s", err)
	}
	if !filepath.IsAbs(Current.OutRoot) {
		if wd, err := os.Getwd(); err == nil {
			Current.OutRoot = filepath.Join(wd, Current.OutRoot)
		}
	}
}

// InDevelop ...
func InDevelop() bool {
	return strings.HasPrefix(os.Getenv(strings.ToUpper(Name)+"_ENV"), "dev")
}
