package web

import (
	"fmt"
	"net/http"

	"github.com/go-imsto/bulkimg/config"
)

// consts
const (
	DefaultMaxMemory = 12 << 20 // 12 MB
	APIKeyHeader     = "X-Access-Key"
)

// CheckAPIKey guards mutating endpoints when a key is configured
func CheckAPIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		want := config.Current.APIKey
		if want == "" {
			next.ServeHTTP(w, r)
			return
		}
		apiKey := r.Header.Get(APIKeyHeader)
		if apiKey == "" {
			apiKey = r.FormValue("api_key")
		}
		if apiKey != want {
			w.WriteHeader(http.StatusUnauthorized)
			writeJSONError(w, r, fmt.Errorf("invalid api key"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Recovery keeps one broken request from taking the process down
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				err := fmt.Errorf("panic: %v", p)
				logger().Errorw("handler panic", "path", r.URL.Path, "err", err)
				report(err, map[string]string{"path": r.URL.Path})
				w.WriteHeader(http.StatusInternalServerError)
				writeJSONError(w, r, err)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
