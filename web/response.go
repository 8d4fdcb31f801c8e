package web

import (
	"encoding/json"
	"net/http"

	zlog "github.com/go-imsto/bulkimg/log"
)

func logger() zlog.Logger {
	return zlog.Get()
}

type apiRes map[string]interface{}
type apiMeta map[string]interface{}
type apiError struct {
	Code int    `json:"code,omitempty"`
	Msg  string `json:"message,omitempty"`
	err  error
}

func newApiRes(meta apiMeta, data interface{}) apiRes {
	res := make(apiRes)
	res["meta"] = meta
	res["data"] = data
	return res
}

func newApiMeta(ok bool) apiMeta {
	meta := make(apiMeta)
	meta["ok"] = ok
	return meta
}

func newApiError(err error) apiError {
	ae := apiError{err: err}
	ae.Msg = err.Error()
	return ae
}

func writeJSON(w http.ResponseWriter, r *http.Request, obj interface{}) (err error) {
	w.Header().Set("Content-Type", "application/json")
	var bytes []byte
	if r.FormValue("pretty") != "" {
		bytes, err = json.MarshalIndent(obj, "", "  ")
	} else {
		bytes, err = json.Marshal(obj)
	}
	if err != nil {
		return
	}
	_, err = w.Write(bytes)
	return
}

// wrapper for writeJSON - just logs errors
func writeJSONQuiet(w http.ResponseWriter, r *http.Request, obj interface{}) {
	if err := writeJSON(w, r, obj); err != nil {
		logger().Warnw("write json fail", "err", err)
	}
}

func writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	if r.Method == "GET" || r.Method == "HEAD" {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
		w.Header().Set("Pragma", "no-cache")
	}

	res := newApiRes(newApiMeta(false), nil)
	res["error"] = newApiError(err)

	writeJSONQuiet(w, r, res)
}
