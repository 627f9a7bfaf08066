// Package site serves the embedded Architex landing page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe is returned when an embedded asset cannot be served.
var ErrServe = errors.New("site serve failed")

// Register attaches the landing page and its assets to mux.
//
//	GET /          -> index.html
//	GET /static/*  -> embedded assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	root := NewRootHandler()
	mux.HandleFunc("GET /{$}", root.HandleRoot)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(FS())))
}

// RootHandler serves the landing page.
type RootHandler struct {
	fs http.FileSystem
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{fs: FS()}
}

// HandleRoot handles GET / and writes the embedded index page.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	f, err := h.fs.Open("index.html")
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeContent(w, r, "index.html", info.ModTime(), f)
}
