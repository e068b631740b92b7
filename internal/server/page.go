package server

import (
	_ "embed"
	"net/http"
)

//go:embed static/index.html
var indexPage []byte

// indexHandler serves the single-page upload form. There is no bundling
// step; the page is static HTML with inline script.
func (s *Server) indexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(indexPage)
	}
}
