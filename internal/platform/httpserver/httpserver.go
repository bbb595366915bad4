package httpserver

import (
	"net/http"
	"time"
)

// New builds an HTTP server. WriteTimeout is left unset because /verify
// holds the connection for a whole browser run; the run timeout bounds it.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
