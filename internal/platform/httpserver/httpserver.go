// Package httpserver builds the API's *http.Server.
package httpserver

import (
	"net/http"
	"time"
)

// Uploads of records and metadata tables are bounded by the handler, so the
// body timeouts only need to cover a slow client sending that much.
const (
	readHeaderTimeout = 5 * time.Second
	bodyTimeout       = 60 * time.Second
	idleTimeout       = 2 * time.Minute
)

func New(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       bodyTimeout,
		WriteTimeout:      bodyTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    64 << 10,
	}
}
