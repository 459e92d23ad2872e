// Package httpserver builds the API's http.Server.
package httpserver

import (
	"net/http"
	"time"
)

// New returns a server tuned for short CRUD requests from gatehouse and
// back-office clients. Connections idle between gate events, so the idle
// timeout is generous while the read and write timeouts stay tight.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
}
