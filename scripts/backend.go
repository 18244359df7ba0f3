// Backend is a small HTTP server for trying the keep-alive pinger by hand.
// It serves /health and can be made slow or unhealthy.
//
// Usage:
//
//	go run scripts/backend.go -port 8081 -delay 2s -status 503
//
// A delay longer than the ping interval provokes overlap skips.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync/atomic"
	"time"
)

func main() {
	port := flag.Int("port", 8081, "port to listen on")
	delay := flag.Duration("delay", 0, "time to wait before answering /health")
	status := flag.Int("status", http.StatusOK, "status code returned by /health")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, nil))

	var pings atomic.Int64

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		n := pings.Add(1)
		log.Info("ping received",
			slog.Int64("count", n),
			slog.String("from", r.RemoteAddr),
			slog.String("user_agent", r.UserAgent()))

		if *delay > 0 {
			select {
			case <-time.After(*delay):
			case <-r.Context().Done():
				log.Warn("client gave up", slog.Int64("count", n))
				return
			}
		}

		w.WriteHeader(*status)
		fmt.Fprintf(w, "pong %d\n", n)
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Info("starting backend", slog.String("addr", addr), slog.Duration("delay", *delay), slog.Int("status", *status))
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error("server failed", slog.Any("err", err))
		os.Exit(1)
	}
}
