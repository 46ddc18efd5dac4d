package util

import (
	"context"
	"net/http"
	"sync"
	"time"
)

var healthCheckServerShutdownTimeout = 1 * time.Second

// SetupHealthCheck runs a minimal HTTP server answering 200 OK on /health for
// as long as the daemon is running. Intended for container environments that
// can't use the systemd watchdog.
func SetupHealthCheck(ctx context.Context, logger *Logger, wg *sync.WaitGroup, address string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{
		Addr:    address,
		Handler: mux,
	}

	wg.Add(1)
	go func() {
		defer wg.Done()

		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			logger.PrintError("Error when running the health check server: %s", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()

		<-ctx.Done()
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), healthCheckServerShutdownTimeout)
		defer cancel()
		err := srv.Shutdown(ctxWithTimeout)
		if err != nil {
			logger.PrintError("Failed to shut down the health check server: %s", err)
		}
	}()
}
