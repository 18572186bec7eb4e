package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coreos/pkg/capnslog"
)

const shutdownTimeout = 5 * time.Second

// serve handles connections on ln until ctx is done, then shuts down gracefully.
func serve(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func run(ctx context.Context) error {
	root, err := documentRoot()
	if err != nil {
		return err
	}
	if err := loadDotEnv(root); err != nil {
		plog.Warningf("Ignoring %s: %v", dotEnvFile, err)
	}

	cfg, warnings := loadConfig(os.Getenv, root)
	capnslog.SetGlobalLogLevel(cfg.LogLevel)
	for _, w := range warnings {
		plog.Warning(w)
	}

	ln, err := net.Listen("tcp", net.JoinHostPort("0.0.0.0", strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", cfg.Port, err)
	}

	fmt.Fprintf(os.Stdout, "Static server running at http://localhost:%d/\n", cfg.Port)
	return serve(ctx, ln, service(cfg, osFileSystem{}))
}

func main() {
	capnslog.SetFormatter(capnslog.NewStringFormatter(os.Stderr))
	capnslog.SetGlobalLogLevel(capnslog.NOTICE)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		plog.Fatal(err)
	}
}
