/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */


// Package lifecycle runs a long-lived service next to its HTTP endpoint and
// shuts both down on a signal.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpmw "github.com/carverauto/alpaca-exporter/pkg/http"
	"github.com/carverauto/alpaca-exporter/pkg/logger"
	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
)

const (
	defaultShutdownTimeout   = 10 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
)

var errServiceRequired = errors.New("service is required")

// Service is a component with a blocking Start and a Stop that makes Start return.
type Service interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// RouteRegistrar adds handlers to the service router.
type RouteRegistrar func(r *mux.Router)

// ServerOptions configures RunServer.
type ServerOptions struct {
	ListenAddr  string
	ServiceName string
	Service     Service
	Routes      []RouteRegistrar
	// Listener overrides ListenAddr, mainly for tests.
	Listener        net.Listener
	ShutdownTimeout time.Duration
	Logger          logger.Logger
}

// RunServer serves until SIGINT or SIGTERM.
func RunServer(ctx context.Context, opts *ServerOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Serve(ctx, opts)
}

// Serve starts the service and the HTTP server and blocks until ctx is done or
// either of them fails. Both are then stopped within ShutdownTimeout.
func Serve(ctx context.Context, opts *ServerOptions) error {
	if opts.Service == nil {
		return errServiceRequired
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	timeout := opts.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}

	ln := opts.Listener
	if ln == nil {
		var err error

		ln, err = net.Listen("tcp", opts.ListenAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on %s: %w", opts.ListenAddr, err)
		}
	}

	router := mux.NewRouter()
	router.Use(httpmw.Recoverer(log), httpmw.RequestLogger(log))
	router.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	for _, register := range opts.Routes {
		register(router)
	}

	srv := &http.Server{
		Handler:           router,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Str("service", opts.ServiceName).Str("address", ln.Addr().String()).Msg("Serving HTTP")

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}

		return nil
	})

	g.Go(func() error {
		if err := opts.Service.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("%s: %w", opts.ServiceName, err)
		}

		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		log.Info().Str("service", opts.ServiceName).Msg("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		var errs []error

		if err := opts.Service.Stop(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("stop %s: %w", opts.ServiceName, err))
		}

		if err := srv.Shutdown(shutdownCtx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}

		return errors.Join(errs...)
	})

	return g.Wait()
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}
