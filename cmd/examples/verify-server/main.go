// Copyright (C) 2025 Xache Protocol
//
// This file is part of xache-go.
//
// xache-go is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// xache-go is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with xache-go.  If not, see <https://www.gnu.org/licenses/>.

// This example runs a fingerprint probe service behind DID authentication.
// Configure it with XACHE_LISTEN_ADDR and XACHE_PROBE_DB, then point the
// signed-client example at it.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/xache-protocol/xache-go/pkg/config"
	"github.com/xache-protocol/xache-go/pkg/probe"
	"github.com/xache-protocol/xache-go/pkg/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	idx, err := probe.Open(cfg.ProbeDB)
	if err != nil {
		log.Fatalf("probe index: %v", err)
	}
	defer idx.Close()

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.NewProbeRouter(idx, server.NewDIDAuthMiddleware()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("verify-server listening on %s (index %s)", cfg.ListenAddr, cfg.ProbeDB)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server: %v", err)
	}
	log.Println("verify-server stopped")
}
