// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command searchd starts the sky search API server.
//
// The server exposes the search-bar query parser and resolver cascade:
//   - Free-text parsing into a normalized query intent
//   - Name resolution through TNS, SIMBAD and SSODNET in precedence order
//   - Memoized resolver answers with an optional persisted BadgerDB tier
//
// Usage:
//
//	go run ./cmd/searchd
//	go run ./cmd/searchd -port 9090 -config /etc/aleutian/search.yaml
//
// Environment:
//
//	RESOLVER_CACHE_DIR overrides the persisted-cache directory from the
//	config file; falls back to ~/.aleutian/cache/resolver/ when neither
//	is set. If the directory cannot be opened the service degrades to
//	memo-only caching.
//
// Example requests:
//
//	# Health check
//	curl http://localhost:8080/v1/search/health
//
//	# Parse a query
//	curl -X POST http://localhost:8080/v1/search/parse \
//	  -H "Content-Type: application/json" \
//	  -d '{"query": "ZTF21abfmbix r=5"}'
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/AleutianAI/AleutianSky/services/search"
	"github.com/AleutianAI/AleutianSky/services/search/config"
	"github.com/AleutianAI/AleutianSky/services/search/resolve"
	badgerstore "github.com/AleutianAI/AleutianSky/services/search/storage/badger"
)

func main() {
	port := flag.Int("port", 0, "Port to listen on (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug mode")
	configPath := flag.String("config", "", "Path to YAML config file")
	flag.Parse()

	if *debug {
		slog.SetLogLoggerLevel(slog.LevelDebug)
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// W3C TraceContext propagation so UI-originated traces flow through
	// the parse and resolver spans.
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	// Persisted resolver cache. Graceful degradation: if the directory is
	// unavailable, resolution continues in memo-only mode.
	var store resolve.Store
	cacheDir := os.Getenv("RESOLVER_CACHE_DIR")
	if cacheDir == "" {
		cacheDir = cfg.Cache.PersistDir
	}
	if cacheDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cacheDir = filepath.Join(home, ".aleutian", "cache", "resolver")
		}
	}
	var cacheDB *badgerstore.DB
	if cacheDir != "" {
		dbCfg := badgerstore.DefaultConfig()
		dbCfg.Path = cacheDir
		db, err := badgerstore.OpenDB(dbCfg)
		if err != nil {
			slog.Warn("Resolver cache BadgerDB unavailable, persistence disabled",
				slog.String("path", cacheDir),
				slog.String("error", err.Error()),
			)
		} else {
			cacheDB = db
			store = resolve.NewBadgerStore(db, cfg.Cache.PersistTTL.Std(), slog.Default())
			slog.Info("Resolver cache BadgerDB opened", slog.String("path", cacheDir))
		}
	}

	memo, err := resolve.NewMemo(cfg.Cache.MemoEntries, store, slog.Default())
	if err != nil {
		slog.Error("Failed to create resolver memo cache", slog.String("error", err.Error()))
		os.Exit(1)
	}

	client := resolve.NewClient(cfg.Resolver.BaseURL, cfg.Resolver.NMax, slog.Default())
	cascade := resolve.NewCascade(resolve.Resolvers{
		TNS:    resolve.NewTNSResolver(client),
		Simbad: resolve.NewSimbadResolver(client),
		SSO:    resolve.NewSSOResolver(client),
		ZTF:    resolve.NewZTFResolver(client),
	}, memo, slog.Default())

	svc := search.NewService(cascade, cfg.Resolver.Timeout.Std(), slog.Default())
	handlers := search.NewHandlers(svc, cfg.Server.BatchLimit, slog.Default())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("aleutian-search"))
	if *debug {
		router.Use(gin.Logger())
	}

	v1 := router.Group("/v1")
	search.RegisterRoutes(v1, handlers)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		slog.Info("Shutting down sky search server")
		if cacheDB != nil {
			if err := cacheDB.Close(); err != nil {
				slog.Warn("Failed to close resolver cache BadgerDB", slog.String("error", err.Error()))
			}
		}
		os.Exit(0)
	}()

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	slog.Info("Starting sky search server",
		slog.String("address", addr),
		slog.String("resolver", cfg.Resolver.BaseURL),
	)
	if err := router.Run(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("Failed to start server", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
