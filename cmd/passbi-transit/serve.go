package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/passbi/transit-catalogue/internal/config"
	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/httpapi"
	"github.com/passbi/transit-catalogue/internal/respcache"
	"github.com/passbi/transit-catalogue/internal/snapshot"
)

// runServe loads a snapshot once (serialization_settings.file from the
// request document given on in) and answers the same four stat-query
// kinds over HTTP for as long as the process runs. D2/D3 are opt-in:
// store ingestion only matters at make_base time, so serve only wires in
// the response cache, never Postgres.
func runServe(in io.Reader) error {
	doc, err := decodeRequestDocument(in)
	if err != nil {
		return err
	}
	if doc.SerializationSettings == nil || doc.SerializationSettings.File == "" {
		return fmt.Errorf("serialization_settings.file is required")
	}

	f, err := os.Open(doc.SerializationSettings.File)
	if err != nil {
		return fmt.Errorf("opening snapshot file: %w", err)
	}
	decoded, err := snapshot.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decoding snapshot: %w", err)
	}

	h := handler.NewFromRenderedMap(decoded.Catalogue, renderFromSnapshot(decoded), decoded.Router)

	cfg := config.LoadFromEnv()

	var cache *respcache.Cache
	if config.HasRedis() {
		cache = respcache.New(fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port), cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL)
		if err := cache.Ping(context.Background()); err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		log.Println("respcache: connected")
		defer cache.Close()
	}

	server := httpapi.New(h, cache)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Println("serve: shutting down")
		if err := server.Shutdown(); err != nil {
			log.Printf("serve: shutdown error: %v", err)
		}
	}()

	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("serve: listening on %s", addr)
	return server.Listen(addr)
}
