package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/config"
	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/snapshot"
	"github.com/passbi/transit-catalogue/internal/store"
)

// runMakeBase reads a request document from in, builds the catalogue and
// transport router from base_requests/routing_settings/render_settings,
// and writes the binary snapshot to serialization_settings.file. When
// the environment has DB_* settings (config.HasDB), base_requests from
// Postgres (internal/store) are appended after the document's own
// base_requests, so a deployment can seed from relational tables
// without giving up the ability to add one-off entities inline.
func runMakeBase(in io.Reader, out io.Writer) error {
	doc, err := decodeRequestDocument(in)
	if err != nil {
		return err
	}
	if doc.SerializationSettings == nil || doc.SerializationSettings.File == "" {
		return fmt.Errorf("serialization_settings.file is required")
	}
	if doc.RenderSettings == nil {
		return fmt.Errorf("render_settings is required")
	}
	if doc.RoutingSettings == nil {
		return fmt.Errorf("routing_settings is required")
	}

	renderSettings, err := doc.RenderSettings.toSettings()
	if err != nil {
		return err
	}

	baseRequests := doc.BaseRequests
	if config.HasDB() {
		dbRequests, err := loadBaseRequestsFromStore(context.Background())
		if err != nil {
			return err
		}
		baseRequests = append(append([]handler.BaseRequest{}, baseRequests...), dbRequests...)
	}

	cat := catalogue.New()
	handler.ApplyBaseRequests(cat, baseRequests)

	routerSettings := doc.RoutingSettings.toSettings()
	data, err := snapshot.Encode(cat, renderSettings, routerSettings)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	if err := os.WriteFile(doc.SerializationSettings.File, data, 0o644); err != nil {
		return fmt.Errorf("writing snapshot file: %w", err)
	}

	return nil
}

// loadBaseRequestsFromStore opens a short-lived pgxpool.Pool from the
// environment's DB_* settings and reassembles base_requests from it via
// internal/store.
func loadBaseRequestsFromStore(ctx context.Context) ([]handler.BaseRequest, error) {
	cfg := config.LoadFromEnv().DB
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}
	defer pool.Close()

	requests, err := store.LoadBaseRequests(ctx, pool)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func decodeRequestDocument(in io.Reader) (*requestDocument, error) {
	var doc requestDocument
	dec := json.NewDecoder(in)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding request document: %w", err)
	}
	return &doc, nil
}
