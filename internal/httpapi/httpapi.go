// Package httpapi exposes the four stat-query kinds over HTTP, as an
// alternative transport to the batch JSON request document. Grounded on
// the teacher's internal/api + cmd/api/main.go: same fiber middleware
// stack and customErrorHandler JSON-error-envelope convention, thin
// handlers that translate into handler.StatRequest and back with no
// duplicated business logic.
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/passbi/transit-catalogue/internal/respcache"
)

// Server wires a handler.Handler (and an optional response cache) into a
// fiber app.
type Server struct {
	app   *fiber.App
	h     *handler.Handler
	cache *respcache.Cache

	nextRequestID func() int
}

// New builds a Server. cache may be nil, in which case every answer is
// computed directly.
func New(h *handler.Handler, cache *respcache.Cache) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "transit-catalogue",
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
	}))

	var id int
	s := &Server{
		app:   app,
		h:     h,
		cache: cache,
		nextRequestID: func() int {
			id++
			return id
		},
	}

	app.Get("/health", s.handleHealth)
	app.Get("/buses/:name", s.handleBus)
	app.Get("/stops/:name", s.handleStop)
	app.Get("/map", s.handleMap)
	app.Get("/routes", s.handleRoute)

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "endpoint not found"})
	})

	return s
}

// Listen starts the HTTP server on addr (e.g. ":8080"), blocking until
// shutdown.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleBus(c *fiber.Ctx) error {
	req := handler.StatRequest{ID: s.nextRequestID(), Type: handler.StatRequestBus, Name: c.Params("name"), NoRequestID: true}
	return s.dispatch(c, "bus", req)
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	req := handler.StatRequest{ID: s.nextRequestID(), Type: handler.StatRequestStop, Name: c.Params("name"), NoRequestID: true}
	return s.dispatch(c, "stop", req)
}

func (s *Server) handleMap(c *fiber.Ctx) error {
	req := handler.StatRequest{ID: s.nextRequestID(), Type: handler.StatRequestMap, NoRequestID: true}
	resp, err := s.answer(c.Context(), "map", req)
	if err != nil {
		return err
	}
	if m, ok := resp.(handler.MapResponse); ok {
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.SendString(m.Map)
	}
	return c.JSON(resp)
}

func (s *Server) handleRoute(c *fiber.Ctx) error {
	req := handler.StatRequest{
		ID:          s.nextRequestID(),
		Type:        handler.StatRequestRoute,
		From:        c.Query("from"),
		To:          c.Query("to"),
		NoRequestID: true,
	}
	return s.dispatch(c, "route", req)
}

func (s *Server) dispatch(c *fiber.Ctx, kind string, req handler.StatRequest) error {
	resp, err := s.answer(c.Context(), kind, req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// answer checks the response cache before falling back to the handler.
// A cache miss or any cache error is silently treated as "go compute it"
// — matches the teacher's cache.GetRoute returning (nil, nil) on
// redis.Nil and handlers treating any cache error the same way.
//
// Map always caches a MapResponse, but Bus/Stop/Route can cache either
// their success shape or the shared not-found shape, so the raw payload
// is probed for "error_message" before picking which one to decode into
// — unmarshaling straight into the success type would silently turn a
// cached not-found answer into a bogus zero-valued success.
func (s *Server) answer(ctx context.Context, kind string, req handler.StatRequest) (interface{}, error) {
	key, keyErr := respcache.Key(kind, cacheIdentity(req))

	if keyErr == nil && s.cache != nil {
		if raw, ok := respcache.GetRaw(ctx, s.cache, key); ok {
			if cached, ok := decodeCached(kind, raw); ok {
				return cached, nil
			}
		}
	}

	resp, err := s.h.Dispatch(req)
	if err != nil {
		return nil, err
	}

	if keyErr == nil && s.cache != nil {
		if err := respcache.Set(ctx, s.cache, key, resp); err != nil {
			log.Printf("respcache: set failed, continuing uncached: %v", err)
		}
	}

	return resp, nil
}

// cacheIdentityReq is the part of a StatRequest that actually identifies
// the query; it excludes ID, which on an HTTP-originated request is just
// an ever-incrementing counter with no bearing on what's being asked.
// Hashing the full StatRequest (including ID) would make every request
// hash uniquely and the cache would never hit.
type cacheIdentityReq struct {
	Type handler.StatRequestType `json:"type"`
	Name string                  `json:"name,omitempty"`
	From string                  `json:"from,omitempty"`
	To   string                  `json:"to,omitempty"`
}

func cacheIdentity(req handler.StatRequest) cacheIdentityReq {
	return cacheIdentityReq{Type: req.Type, Name: req.Name, From: req.From, To: req.To}
}

func decodeCached(kind string, raw []byte) (interface{}, bool) {
	var probe struct {
		ErrorMessage *string `json:"error_message"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, false
	}
	if probe.ErrorMessage != nil {
		var nf handler.NotFoundResponse
		if err := json.Unmarshal(raw, &nf); err != nil {
			return nil, false
		}
		return nf, true
	}

	switch kind {
	case "bus":
		var v handler.BusResponse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}
		return v, true
	case "stop":
		var v handler.StopResponse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}
		return v, true
	case "map":
		var v handler.MapResponse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}
		return v, true
	case "route":
		var v handler.RouteResponse
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, false
		}
		return v, true
	default:
		return nil, false
	}
}

// customErrorHandler mirrors the teacher's error envelope: any error
// returned from a handler becomes {"error": "..."} with the error's
// fiber status code, or 500 if it isn't a *fiber.Error.
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	log.Printf("httpapi: %v", err)
	return c.Status(code).JSON(fiber.Map{"error": err.Error()})
}
