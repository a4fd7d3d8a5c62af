package handler

import (
	"fmt"

	"github.com/passbi/transit-catalogue/internal/catalogue"
	"github.com/passbi/transit-catalogue/internal/geo"
	"github.com/passbi/transit-catalogue/internal/render"
	"github.com/passbi/transit-catalogue/internal/transportrouter"
)

// ApplyBaseRequests feeds a batch of base requests into a catalogue, in
// order. Used only by make_base; process_requests/serve reconstruct the
// catalogue from a snapshot instead.
func ApplyBaseRequests(cat *catalogue.Catalogue, reqs []BaseRequest) {
	for _, req := range reqs {
		switch req.Type {
		case BaseRequestStop:
			cat.AddStop(req.Name, geo.Coordinates{Lat: req.Latitude, Lon: req.Longitude}, req.RoadDistances)
		case BaseRequestBus:
			cat.AddBus(req.Name, req.Stops, req.IsRoundtrip)
		}
	}
}

// Handler answers stat requests against a fixed catalogue/renderer/router
// triple. Every Dispatch call is a pure function of (handler state,
// request) — nothing here retries or mutates, which is what lets a
// response cache sit in front of it by request identity alone. The map
// SVG is rendered once at construction, since every Map request answers
// with the exact same string.
type Handler struct {
	cat    *catalogue.Catalogue
	router *transportrouter.Router
	mapSVG string
}

// New builds a Handler. rt may be nil if Route stat requests are never
// expected to be asked (e.g. during early testing); a nil router always
// answers Route requests as not found.
func New(cat *catalogue.Catalogue, renderSettings render.Settings, rt *transportrouter.Router) *Handler {
	return &Handler{
		cat:    cat,
		router: rt,
		mapSVG: render.Render(cat, renderSettings),
	}
}

// NewFromRenderedMap builds a Handler reusing an already-rendered SVG
// string, e.g. one re-drawn from a snapshot's stored stop points, so every
// Map answer returns exactly that string.
func NewFromRenderedMap(cat *catalogue.Catalogue, mapSVG string, rt *transportrouter.Router) *Handler {
	return &Handler{cat: cat, router: rt, mapSVG: mapSVG}
}

// errUnknownRequestType means a stat request named a type outside the four
// known variants — an input error (spec category 2), not a "not found".
var errUnknownRequestType = fmt.Errorf("handler: unknown stat request type")

// Dispatch answers one stat request. The returned value is always one of
// BusResponse, StopResponse, MapResponse, RouteResponse, or
// NotFoundResponse — callers marshal it directly to JSON. A non-nil error
// means either an unknown request type (category 2) or an internal
// inconsistency surfaced by the catalogue/router (category 3); both are
// fatal to the caller, never reported in-band.
func (h *Handler) Dispatch(req StatRequest) (interface{}, error) {
	switch req.Type {
	case StatRequestBus:
		return h.handleBus(req)
	case StatRequestStop:
		return h.handleStop(req), nil
	case StatRequestMap:
		return h.handleMap(req), nil
	case StatRequestRoute:
		return h.handleRoute(req), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownRequestType, req.Type)
	}
}

func (h *Handler) handleBus(req StatRequest) (interface{}, error) {
	info, found, err := h.cat.BusInfo(req.Name)
	if err != nil {
		return nil, err
	}
	if !found {
		return notFound(req), nil
	}
	return BusResponse{
		Curvature:       info.Curvature,
		RouteLength:     info.RealLength,
		StopCount:       info.StopsCount,
		UniqueStopCount: info.UniqueStops,
		RequestID:       requestIDPtr(req),
	}, nil
}

func (h *Handler) handleStop(req StatRequest) interface{} {
	info, lookup := h.cat.StopInfo(req.Name)
	if lookup == catalogue.StopNotFound {
		return notFound(req)
	}
	buses := info.Buses
	if buses == nil {
		buses = []string{}
	}
	return StopResponse{Buses: buses, RequestID: requestIDPtr(req)}
}

func (h *Handler) handleMap(req StatRequest) interface{} {
	return MapResponse{Map: h.mapSVG, RequestID: requestIDPtr(req)}
}

func (h *Handler) handleRoute(req StatRequest) interface{} {
	if h.router == nil {
		return notFound(req)
	}
	result, ok := h.router.FindRoute(req.From, req.To)
	if !ok {
		return notFound(req)
	}

	items := make([]ItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		switch item.Kind {
		case transportrouter.ItemWait:
			items = append(items, ItemResponse{Type: "Wait", StopName: item.Stop, Time: item.Time})
		case transportrouter.ItemBus:
			items = append(items, ItemResponse{Type: "Bus", Bus: item.Bus, SpanCount: item.SpanCount, Time: item.Time})
		}
	}

	return RouteResponse{TotalTime: result.TotalTime, Items: items, RequestID: requestIDPtr(req)}
}
