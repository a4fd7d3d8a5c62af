// Package handler dispatches already-decoded base and stat requests to
// the catalogue, renderer, and router, and folds the result into the
// five JSON response shapes. JSON (de)serialization itself is an external
// collaborator (see the top-level request document contract); this
// package only ever sees Go structs.
package handler

// BaseRequestType tags the two base-request variants.
type BaseRequestType string

const (
	BaseRequestStop BaseRequestType = "Stop"
	BaseRequestBus  BaseRequestType = "Bus"
)

// BaseRequest is one entry of the request document's base_requests array.
// Only the fields relevant to Type are populated.
type BaseRequest struct {
	Type BaseRequestType `json:"type"`

	// Stop fields.
	Name          string         `json:"name"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	RoadDistances map[string]int `json:"road_distances,omitempty"`

	// Bus fields.
	Stops       []string `json:"stops,omitempty"`
	IsRoundtrip bool     `json:"is_roundtrip,omitempty"`
}

// StatRequestType tags the four stat-request variants.
type StatRequestType string

const (
	StatRequestBus   StatRequestType = "Bus"
	StatRequestStop  StatRequestType = "Stop"
	StatRequestMap   StatRequestType = "Map"
	StatRequestRoute StatRequestType = "Route"
)

// StatRequest is one entry of the request document's stat_requests array.
type StatRequest struct {
	ID   int             `json:"id"`
	Type StatRequestType `json:"type"`

	Name string `json:"name,omitempty"` // Bus, Stop
	From string `json:"from,omitempty"` // Route
	To   string `json:"to,omitempty"`   // Route

	// NoRequestID marks a request assembled by an HTTP handler rather
	// than decoded from a batch stat_requests entry. HTTP requests have
	// no batch id to echo back, so their response omits request_id
	// entirely instead of reporting an internal request counter that
	// has no relation to anything the caller sent.
	NoRequestID bool `json:"-"`
}
