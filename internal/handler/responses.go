package handler

// Each stat request answers with exactly one of two JSON shapes — the
// success shape or the shared not-found shape — never a struct carrying
// both sets of fields with some omitted, so a zero value (curvature 0,
// total_time 0, an empty buses list) is never mistaken for an absent
// field.

// NotFoundResponse is the shared "not found" shape for Bus/Stop/Route.
// RequestID is omitted for requests built with StatRequest.NoRequestID
// set (i.e. HTTP-originated requests, which have no batch id).
type NotFoundResponse struct {
	ErrorMessage string `json:"error_message"`
	RequestID    *int   `json:"request_id,omitempty"`
}

func notFound(req StatRequest) NotFoundResponse {
	return NotFoundResponse{ErrorMessage: "not found", RequestID: requestIDPtr(req)}
}

// requestIDPtr returns req.ID as a pointer for CLI-originated requests, or
// nil for HTTP-originated ones (req.NoRequestID): the CLI's batch id and
// HTTP's internal request counter aren't the same kind of thing, so an
// HTTP response omits request_id rather than echoing the counter back.
func requestIDPtr(req StatRequest) *int {
	if req.NoRequestID {
		return nil
	}
	id := req.ID
	return &id
}

// BusResponse is the success shape for a Bus stat request.
type BusResponse struct {
	Curvature       float64 `json:"curvature"`
	RouteLength     int     `json:"route_length"`
	StopCount       int     `json:"stop_count"`
	UniqueStopCount int     `json:"unique_stop_count"`
	RequestID       *int    `json:"request_id,omitempty"`
}

// StopResponse is the success shape for a Stop stat request. Buses is
// always present, even when empty.
type StopResponse struct {
	Buses     []string `json:"buses"`
	RequestID *int     `json:"request_id,omitempty"`
}

// MapResponse is the only shape a Map stat request ever produces.
type MapResponse struct {
	Map       string `json:"map"`
	RequestID *int   `json:"request_id,omitempty"`
}

// ItemResponse is one alternating Wait/Bus leg of a Route answer.
type ItemResponse struct {
	Type string `json:"type"` // "Wait" or "Bus"

	StopName string `json:"stop_name,omitempty"` // Wait

	Bus       string `json:"bus,omitempty"` // Bus
	SpanCount int    `json:"span_count,omitempty"`

	Time float64 `json:"time"`
}

// RouteResponse is the success shape for a Route stat request. Items is
// always present, even when empty (from == to).
type RouteResponse struct {
	TotalTime float64        `json:"total_time"`
	Items     []ItemResponse `json:"items"`
	RequestID *int           `json:"request_id,omitempty"`
}
