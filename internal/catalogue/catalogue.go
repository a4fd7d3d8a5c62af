// Package catalogue holds the interned stops and bus routes of a transport
// network plus the aggregated queries (bus/stop info, road distance) that
// the rest of the system is built on top of. It owns all stop and bus
// storage; every other package refers to entities by name, never by
// pointer, so the catalogue can be rebuilt independently from a snapshot.
package catalogue

import (
	"errors"
	"fmt"
	"sort"

	"github.com/passbi/transit-catalogue/internal/geo"
)

// ErrNoDistance is returned by Distance when neither (a,b) nor (b,a) has a
// recorded road distance. Callers that reach this on a request already
// validated against the catalogue treat it as an internal inconsistency.
var ErrNoDistance = errors.New("catalogue: no road distance recorded for stop pair")

// Stop is a named point in the network.
type Stop struct {
	Name        string
	Coordinates geo.Coordinates
}

// Bus is a named ordered traversal of stops. Stops holds the stored
// (already expanded, for a non-roundtrip bus) sequence.
type Bus struct {
	Name        string
	IsRoundtrip bool
	Stops       []string
}

// UniqueStops returns the cardinality of the set of stops the bus touches.
func (b *Bus) UniqueStops() int {
	seen := make(map[string]struct{}, len(b.Stops))
	for _, s := range b.Stops {
		seen[s] = struct{}{}
	}
	return len(seen)
}

// RouteLength is the cached geo/real length pair for a bus.
type RouteLength struct {
	GeoLength  float64
	RealLength float64
	Curvature  float64
}

type distKey struct {
	from, to string
}

// Catalogue is the transport network's entity store.
type Catalogue struct {
	stops map[string]*Stop
	buses map[string]*Bus
	// busOrder preserves insertion order; buses_for_render sorts its own
	// output, but keeping insertion order around makes iteration
	// deterministic for anything that doesn't re-sort.
	busOrder []string

	distances map[distKey]int

	stopsToBuses map[string]map[string]struct{}
	// stopsUsedOrder is the order stops first entered stopsToBuses.
	stopsUsedOrder []string

	lengths map[string]RouteLength
}

// New returns an empty catalogue.
func New() *Catalogue {
	return &Catalogue{
		stops:        make(map[string]*Stop),
		buses:        make(map[string]*Bus),
		distances:    make(map[distKey]int),
		stopsToBuses: make(map[string]map[string]struct{}),
		lengths:      make(map[string]RouteLength),
	}
}

func (c *Catalogue) getOrCreateStop(name string) *Stop {
	if s, ok := c.stops[name]; ok {
		return s
	}
	s := &Stop{Name: name}
	c.stops[name] = s
	return s
}

// AddStop is idempotent-with-overwrite on coordinates: a second declaration
// of the same stop replaces its coordinates and merges in any additional
// road distances. Any neighbour name not seen before is created as a
// coordinate-less placeholder, to be completed by its own later AddStop.
func (c *Catalogue) AddStop(name string, coords geo.Coordinates, neighbourDistances map[string]int) {
	stop := c.getOrCreateStop(name)
	stop.Coordinates = coords

	for neighbour, meters := range neighbourDistances {
		c.getOrCreateStop(neighbour)
		c.distances[distKey{stop.Name, neighbour}] = meters
	}
}

// AddBus registers a bus, expanding its stop list to the canonical stored
// sequence, and updates the stop-to-buses index. A bus whose input stop
// list is empty is recorded by name only and is permanently "not found" to
// every other query.
func (c *Catalogue) AddBus(name string, stops []string, isRoundtrip bool) {
	bus := &Bus{Name: name, IsRoundtrip: isRoundtrip}

	if len(stops) > 0 {
		bus.Stops = expandStops(stops, isRoundtrip)
	}

	if _, exists := c.buses[name]; !exists {
		c.busOrder = append(c.busOrder, name)
	}
	c.buses[name] = bus
	delete(c.lengths, name)

	for _, stopName := range bus.Stops {
		c.getOrCreateStop(stopName)
		set, ok := c.stopsToBuses[stopName]
		if !ok {
			set = make(map[string]struct{})
			c.stopsToBuses[stopName] = set
			c.stopsUsedOrder = append(c.stopsUsedOrder, stopName)
		}
		set[name] = struct{}{}
	}
}

// LoadBus registers a bus from an already-expanded stop sequence, storing
// it verbatim with no further expansion. Used to rehydrate a catalogue
// from a snapshot, where the stored sequence was already computed once by
// AddBus before encoding.
func (c *Catalogue) LoadBus(name string, expandedStops []string, isRoundtrip bool) {
	bus := &Bus{Name: name, IsRoundtrip: isRoundtrip}
	if len(expandedStops) > 0 {
		bus.Stops = append([]string(nil), expandedStops...)
	}

	if _, exists := c.buses[name]; !exists {
		c.busOrder = append(c.busOrder, name)
	}
	c.buses[name] = bus
	delete(c.lengths, name)

	for _, stopName := range bus.Stops {
		c.getOrCreateStop(stopName)
		set, ok := c.stopsToBuses[stopName]
		if !ok {
			set = make(map[string]struct{})
			c.stopsToBuses[stopName] = set
			c.stopsUsedOrder = append(c.stopsUsedOrder, stopName)
		}
		set[name] = struct{}{}
	}
}

// LoadDistance records a directed road distance between two stops without
// touching either stop's coordinates. Used to rehydrate a catalogue from a
// snapshot's flat distance-record list.
func (c *Catalogue) LoadDistance(from, to string, meters int) {
	c.getOrCreateStop(from)
	c.getOrCreateStop(to)
	c.distances[distKey{from, to}] = meters
}

// expandStops builds the canonical stored sequence: verbatim for a
// roundtrip, or input + reverse(input[:len-1]) for an out-and-back.
func expandStops(stops []string, isRoundtrip bool) []string {
	if isRoundtrip {
		out := make([]string, len(stops))
		copy(out, stops)
		return out
	}
	out := make([]string, 0, 2*len(stops)-1)
	out = append(out, stops...)
	for i := len(stops) - 2; i >= 0; i-- {
		out = append(out, stops[i])
	}
	return out
}

// BusInfo is the aggregated answer to a Bus stat query.
type BusInfo struct {
	StopsCount  int
	UniqueStops int
	RealLength  int
	Curvature   float64
}

// BusInfo returns the aggregated info for a bus, or found=false if the bus
// is unknown or has an empty stop list. An error means a consecutive stop
// pair on the bus has no recorded road distance in either direction — an
// internal inconsistency in the data feed, not a "not found" answer.
func (c *Catalogue) BusInfo(name string) (info BusInfo, found bool, err error) {
	bus, ok := c.buses[name]
	if !ok || len(bus.Stops) == 0 {
		return BusInfo{}, false, nil
	}

	length, err := c.routeLength(bus)
	if err != nil {
		return BusInfo{}, true, err
	}

	return BusInfo{
		StopsCount:  len(bus.Stops),
		UniqueStops: bus.UniqueStops(),
		RealLength:  int(length.RealLength),
		Curvature:   length.Curvature,
	}, true, nil
}

// StopInfo is the aggregated answer to a Stop stat query.
type StopInfo struct {
	// Buses is sorted lexicographically; nil/empty means the stop exists
	// but no bus touches it.
	Buses []string
}

// StopLookup is the outcome of looking up a stop by name.
type StopLookup int

const (
	// StopNotFound means the name never appeared in the network at all.
	StopNotFound StopLookup = iota
	// StopKnownNoBuses means the stop was declared/referenced but no bus
	// passes through it.
	StopKnownNoBuses
	// StopKnownWithBuses means at least one bus passes through the stop.
	StopKnownWithBuses
)

// StopInfo returns the buses that serve a stop and whether it was found.
func (c *Catalogue) StopInfo(name string) (StopInfo, StopLookup) {
	if _, ok := c.stops[name]; !ok {
		return StopInfo{}, StopNotFound
	}

	set, ok := c.stopsToBuses[name]
	if !ok || len(set) == 0 {
		return StopInfo{}, StopKnownNoBuses
	}

	buses := make([]string, 0, len(set))
	for b := range set {
		buses = append(buses, b)
	}
	sort.Strings(buses)

	return StopInfo{Buses: buses}, StopKnownWithBuses
}

// Distance looks up the road distance from a to b, falling back to the
// reverse direction, per the asymmetric-then-symmetric rule. It returns
// ErrNoDistance if neither direction was ever recorded — an internal
// inconsistency the caller should treat as fatal.
func (c *Catalogue) Distance(a, b string) (int, error) {
	if d, ok := c.distances[distKey{a, b}]; ok {
		return d, nil
	}
	if d, ok := c.distances[distKey{b, a}]; ok {
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q -> %q", ErrNoDistance, a, b)
}

// StopsUsed returns the stops that appear in at least one non-empty bus, in
// the order they were first referenced by a bus. The order has no bearing
// on correctness but is stable within a single process.
func (c *Catalogue) StopsUsed() []string {
	out := make([]string, len(c.stopsUsedOrder))
	copy(out, c.stopsUsedOrder)
	return out
}

// BusForRender is the render-facing view of a bus: name, roundtrip flag,
// and its stored stop sequence.
type BusForRender struct {
	Name        string
	IsRoundtrip bool
	Stops       []string
}

// BusesForRender returns every non-empty bus sorted by name.
func (c *Catalogue) BusesForRender() []BusForRender {
	out := make([]BusForRender, 0, len(c.buses))
	for _, bus := range c.buses {
		if len(bus.Stops) == 0 {
			continue
		}
		out = append(out, BusForRender{Name: bus.Name, IsRoundtrip: bus.IsRoundtrip, Stops: bus.Stops})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Stop returns a stop's coordinates, if the stop is known.
func (c *Catalogue) Stop(name string) (geo.Coordinates, bool) {
	s, ok := c.stops[name]
	if !ok {
		return geo.Coordinates{}, false
	}
	return s.Coordinates, true
}

// Bus returns a bus's stored stop sequence and roundtrip flag, if known
// and non-empty.
func (c *Catalogue) Bus(name string) (*Bus, bool) {
	b, ok := c.buses[name]
	if !ok || len(b.Stops) == 0 {
		return nil, false
	}
	return b, true
}

// DistanceEntry is one directed road-distance record.
type DistanceEntry struct {
	From, To string
	Meters   int
}

// AllStops returns every stop the catalogue knows about (declared or
// referenced as a neighbour), sorted by name. Used to enumerate the full
// record set for serialization.
func (c *Catalogue) AllStops() []Stop {
	out := make([]Stop, 0, len(c.stops))
	for _, s := range c.stops {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllBuses returns every registered bus, including empty-stop ones, sorted
// by name. Used to enumerate the full record set for serialization.
func (c *Catalogue) AllBuses() []Bus {
	out := make([]Bus, 0, len(c.buses))
	for _, b := range c.buses {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// AllDistances returns every recorded directed road distance, sorted by
// (from, to). Used to enumerate the full record set for serialization.
func (c *Catalogue) AllDistances() []DistanceEntry {
	out := make([]DistanceEntry, 0, len(c.distances))
	for k, meters := range c.distances {
		out = append(out, DistanceEntry{From: k.from, To: k.to, Meters: meters})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

func (c *Catalogue) routeLength(bus *Bus) (RouteLength, error) {
	if cached, ok := c.lengths[bus.Name]; ok {
		return cached, nil
	}

	var result RouteLength
	for i := 1; i < len(bus.Stops); i++ {
		prev, cur := bus.Stops[i-1], bus.Stops[i]
		prevCoords, _ := c.Stop(prev)
		curCoords, _ := c.Stop(cur)
		result.GeoLength += geo.Distance(prevCoords, curCoords)

		meters, err := c.Distance(prev, cur)
		if err != nil {
			return RouteLength{}, fmt.Errorf("bus %q: %w", bus.Name, err)
		}
		result.RealLength += float64(meters)
	}

	if result.GeoLength > 0 {
		result.Curvature = result.RealLength / result.GeoLength
	}

	c.lengths[bus.Name] = result
	return result, nil
}
