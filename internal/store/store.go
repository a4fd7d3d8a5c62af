// Package store reassembles a catalogue's base requests from Postgres,
// as an alternative to reading them out of a request document's
// base_requests array. Grounded on the teacher's internal/db connection
// pool and the query style of internal/graph.Builder.
package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/passbi/transit-catalogue/internal/handler"
)

type stopRow struct {
	id       int
	name     string
	lat, lon float64
}

type busRow struct {
	id          int
	name        string
	isRoundtrip bool
}

type busStopRow struct {
	busID, stopID, sequence int
}

type distanceRow struct {
	fromID, toID, meters int
}

// LoadBaseRequests reads stop/bus/bus_stop/road_distance and reassembles
// them into the same []handler.BaseRequest shape the JSON request
// document's base_requests array produces, so ApplyBaseRequests sees an
// identical shape regardless of source.
func LoadBaseRequests(ctx context.Context, pool *pgxpool.Pool) ([]handler.BaseRequest, error) {
	stops, err := loadStops(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("store: load stops: %w", err)
	}
	buses, err := loadBuses(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("store: load buses: %w", err)
	}
	busStops, err := loadBusStops(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("store: load bus_stop: %w", err)
	}
	distances, err := loadDistances(ctx, pool)
	if err != nil {
		return nil, fmt.Errorf("store: load road_distance: %w", err)
	}

	return assembleBaseRequests(stops, buses, busStops, distances)
}

// assembleBaseRequests is the pure reassembly step, factored out of
// LoadBaseRequests so it can be exercised without a live Postgres pool.
func assembleBaseRequests(stops []stopRow, buses []busRow, busStops []busStopRow, distances []distanceRow) ([]handler.BaseRequest, error) {
	stopByID := make(map[int]stopRow, len(stops))
	for _, s := range stops {
		stopByID[s.id] = s
	}

	roadDistances := make(map[int]map[string]int, len(stops))
	for _, d := range distances {
		from, ok := stopByID[d.fromID]
		if !ok {
			return nil, fmt.Errorf("store: road_distance references unknown stop id %d", d.fromID)
		}
		to, ok := stopByID[d.toID]
		if !ok {
			return nil, fmt.Errorf("store: road_distance references unknown stop id %d", d.toID)
		}
		if roadDistances[from.id] == nil {
			roadDistances[from.id] = make(map[string]int)
		}
		roadDistances[from.id][to.name] = d.meters
	}

	requests := make([]handler.BaseRequest, 0, len(stops)+len(buses))
	for _, s := range stops {
		requests = append(requests, handler.BaseRequest{
			Type:          handler.BaseRequestStop,
			Name:          s.name,
			Latitude:      s.lat,
			Longitude:     s.lon,
			RoadDistances: roadDistances[s.id],
		})
	}

	stopsByBus := make(map[int][]busStopRow, len(buses))
	for _, bs := range busStops {
		stopsByBus[bs.busID] = append(stopsByBus[bs.busID], bs)
	}
	for busID := range stopsByBus {
		seq := stopsByBus[busID]
		sort.Slice(seq, func(i, j int) bool { return seq[i].sequence < seq[j].sequence })
		stopsByBus[busID] = seq
	}

	for _, b := range buses {
		names := make([]string, 0, len(stopsByBus[b.id]))
		for _, bs := range stopsByBus[b.id] {
			stop, ok := stopByID[bs.stopID]
			if !ok {
				return nil, fmt.Errorf("store: bus_stop references unknown stop id %d", bs.stopID)
			}
			names = append(names, stop.name)
		}
		requests = append(requests, handler.BaseRequest{
			Type:        handler.BaseRequestBus,
			Name:        b.name,
			Stops:       names,
			IsRoundtrip: b.isRoundtrip,
		})
	}

	return requests, nil
}

func loadStops(ctx context.Context, pool *pgxpool.Pool) ([]stopRow, error) {
	rows, err := pool.Query(ctx, `SELECT id, name, lat, lon FROM stop ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []stopRow
	for rows.Next() {
		var s stopRow
		if err := rows.Scan(&s.id, &s.name, &s.lat, &s.lon); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func loadBuses(ctx context.Context, pool *pgxpool.Pool) ([]busRow, error) {
	rows, err := pool.Query(ctx, `SELECT id, name, is_roundtrip FROM bus ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []busRow
	for rows.Next() {
		var b busRow
		if err := rows.Scan(&b.id, &b.name, &b.isRoundtrip); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func loadBusStops(ctx context.Context, pool *pgxpool.Pool) ([]busStopRow, error) {
	rows, err := pool.Query(ctx, `SELECT bus_id, stop_id, sequence FROM bus_stop ORDER BY bus_id, sequence`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []busStopRow
	for rows.Next() {
		var bs busStopRow
		if err := rows.Scan(&bs.busID, &bs.stopID, &bs.sequence); err != nil {
			return nil, err
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

func loadDistances(ctx context.Context, pool *pgxpool.Pool) ([]distanceRow, error) {
	rows, err := pool.Query(ctx, `SELECT from_id, to_id, meters FROM road_distance`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []distanceRow
	for rows.Next() {
		var d distanceRow
		if err := rows.Scan(&d.fromID, &d.toID, &d.meters); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
