package store

import (
	"testing"

	"github.com/passbi/transit-catalogue/internal/handler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssembleBaseRequestsReassemblesStopsAndBuses(t *testing.T) {
	stops := []stopRow{
		{id: 1, name: "A", lat: 55.6, lon: 37.6},
		{id: 2, name: "B", lat: 55.6, lon: 37.7},
	}
	buses := []busRow{{id: 10, name: "1", isRoundtrip: false}}
	busStops := []busStopRow{
		{busID: 10, stopID: 2, sequence: 1},
		{busID: 10, stopID: 1, sequence: 0},
	}
	distances := []distanceRow{
		{fromID: 1, toID: 2, meters: 1000},
		{fromID: 2, toID: 1, meters: 1100},
	}

	reqs, err := assembleBaseRequests(stops, buses, busStops, distances)
	require.NoError(t, err)
	require.Len(t, reqs, 3)

	byName := make(map[string]handler.BaseRequest, len(reqs))
	for _, r := range reqs {
		byName[r.Name] = r
	}

	stopA := byName["A"]
	assert.Equal(t, handler.BaseRequestStop, stopA.Type)
	assert.Equal(t, map[string]int{"B": 1000}, stopA.RoadDistances)

	bus := byName["1"]
	assert.Equal(t, handler.BaseRequestBus, bus.Type)
	assert.Equal(t, []string{"A", "B"}, bus.Stops)
	assert.False(t, bus.IsRoundtrip)
}

func TestAssembleBaseRequestsOrdersByStopSequence(t *testing.T) {
	stops := []stopRow{
		{id: 1, name: "A"}, {id: 2, name: "B"}, {id: 3, name: "C"},
	}
	buses := []busRow{{id: 10, name: "1", isRoundtrip: true}}
	busStops := []busStopRow{
		{busID: 10, stopID: 3, sequence: 2},
		{busID: 10, stopID: 1, sequence: 0},
		{busID: 10, stopID: 2, sequence: 1},
	}

	reqs, err := assembleBaseRequests(stops, buses, busStops, nil)
	require.NoError(t, err)

	var bus handler.BaseRequest
	for _, r := range reqs {
		if r.Type == handler.BaseRequestBus {
			bus = r
		}
	}
	assert.Equal(t, []string{"A", "B", "C"}, bus.Stops)
}

func TestAssembleBaseRequestsRejectsDanglingStopReference(t *testing.T) {
	stops := []stopRow{{id: 1, name: "A"}}
	distances := []distanceRow{{fromID: 1, toID: 99, meters: 500}}

	_, err := assembleBaseRequests(stops, nil, nil, distances)
	assert.Error(t, err)
}

func TestAssembleBaseRequestsRejectsDanglingBusStopReference(t *testing.T) {
	stops := []stopRow{{id: 1, name: "A"}}
	buses := []busRow{{id: 10, name: "1"}}
	busStops := []busStopRow{{busID: 10, stopID: 99, sequence: 0}}

	_, err := assembleBaseRequests(stops, buses, busStops, nil)
	assert.Error(t, err)
}
