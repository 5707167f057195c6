package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoundingBox(t *testing.T) {
	box, err := ParseBoundingBox("-84.64,39.045,-84.45,39.17")
	require.NoError(t, err)
	assert.Equal(t, BoundingBox{MinLon: -84.64, MinLat: 39.045, MaxLon: -84.45, MaxLat: 39.17}, box)
	assert.Equal(t, "-84.64,39.045,-84.45,39.17", box.String())

	assert.True(t, box.Contains(Point{Lat: 39.10, Lon: -84.51}))
	assert.False(t, box.Contains(Point{Lat: 40.0, Lon: -84.51}))

	_, err = ParseBoundingBox("1,2,3")
	assert.Error(t, err)

	_, err = ParseBoundingBox("a,2,3,4")
	assert.Error(t, err)

	_, err = ParseBoundingBox("5,2,3,4")
	assert.Error(t, err)
}

func TestParseSeverity(t *testing.T) {
	sev, ok := ParseSeverity(" medium ")
	assert.True(t, ok)
	assert.Equal(t, SeverityMedium, sev)

	_, ok = ParseSeverity("Critical")
	assert.False(t, ok)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2025, 10, 18, 14, 3, 7, 123456000, time.UTC)

	got, ok := ParseTimestamp(FormatTimestamp(want))
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	// datetime.utcnow().isoformat() has no zone designator
	got, ok = ParseTimestamp("2025-10-18T14:03:07.123456")
	require.True(t, ok)
	assert.True(t, want.Equal(got))

	_, ok = ParseTimestamp("yesterday")
	assert.False(t, ok)
}

func TestFormatTimestamp_SortsLexicographically(t *testing.T) {
	a := FormatTimestamp(time.Date(2025, 1, 1, 0, 0, 5, 0, time.UTC))
	b := FormatTimestamp(time.Date(2025, 1, 1, 0, 0, 5, 100000000, time.UTC))
	assert.Less(t, a, b)
}

func TestSelectionState_Transitions(t *testing.T) {
	state := &SelectionState{SessionID: "s"}
	assert.False(t, state.HasSelection())

	state.Select(Point{Lat: 39.10, Lon: -84.51})
	p, ok := state.Selection()
	require.True(t, ok)
	assert.Equal(t, Point{Lat: 39.10, Lon: -84.51}, p)

	// a second click overwrites the first one
	state.Select(Point{Lat: 39.11, Lon: -84.52})
	p, _ = state.Selection()
	assert.Equal(t, 39.11, p.Lat)

	zoom := 15
	state.SetViewport(&Point{Lat: 39.2, Lon: -84.4}, &zoom)
	assert.True(t, state.HasSelection(), "viewport changes keep the selection")

	state.ClearSelection()
	assert.False(t, state.HasSelection())
	assert.Equal(t, 15, *state.MapZoom)
}

func TestNewStreetImagePoint(t *testing.T) {
	p, ok := NewStreetImagePoint("123", []float64{-84.5, 39.1})
	require.True(t, ok)
	assert.Equal(t, StreetImagePoint{ID: "123", Lat: 39.1, Lon: -84.5}, p)

	_, ok = NewStreetImagePoint("123", []float64{-84.5})
	assert.False(t, ok)

	_, ok = NewStreetImagePoint("", []float64{-84.5, 39.1})
	assert.False(t, ok)

	_, ok = NewStreetImagePoint("1", []float64{math.NaN(), 39.1})
	assert.False(t, ok)
}

func TestIsOpenStatusFlag(t *testing.T) {
	assert.True(t, IsOpenStatusFlag("OPEN"))
	assert.True(t, IsOpenStatusFlag("open"))
	assert.False(t, IsOpenStatusFlag("CLOSED"))
	assert.False(t, IsOpenStatusFlag(""))
}
