package render

import (
	"bytes"
	"strings"
	"testing"

	"rocket-tracker/internal/fleet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestFleet_emptySections(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Fleet(&buf, fleet.Aggregate(nil)))

	out := buf.String()
	assert.Contains(t, out, "Boosters")
	assert.Contains(t, out, "No boosters found in the database.")
	assert.Contains(t, out, "No ships found in the database.")
	assert.NotContains(t, out, "\x1b[", "non-terminal output must not be styled")
}

func TestFleet_entities(t *testing.T) {
	b7 := fleet.HardwareNumber("7")
	s30 := fleet.HardwareNumber("30")
	launches := []fleet.LaunchRecord{
		{ID: "a", BoosterNumber: &b7, BoosterFlightCount: ptr(2), LaunchSite: ptr("Pad A")},
		{ID: "b", BoosterNumber: &b7, BoosterFlightCount: ptr(4), LaunchSite: ptr("Pad B")},
		{ID: "c", ShipNumber: &s30},
	}
	var buf bytes.Buffer

	require.NoError(t, Fleet(&buf, fleet.Aggregate(launches)))

	out := buf.String()
	assert.Contains(t, out, "Booster 7")
	assert.Contains(t, out, "Total Flights: 4")
	assert.Contains(t, out, "Launch Sites: Pad A, Pad B")
	assert.Contains(t, out, "Missions: 2")
	assert.Contains(t, out, "Ship 30")
	assert.Contains(t, out, "Launch Sites: N/A")
	assert.Less(t, strings.Index(out, "Booster 7"), strings.Index(out, "Ship 30"))
}

func TestDetail_substitutions(t *testing.T) {
	launches := []fleet.LaunchRecord{
		{ID: "a", LaunchDate: "2025-01-16", MissionName: ptr("IFT-7"), LaunchTime: "22:37", LaunchSite: ptr("Starbase"), BoosterFlightCount: ptr(2), LaunchStatus: ptr("Success")},
		{ID: "b", LaunchDate: "2024-10-13"},
	}
	d, ok := fleet.Detail(fleet.KindBooster, "14", launches)
	require.True(t, ok)
	var buf bytes.Buffer

	require.NoError(t, Detail(&buf, d))

	out := buf.String()
	assert.Contains(t, out, "Booster 14")
	assert.Contains(t, out, "Flight-Proven Booster")
	assert.Contains(t, out, "Total Flights: 2")
	assert.Contains(t, out, "Total Missions: 2")
	assert.Contains(t, out, "First Launch: 2024-10-13")
	assert.Contains(t, out, "Latest Launch: 2025-01-16")
	assert.Contains(t, out, "Mission IFT-7")
	assert.Contains(t, out, "Mission Unknown")
	assert.Contains(t, out, "Time: TBD")
	assert.Contains(t, out, "Site: Unknown")
	assert.Contains(t, out, "Flight: 1")
	assert.Contains(t, out, "Status: Unknown")
}

func TestError(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Error(&buf, "ratelimit, slow down!"))

	assert.Equal(t, "ratelimit, slow down!\n", buf.String())
}
