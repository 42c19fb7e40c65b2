package fleet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func num(s string) *HardwareNumber {
	n := HardwareNumber(s)
	return &n
}

func ptr[T any](v T) *T { return &v }

func boosterLaunch(id, booster string, count int, site string) LaunchRecord {
	r := LaunchRecord{ID: id, BoosterNumber: num(booster), BoosterFlightCount: ptr(count)}
	if site != "" {
		r.LaunchSite = ptr(site)
	}
	return r
}

func ids(entities []FleetEntity) []HardwareNumber {
	out := make([]HardwareNumber, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func TestAggregate_groupsEveryID(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		{ID: "1", BoosterNumber: num("B1"), ShipNumber: num("S1")},
		{ID: "2", BoosterNumber: num("B2"), ShipNumber: num("S1")},
		{ID: "3", BoosterNumber: num("B1")},
		{ID: "4", ShipNumber: num("S2")},
	}

	got := Aggregate(launches)

	assert.ElementsMatch(t, []HardwareNumber{"B1", "B2"}, ids(got.Boosters))
	assert.ElementsMatch(t, []HardwareNumber{"S1", "S2"}, ids(got.Ships))
}

func TestAggregate_flightCountIsMax(t *testing.T) {
	t.Parallel()

	var launches []LaunchRecord
	for i, c := range []int{3, 1, 5, 2} {
		launches = append(launches, boosterLaunch(string(rune('a'+i)), "B7", c, "Pad A"))
	}

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 1)
	assert.Equal(t, 5, got.Boosters[0].FlightCount)
	assert.Len(t, got.Boosters[0].Missions, 4)
}

func TestAggregate_siteDeduplication(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		boosterLaunch("1", "B7", 1, "Pad A"),
		boosterLaunch("2", "B7", 2, "Pad A"),
		boosterLaunch("3", "B7", 3, "Pad B"),
	}

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 1)
	assert.Equal(t, []string{"Pad A", "Pad B"}, got.Boosters[0].LaunchSites)
	assert.NotContains(t, got.Boosters[0].LaunchSites, "Pad C")
}

func TestAggregate_sortIsStable(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		boosterLaunch("1", "B1", 5, ""),
		boosterLaunch("2", "B2", 5, ""),
		boosterLaunch("3", "B3", 7, ""),
	}

	got := Aggregate(launches)

	assert.Equal(t, []HardwareNumber{"B3", "B1", "B2"}, ids(got.Boosters))
	assert.Equal(t, 7, got.Boosters[0].FlightCount)
}

func TestAggregate_missingIDs(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		{ID: "1", ShipNumber: num("S9"), ShipFlightCount: ptr(2)},
		{ID: "2"},
		{ID: "3", BoosterNumber: num(""), ShipNumber: num("")},
	}

	got := Aggregate(launches)

	assert.Empty(t, got.Boosters)
	require.Len(t, got.Ships, 1)
	assert.Equal(t, HardwareNumber("S9"), got.Ships[0].ID)
	assert.Equal(t, 2, got.Ships[0].FlightCount)
}

func TestAggregate_emptyInput(t *testing.T) {
	t.Parallel()

	got := Aggregate(nil)

	assert.NotNil(t, got.Boosters)
	assert.NotNil(t, got.Ships)
	assert.Empty(t, got.Boosters)
	assert.Empty(t, got.Ships)
}

func TestAggregate_missingSiteIsOmitted(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		boosterLaunch("1", "B4", 1, ""),
		{ID: "2", BoosterNumber: num("B4"), LaunchSite: ptr("")},
	}

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 1)
	assert.Empty(t, got.Boosters[0].LaunchSites)
	assert.Len(t, got.Boosters[0].Missions, 2)
	assert.Equal(t, 1, got.Boosters[0].FlightCount)
}

func TestAggregate_zeroCountIsAbsent(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{
		boosterLaunch("1", "B1", 0, ""),
		{ID: "2", BoosterNumber: num("B2")},
		boosterLaunch("3", "B3", 0, ""),
		{ID: "4", BoosterNumber: num("B1")},
	}

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 3)
	assert.Equal(t, []HardwareNumber{"B1", "B2", "B3"}, ids(got.Boosters),
		"zero and missing counts tie, so first-seen order holds")
	for _, b := range got.Boosters {
		assert.Equal(t, 0, b.FlightCount, "booster %s", b.ID)
	}
	assert.Len(t, got.Boosters[0].Missions, 2)
}

func TestAggregate_numericSpellingsMerge(t *testing.T) {
	t.Parallel()

	payload := `[
		{"_id": "a", "boosterNumber": 7, "boosterFlightCount": 2},
		{"_id": "b", "boosterNumber": 7.0, "boosterFlightCount": 3},
		{"_id": "c", "boosterNumber": 0.7e1, "boosterFlightCount": "1"}
	]`
	var launches []LaunchRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &launches))

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 1)
	assert.Equal(t, HardwareNumber("7"), got.Boosters[0].ID)
	assert.Equal(t, 3, got.Boosters[0].FlightCount)
	assert.Len(t, got.Boosters[0].Missions, 3)
}

func TestAggregate_scenario(t *testing.T) {
	t.Parallel()

	payload := `[
		{"_id": "a", "boosterNumber": "B7", "boosterFlightCount": 1, "launchSite": "Pad A", "launchDate": "2025-01-01", "launchTime": "10:00"},
		{"_id": "b", "boosterNumber": "B7", "boosterFlightCount": 3, "launchSite": "Pad B", "launchDate": "2025-02-01"}
	]`
	var launches []LaunchRecord
	require.NoError(t, json.Unmarshal([]byte(payload), &launches))

	got := Aggregate(launches)

	require.Len(t, got.Boosters, 1)
	b := got.Boosters[0]
	assert.Equal(t, HardwareNumber("B7"), b.ID)
	assert.Equal(t, 3, b.FlightCount)
	assert.Equal(t, []string{"Pad A", "Pad B"}, b.LaunchSites)
	assert.Equal(t, []MissionSummary{
		{ID: "a", Date: "2025-01-01", Time: "10:00", Site: "Pad A"},
		{ID: "b", Date: "2025-02-01", Site: "Pad B"},
	}, b.Missions)
	assert.Empty(t, got.Ships)
}

func TestAggregate_doesNotShareStateBetweenCalls(t *testing.T) {
	t.Parallel()

	launches := []LaunchRecord{boosterLaunch("1", "B1", 2, "Pad A")}

	first := Aggregate(launches)
	first.Boosters[0].LaunchSites[0] = "mutated"
	second := Aggregate(launches)

	assert.Equal(t, []string{"Pad A"}, second.Boosters[0].LaunchSites)
}

func TestHardwareNumber_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  HardwareNumber
	}{
		"integer":     {input: `7`, want: "7"},
		"wholeFloat":  {input: `7.0`, want: "7"},
		"exponent":    {input: `1e1`, want: "10"},
		"fraction":    {input: `7.5`, want: "7.5"},
		"negZero":     {input: `-0.0`, want: ""},
		"string":      {input: `"B7"`, want: "B7"},
		"zero":        {input: `0`, want: ""},
		"null":        {input: `null`, want: ""},
		"emptyString": {input: `""`, want: ""},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var n HardwareNumber
			require.NoError(t, json.Unmarshal([]byte(tc.input), &n))
			assert.Equal(t, tc.want, n)
		})
	}
}

func TestHardwareNumber_UnmarshalJSON_rejectsObjects(t *testing.T) {
	t.Parallel()

	var n HardwareNumber
	assert.Error(t, json.Unmarshal([]byte(`{"a":1}`), &n))
}

func TestLaunchRecord_UnmarshalJSON_flightCounts(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		input string
		want  *int
	}{
		"integer":      {input: `2`, want: ptr(2)},
		"wholeFloat":   {input: `2.0`, want: ptr(2)},
		"numericText":  {input: `" 3 "`, want: ptr(3)},
		"null":         {input: `null`, want: nil},
		"nonNumeric":   {input: `"many"`, want: nil},
		"emptyText":    {input: `""`, want: nil},
		"boolean":      {input: `true`, want: nil},
		"outOfRange":   {input: `1e300`, want: nil},
		"zeroReported": {input: `0`, want: ptr(0)},
	}

	for name, tc := range tests {
		tc := tc
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var r LaunchRecord
			payload := `{"_id":"x","boosterNumber":4,"boosterFlightCount":` + tc.input + `,"shipFlightCount":` + tc.input + `}`
			require.NoError(t, json.Unmarshal([]byte(payload), &r))
			assert.Equal(t, "x", r.ID)
			assert.Equal(t, num("4"), r.BoosterNumber)
			assert.Equal(t, tc.want, r.BoosterFlightCount)
			assert.Equal(t, tc.want, r.ShipFlightCount)
		})
	}
}

func TestLaunchRecord_UnmarshalJSON_absentCounts(t *testing.T) {
	t.Parallel()

	var r LaunchRecord
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"x","launchSite":"Pad A"}`), &r))
	assert.Nil(t, r.BoosterFlightCount)
	assert.Nil(t, r.ShipFlightCount)
	assert.Equal(t, ptr("Pad A"), r.LaunchSite)
}

func TestHardwareNumber_MarshalJSON(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(HardwareNumber("12"))
	require.NoError(t, err)
	assert.Equal(t, `12`, string(b))

	b, err = json.Marshal(HardwareNumber("B12"))
	require.NoError(t, err)
	assert.Equal(t, `"B12"`, string(b))
}
