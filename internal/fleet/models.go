package fleet

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// HardwareNumber identifies a booster or ship. The API stores numbers as
// integers, older records and hand-written payloads carry strings, so both
// JSON encodings are accepted. A numeric zero, an empty string and null all
// decode to the empty HardwareNumber, which means "absent".
type HardwareNumber string

// UnmarshalJSON implements json.Unmarshaler.
func (n *HardwareNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("hardware number: %w", err)
		}
		*n = HardwareNumber(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("hardware number: %w", err)
	}
	f, err := num.Float64()
	if err != nil {
		*n = HardwareNumber(num.String())
		return nil
	}
	*n = canonicalNumber(f)
	return nil
}

// canonicalNumber spells a numeric id the same way however the JSON wrote
// it, so 7, 7.0 and 0.7e1 all name booster "7".
func canonicalNumber(f float64) HardwareNumber {
	switch {
	case f == 0:
		return ""
	case f == math.Trunc(f) && math.Abs(f) < 1<<63:
		return HardwareNumber(strconv.FormatInt(int64(f), 10))
	default:
		return HardwareNumber(strconv.FormatFloat(f, 'f', -1, 64))
	}
}

// MarshalJSON emits integer-looking numbers as JSON numbers so that records
// round-trip in the shape the API stores them.
func (n HardwareNumber) MarshalJSON() ([]byte, error) {
	if n == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return []byte(n), nil
	}
	return json.Marshal(string(n))
}

// LaunchRecord is one reported launch as served by the tracker API.
// Optional fields are pointers; nil means the field was not reported.
type LaunchRecord struct {
	ID                 string          `json:"_id"`
	BoosterNumber      *HardwareNumber `json:"boosterNumber,omitempty"`
	BoosterFlightCount *int            `json:"boosterFlightCount,omitempty"`
	ShipNumber         *HardwareNumber `json:"shipNumber,omitempty"`
	ShipFlightCount    *int            `json:"shipFlightCount,omitempty"`
	LaunchSite         *string         `json:"launchSite,omitempty"`
	LaunchDate         string          `json:"launchDate,omitempty"`
	LaunchTime         string          `json:"launchTime,omitempty"`
	MissionName        *string         `json:"missionName,omitempty"`
	LaunchStatus       *string         `json:"launchStatus,omitempty"`
	Livestream         *string         `json:"livestream,omitempty"`
	Timestamp          string          `json:"timestamp,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler. Flight counts are read leniently:
// whole-valued floats and numeric strings are accepted, anything else that
// is not a number counts as not reported.
func (r *LaunchRecord) UnmarshalJSON(data []byte) error {
	type plain LaunchRecord
	aux := struct {
		*plain
		BoosterFlightCount json.RawMessage `json:"boosterFlightCount"`
		ShipFlightCount    json.RawMessage `json:"shipFlightCount"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.BoosterFlightCount = parseCount(aux.BoosterFlightCount)
	r.ShipFlightCount = parseCount(aux.ShipFlightCount)
	return nil
}

func parseCount(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}
	var text string
	switch raw[0] {
	case '"':
		if json.Unmarshal(raw, &text) != nil {
			return nil
		}
		text = strings.TrimSpace(text)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		text = string(raw)
	default:
		return nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > math.MaxInt32 {
		return nil
	}
	c := int(f)
	return &c
}

// Booster returns the booster number and whether one was reported.
func (r *LaunchRecord) Booster() (HardwareNumber, bool) {
	return present(r.BoosterNumber)
}

// Ship returns the ship number and whether one was reported.
func (r *LaunchRecord) Ship() (HardwareNumber, bool) {
	return present(r.ShipNumber)
}

// Site returns the launch site and whether one was reported.
func (r *LaunchRecord) Site() (string, bool) {
	if r.LaunchSite == nil || *r.LaunchSite == "" {
		return "", false
	}
	return *r.LaunchSite, true
}

func present(n *HardwareNumber) (HardwareNumber, bool) {
	if n == nil || *n == "" {
		return "", false
	}
	return *n, true
}

// countOrZero treats a missing count the same as a reported zero.
func countOrZero(c *int) int {
	if c == nil {
		return 0
	}
	return *c
}

// MissionSummary is the per-launch entry kept on a FleetEntity.
type MissionSummary struct {
	ID   string `json:"id"`
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
	Site string `json:"site,omitempty"`
}

// FleetEntity is the aggregated view of one booster or ship.
type FleetEntity struct {
	ID          HardwareNumber   `json:"id"`
	FlightCount int              `json:"flightCount"`
	Missions    []MissionSummary `json:"missions"`
	LaunchSites []string         `json:"launchSites"`

	sites map[string]struct{}
}

// Fleet is the output of Aggregate.
type Fleet struct {
	Boosters []FleetEntity `json:"boosters"`
	Ships    []FleetEntity `json:"ships"`
}
