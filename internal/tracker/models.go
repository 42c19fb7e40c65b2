package tracker

import (
	"strconv"

	"rocket-tracker/internal/fleet"
)

// LaunchReport is the JSON payload for submitting a launch.
// The four numeric fields are required; pointers tell "0" apart from "missing".
type LaunchReport struct {
	BoosterNumber      *int    `json:"boosterNumber"`
	ShipNumber         *int    `json:"shipNumber"`
	BoosterFlightCount *int    `json:"boosterFlightCount"`
	ShipFlightCount    *int    `json:"shipFlightCount"`
	LaunchSite         string  `json:"launchSite"`
	LaunchDate         string  `json:"launchDate"`
	LaunchTime         string  `json:"launchTime"`
	Livestream         *string `json:"livestream,omitempty"`
	MissionName        *string `json:"missionName,omitempty"`
	LaunchStatus       *string `json:"launchStatus,omitempty"`
}

// record converts a validated report into the stored launch record.
func (r LaunchReport) record(id, timestamp string) fleet.LaunchRecord {
	boosterCount := *r.BoosterFlightCount
	shipCount := *r.ShipFlightCount
	site := r.LaunchSite

	return fleet.LaunchRecord{
		ID:                 id,
		BoosterNumber:      hardwareNumber(*r.BoosterNumber),
		BoosterFlightCount: &boosterCount,
		ShipNumber:         hardwareNumber(*r.ShipNumber),
		ShipFlightCount:    &shipCount,
		LaunchSite:         &site,
		LaunchDate:         r.LaunchDate,
		LaunchTime:         r.LaunchTime,
		MissionName:        nonEmpty(r.MissionName),
		LaunchStatus:       nonEmpty(r.LaunchStatus),
		Livestream:         nonEmpty(r.Livestream),
		Timestamp:          timestamp,
	}
}

// NewsPost is a community news entry. Content is markdown; ContentHTML is
// filled in on read and never stored.
type NewsPost struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Author      string `json:"author"`
	Timestamp   string `json:"timestamp"`
	ContentHTML string `json:"contentHtml,omitempty"`
}

// MissionCategory classifies what a launch carried.
type MissionCategory string

const (
	CategoryStarlink   MissionCategory = "starlink"
	CategoryPropellant MissionCategory = "propellant"
	CategoryCargo      MissionCategory = "cargo"
	CategoryCrew       MissionCategory = "crew"
	CategoryTest       MissionCategory = "test"
	CategoryOther      MissionCategory = "other"
)

// Valid reports whether c is one of the known categories.
func (c MissionCategory) Valid() bool {
	switch c {
	case CategoryStarlink, CategoryPropellant, CategoryCargo, CategoryCrew, CategoryTest, CategoryOther:
		return true
	}
	return false
}

// needsPayloadDetails reports whether payload description and destination
// are mandatory for the category.
func (c MissionCategory) needsPayloadDetails() bool {
	return c != CategoryStarlink && c != CategoryPropellant
}

// MissionReport describes the payload of one launch, e.g. a refueling flight.
type MissionReport struct {
	ID                 string          `json:"_id"`
	LaunchID           string          `json:"launch_id"`
	MissionCategory    MissionCategory `json:"mission_category"`
	StarlinkCount      *int            `json:"starlink_count"`
	PayloadDescription *string         `json:"payload_description"`
	Destination        *string         `json:"destination"`
	AdditionalNotes    *string         `json:"additional_notes"`
	Timestamp          string          `json:"timestamp"`
}

// SubmitResponse is returned by every POST endpoint.
type SubmitResponse struct {
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// hardwareNumber maps 0 to nil: vehicle number 0 means "not assigned".
func hardwareNumber(n int) *fleet.HardwareNumber {
	if n == 0 {
		return nil
	}
	h := fleet.HardwareNumber(strconv.Itoa(n))
	return &h
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
