package tracker

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrInvalidInput is wrapped by every validation failure.
var ErrInvalidInput = errors.New("invalid input")

const (
	maxTitleLen   = 100
	maxContentLen = 1000
	maxAuthorLen  = 50
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Validate checks a launch report and trims its text fields.
func (r *LaunchReport) Validate() error {
	counts := []struct {
		name  string
		value *int
	}{
		{"boosterNumber", r.BoosterNumber},
		{"shipNumber", r.ShipNumber},
		{"boosterFlightCount", r.BoosterFlightCount},
		{"shipFlightCount", r.ShipFlightCount},
	}
	for _, c := range counts {
		if c.value == nil {
			return invalid("%s is required", c.name)
		}
		if *c.value < 0 {
			return invalid("%s must be a positive integer", c.name)
		}
	}

	r.LaunchSite = strings.TrimSpace(r.LaunchSite)
	r.LaunchDate = strings.TrimSpace(r.LaunchDate)
	r.LaunchTime = strings.TrimSpace(r.LaunchTime)
	switch {
	case r.LaunchSite == "":
		return invalid("launchSite is required")
	case r.LaunchDate == "":
		return invalid("launchDate is required")
	case r.LaunchTime == "":
		return invalid("launchTime is required")
	}
	return nil
}

// Validate checks a news post and trims its fields.
func (p *NewsPost) Validate() error {
	var err error
	if p.Title, err = requiredText("title", p.Title, maxTitleLen); err != nil {
		return err
	}
	if p.Content, err = requiredText("content", p.Content, maxContentLen); err != nil {
		return err
	}
	if p.Author, err = requiredText("author", p.Author, maxAuthorLen); err != nil {
		return err
	}
	return nil
}

func requiredText(field, value string, maxLen int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid("%s is required", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return "", invalid("%s must be %d characters or less", field, maxLen)
	}
	return value, nil
}

// Validate checks the category-specific rules of a mission report.
func (m *MissionReport) Validate() error {
	m.LaunchID = strings.TrimSpace(m.LaunchID)
	if m.LaunchID == "" {
		return invalid("launch_id is required")
	}
	if !m.MissionCategory.Valid() {
		return invalid("mission_category must be one of: starlink, propellant, cargo, crew, test, other")
	}

	if m.MissionCategory == CategoryStarlink && (m.StarlinkCount == nil || *m.StarlinkCount < 1) {
		return invalid("starlink_count is required for starlink missions and must be positive")
	}

	if m.MissionCategory.needsPayloadDetails() {
		if blank(m.PayloadDescription) {
			return invalid("payload_description is required for %s missions", m.MissionCategory)
		}
		if blank(m.Destination) {
			return invalid("destination is required for %s missions", m.MissionCategory)
		}
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

// DetailMessage strips the sentinel prefix so clients see only the reason.
func DetailMessage(err error) string {
	return strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": ")
}
