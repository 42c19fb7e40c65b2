// Package render writes fleet data as styled terminal text.
//
// Styles are bound to the destination writer, so output to a pipe or a
// buffer carries no escape sequences while a terminal gets colors.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"rocket-tracker/internal/fleet"

	"github.com/charmbracelet/lipgloss"
)

const (
	notAvailable = "N/A"
	unknown      = "Unknown"
	toBeDecided  = "TBD"
)

// Color holds the palette used for all fleet output.
var Color = struct {
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Red       lipgloss.AdaptiveColor
}{
	Primary:   lipgloss.AdaptiveColor{Light: "#000000", Dark: "#FFFFFF"},
	Secondary: lipgloss.AdaptiveColor{Light: "#969B86", Dark: "#696969"},
	Highlight: lipgloss.AdaptiveColor{Light: "#8b2def", Dark: "#8b2def"},
	Red:       lipgloss.AdaptiveColor{Light: "#FF0000", Dark: "#FF0000"},
}

type styles struct {
	heading lipgloss.Style
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	muted   lipgloss.Style
	item    lipgloss.Style
}

func newStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		heading: r.NewStyle().Bold(true).Underline(true).Foreground(Color.Highlight),
		title:   r.NewStyle().Bold(true).Foreground(Color.Primary),
		label:   r.NewStyle().Foreground(Color.Secondary),
		value:   r.NewStyle().Foreground(Color.Primary),
		muted:   r.NewStyle().Italic(true).Foreground(Color.Secondary),
		item:    r.NewStyle().PaddingLeft(2),
	}
}

func (s styles) stat(label, value string) string {
	return s.label.Render(label+":") + " " + s.value.Render(value)
}

// Fleet writes both fleet sections to w.
func Fleet(w io.Writer, f fleet.Fleet) error {
	s := newStyles(w)

	var b strings.Builder
	writeSection(&b, s, fleet.KindBooster, f.Boosters)
	b.WriteString("\n")
	writeSection(&b, s, fleet.KindShip, f.Ships)

	_, err := io.WriteString(w, b.String())
	return err
}

func writeSection(b *strings.Builder, s styles, kind fleet.Kind, entities []fleet.FleetEntity) {
	noun := kindTitle(kind)
	b.WriteString(s.heading.Render(noun + "s"))
	b.WriteString("\n")

	if len(entities) == 0 {
		b.WriteString(s.muted.Render(fmt.Sprintf("No %ss found in the database.", string(kind))))
		b.WriteString("\n")
		return
	}

	for _, e := range entities {
		sites := notAvailable
		if len(e.LaunchSites) > 0 {
			sites = strings.Join(e.LaunchSites, ", ")
		}
		b.WriteString(s.title.Render(fmt.Sprintf("%s %s", noun, e.ID)))
		b.WriteString("\n")
		b.WriteString(s.item.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.stat("Total Flights", strconv.Itoa(e.FlightCount)),
			s.stat("Launch Sites", sites),
			s.stat("Missions", strconv.Itoa(len(e.Missions))),
		)))
		b.WriteString("\n")
	}
}

// Detail writes the statistics and mission list of one vehicle to w.
func Detail(w io.Writer, d fleet.VehicleDetail) error {
	s := newStyles(w)
	noun := kindTitle(d.Kind)

	var b strings.Builder
	b.WriteString(s.heading.Render(fmt.Sprintf("%s %s", noun, d.ID)))
	b.WriteString("\n")
	b.WriteString(s.muted.Render("Flight-Proven " + noun))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinVertical(lipgloss.Left,
		s.stat("Total Flights", strconv.Itoa(d.TotalFlights)),
		s.stat("Total Missions", strconv.Itoa(d.TotalMissions)),
		s.stat("Launch Sites", strconv.Itoa(len(d.LaunchSites))),
		s.stat("First Launch", launchDate(d.FirstLaunch)),
		s.stat("Latest Launch", launchDate(d.LatestLaunch)),
	))
	b.WriteString("\n\n")

	for i := range d.Launches {
		l := &d.Launches[i]
		b.WriteString(s.title.Render("Mission " + orDefault(l.MissionName, unknown)))
		b.WriteString("\n")
		b.WriteString(s.item.Render(lipgloss.JoinVertical(lipgloss.Left,
			s.stat("Date", displayDate(l.LaunchDate)),
			s.stat("Time", orDefaultString(l.LaunchTime, toBeDecided)),
			s.stat("Site", orDefault(l.LaunchSite, unknown)),
			s.stat("Flight", flightNumber(d.Kind, l)),
			s.stat("Status", orDefault(l.LaunchStatus, unknown)),
		)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// Error writes message in the error style.
func Error(w io.Writer, message string) error {
	r := lipgloss.NewRenderer(w)
	_, err := io.WriteString(w, r.NewStyle().Bold(true).Foreground(Color.Red).Render(message)+"\n")
	return err
}

func kindTitle(kind fleet.Kind) string {
	if kind == fleet.KindShip {
		return "Ship"
	}
	return "Booster"
}

func launchDate(l *fleet.LaunchRecord) string {
	if l == nil {
		return notAvailable
	}
	return displayDate(l.LaunchDate)
}

func displayDate(s string) string {
	if t, ok := fleet.ParseLaunchDate(s); ok {
		return t.Format("2006-01-02")
	}
	return orDefaultString(s, notAvailable)
}

// flightNumber shows 1 when no flight count was reported.
func flightNumber(kind fleet.Kind, l *fleet.LaunchRecord) string {
	c := l.BoosterFlightCount
	if kind == fleet.KindShip {
		c = l.ShipFlightCount
	}
	if c == nil || *c == 0 {
		return "1"
	}
	return strconv.Itoa(*c)
}

func orDefault(s *string, fallback string) string {
	if s == nil {
		return fallback
	}
	return orDefaultString(*s, fallback)
}

func orDefaultString(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
