package fleet

import (
	"slices"
	"time"
)

// Kind names the two vehicle collections.
type Kind string

const (
	KindBooster Kind = "booster"
	KindShip    Kind = "ship"
)

// VehicleDetail holds the statistics shown for a single booster or ship.
type VehicleDetail struct {
	Kind          Kind           `json:"kind"`
	ID            HardwareNumber `json:"id"`
	TotalFlights  int            `json:"totalFlights"`
	TotalMissions int            `json:"totalMissions"`
	LaunchSites   []string       `json:"launchSites"`
	FirstLaunch   *LaunchRecord  `json:"firstLaunch,omitempty"`
	LatestLaunch  *LaunchRecord  `json:"latestLaunch,omitempty"`
	Launches      []LaunchRecord `json:"launches"`
}

// launchDateLayouts are tried in order when parsing LaunchDate.
var launchDateLayouts = []string{
	time.DateOnly,
	time.RFC3339,
	"2006-01-02T15:04",
	"01/02/2006",
}

// ParseLaunchDate parses the date formats the report form produces.
func ParseLaunchDate(s string) (time.Time, bool) {
	for _, layout := range launchDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Detail computes the statistics for one vehicle from its launches.
// launches is not modified. ok is false when there are no launches.
func Detail(kind Kind, id HardwareNumber, launches []LaunchRecord) (VehicleDetail, bool) {
	if len(launches) == 0 {
		return VehicleDetail{}, false
	}

	sorted := make([]LaunchRecord, len(launches))
	copy(sorted, launches)
	slices.SortStableFunc(sorted, newestFirst)

	d := VehicleDetail{
		Kind:          kind,
		ID:            id,
		TotalMissions: len(sorted),
		LaunchSites:   []string{},
		Launches:      sorted,
	}

	seen := make(map[string]struct{})
	for i := range sorted {
		d.TotalFlights = max(d.TotalFlights, countOrZero(flightCountFor(kind, &sorted[i])))
		if site, ok := sorted[i].Site(); ok {
			if _, dup := seen[site]; !dup {
				seen[site] = struct{}{}
				d.LaunchSites = append(d.LaunchSites, site)
			}
		}
	}

	d.LatestLaunch = &sorted[0]
	d.FirstLaunch = &sorted[len(sorted)-1]
	return d, true
}

func flightCountFor(kind Kind, r *LaunchRecord) *int {
	if kind == KindShip {
		return r.ShipFlightCount
	}
	return r.BoosterFlightCount
}

// newestFirst orders by descending launch date. Records whose date does not
// parse go after every dated record.
func newestFirst(a, b LaunchRecord) int {
	ta, okA := ParseLaunchDate(a.LaunchDate)
	tb, okB := ParseLaunchDate(b.LaunchDate)
	switch {
	case okA && okB:
		return tb.Compare(ta)
	case okA:
		return -1
	case okB:
		return 1
	default:
		return 0
	}
}
