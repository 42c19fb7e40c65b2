// Package fleet groups launch records into per-vehicle summaries.
// Everything in this package is a pure function of its input.
package fleet

import (
	"cmp"
	"slices"
)

// Aggregate groups launches by booster and ship number.
//
// Each output sequence is sorted by descending FlightCount; entities with the
// same count keep the order in which their id was first seen. FlightCount is
// the highest flight count any record reported for the id, not the number of
// records. Records without a booster (or ship) number are skipped for that
// half of the update, and missing sites are never added to LaunchSites.
func Aggregate(launches []LaunchRecord) Fleet {
	boosters := newGroup()
	ships := newGroup()

	for i := range launches {
		launch := &launches[i]
		if id, ok := launch.Booster(); ok {
			boosters.add(id, launch, launch.BoosterFlightCount)
		}
		if id, ok := launch.Ship(); ok {
			ships.add(id, launch, launch.ShipFlightCount)
		}
	}

	return Fleet{
		Boosters: boosters.sorted(),
		Ships:    ships.sorted(),
	}
}

// group is an insertion-ordered map of entities.
type group struct {
	index    map[HardwareNumber]int
	entities []FleetEntity
}

func newGroup() *group {
	return &group{index: make(map[HardwareNumber]int)}
}

func (g *group) add(id HardwareNumber, launch *LaunchRecord, flightCount *int) {
	i, ok := g.index[id]
	if !ok {
		i = len(g.entities)
		g.index[id] = i
		g.entities = append(g.entities, FleetEntity{
			ID:          id,
			Missions:    []MissionSummary{},
			LaunchSites: []string{},
			sites:       make(map[string]struct{}),
		})
	}
	e := &g.entities[i]

	e.FlightCount = max(e.FlightCount, countOrZero(flightCount))

	site, hasSite := launch.Site()
	e.Missions = append(e.Missions, MissionSummary{
		ID:   launch.ID,
		Date: launch.LaunchDate,
		Time: launch.LaunchTime,
		Site: site,
	})
	if hasSite {
		if _, seen := e.sites[site]; !seen {
			e.sites[site] = struct{}{}
			e.LaunchSites = append(e.LaunchSites, site)
		}
	}
}

func (g *group) sorted() []FleetEntity {
	out := make([]FleetEntity, len(g.entities))
	copy(out, g.entities)
	slices.SortStableFunc(out, func(a, b FleetEntity) int {
		return cmp.Compare(b.FlightCount, a.FlightCount)
	})
	for i := range out {
		out[i].sites = nil
	}
	return out
}
