package tracker

import (
	"context"
	"errors"
	"slices"
	"sync"

	"rocket-tracker/internal/fleet"
)

// Repository defines the concurrency-safe contract for storing and reading
// launch, news and mission reports.
type Repository interface {
	// SaveLaunch stores a new launch record. Records are listed in the order
	// they were saved.
	SaveLaunch(ctx context.Context, launch fleet.LaunchRecord) error

	// ListLaunches returns every launch in insertion order.
	ListLaunches(ctx context.Context) ([]fleet.LaunchRecord, error)

	// GetLaunch returns one launch, or ErrNotFound.
	GetLaunch(ctx context.Context, id string) (fleet.LaunchRecord, error)

	// LaunchesByBooster and LaunchesByShip return the launches flown by the
	// given vehicle in insertion order. An unknown number yields an empty
	// slice.
	LaunchesByBooster(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error)
	LaunchesByShip(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error)

	// SaveNews stores a news post.
	SaveNews(ctx context.Context, post NewsPost) error

	// ListNews returns all posts, newest timestamp first.
	ListNews(ctx context.Context) ([]NewsPost, error)

	// GetNews returns one post, or ErrNotFound.
	GetNews(ctx context.Context, id string) (NewsPost, error)

	// SaveMission stores a mission report.
	SaveMission(ctx context.Context, mission MissionReport) error

	// MissionsByLaunch returns the mission reports filed for a launch.
	MissionsByLaunch(ctx context.Context, launchID string) ([]MissionReport, error)
}

var (
	// ErrNotFound is returned when a record with the requested id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateID is returned when saving a record whose id is already taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// InMemoryRepository is a concurrency-safe in-memory implementation of Repository.
type InMemoryRepository struct {
	mu       sync.RWMutex
	launches []fleet.LaunchRecord
	news     []NewsPost
	missions []MissionReport
	ids      map[string]struct{}
}

// NewInMemoryRepository constructs an empty repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{ids: make(map[string]struct{})}
}

// SaveLaunch implements Repository.SaveLaunch.
func (r *InMemoryRepository) SaveLaunch(ctx context.Context, launch fleet.LaunchRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claimIDLocked(launch.ID); err != nil {
		return err
	}
	r.launches = append(r.launches, launch)
	return nil
}

// ListLaunches implements Repository.ListLaunches.
func (r *InMemoryRepository) ListLaunches(ctx context.Context) ([]fleet.LaunchRecord, error) {
	return r.filterLaunches(ctx, func(*fleet.LaunchRecord) bool { return true })
}

// GetLaunch implements Repository.GetLaunch.
func (r *InMemoryRepository) GetLaunch(ctx context.Context, id string) (fleet.LaunchRecord, error) {
	if err := ctx.Err(); err != nil {
		return fleet.LaunchRecord{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.launches {
		if l.ID == id {
			return l, nil
		}
	}
	return fleet.LaunchRecord{}, ErrNotFound
}

// LaunchesByBooster implements Repository.LaunchesByBooster.
func (r *InMemoryRepository) LaunchesByBooster(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error) {
	return r.filterLaunches(ctx, func(l *fleet.LaunchRecord) bool {
		id, ok := l.Booster()
		return ok && id == number
	})
}

// LaunchesByShip implements Repository.LaunchesByShip.
func (r *InMemoryRepository) LaunchesByShip(ctx context.Context, number fleet.HardwareNumber) ([]fleet.LaunchRecord, error) {
	return r.filterLaunches(ctx, func(l *fleet.LaunchRecord) bool {
		id, ok := l.Ship()
		return ok && id == number
	})
}

// SaveNews implements Repository.SaveNews.
func (r *InMemoryRepository) SaveNews(ctx context.Context, post NewsPost) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claimIDLocked(post.ID); err != nil {
		return err
	}
	r.news = append(r.news, post)
	return nil
}

// ListNews implements Repository.ListNews.
func (r *InMemoryRepository) ListNews(ctx context.Context) ([]NewsPost, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Newest first; among equal timestamps the later insert wins.
	out := make([]NewsPost, 0, len(r.news))
	for i := len(r.news) - 1; i >= 0; i-- {
		out = append(out, r.news[i])
	}
	slices.SortStableFunc(out, func(a, b NewsPost) int {
		switch {
		case a.Timestamp > b.Timestamp:
			return -1
		case a.Timestamp < b.Timestamp:
			return 1
		}
		return 0
	})
	return out, nil
}

// GetNews implements Repository.GetNews.
func (r *InMemoryRepository) GetNews(ctx context.Context, id string) (NewsPost, error) {
	if err := ctx.Err(); err != nil {
		return NewsPost{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.news {
		if p.ID == id {
			return p, nil
		}
	}
	return NewsPost{}, ErrNotFound
}

// SaveMission implements Repository.SaveMission.
func (r *InMemoryRepository) SaveMission(ctx context.Context, mission MissionReport) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.claimIDLocked(mission.ID); err != nil {
		return err
	}
	r.missions = append(r.missions, mission)
	return nil
}

// MissionsByLaunch implements Repository.MissionsByLaunch.
func (r *InMemoryRepository) MissionsByLaunch(ctx context.Context, launchID string) ([]MissionReport, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []MissionReport{}
	for _, m := range r.missions {
		if m.LaunchID == launchID {
			out = append(out, m)
		}
	}
	return out, nil
}

// filterLaunches returns a copy of the launches matching keep.
func (r *InMemoryRepository) filterLaunches(ctx context.Context, keep func(*fleet.LaunchRecord) bool) ([]fleet.LaunchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []fleet.LaunchRecord{}
	for i := range r.launches {
		if keep(&r.launches[i]) {
			out = append(out, r.launches[i])
		}
	}
	return out, nil
}

// claimIDLocked reserves id across all collections.
// Caller must hold r.mu in write mode.
func (r *InMemoryRepository) claimIDLocked(id string) error {
	if _, taken := r.ids[id]; taken {
		return ErrDuplicateID
	}
	r.ids[id] = struct{}{}
	return nil
}
