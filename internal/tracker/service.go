package tracker

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"rocket-tracker/internal/fleet"

	"github.com/google/uuid"
)

// Service applies validation and fleet aggregation and delegates storage to
// Repository.
type Service struct {
	repo     Repository
	markdown *Markdown
	now      func() time.Time
	newID    func() string
}

// NewService returns a Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		markdown: NewMarkdown(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}

// ReportLaunch validates and stores a launch report.
func (s *Service) ReportLaunch(ctx context.Context, report LaunchReport) (fleet.LaunchRecord, error) {
	if err := report.Validate(); err != nil {
		return fleet.LaunchRecord{}, err
	}
	launch := report.record(s.newID(), s.timestamp())
	if err := s.repo.SaveLaunch(ctx, launch); err != nil {
		return fleet.LaunchRecord{}, fmt.Errorf("save launch: %w", err)
	}
	return launch, nil
}

// ListLaunches returns all launches in the order they were reported.
func (s *Service) ListLaunches(ctx context.Context) ([]fleet.LaunchRecord, error) {
	launches, err := s.repo.ListLaunches(ctx)
	if err != nil {
		return nil, fmt.Errorf("list launches: %w", err)
	}
	return launches, nil
}

// GetLaunch returns one launch or ErrNotFound.
func (s *Service) GetLaunch(ctx context.Context, id string) (fleet.LaunchRecord, error) {
	return s.repo.GetLaunch(ctx, strings.TrimSpace(id))
}

// LaunchesByBooster returns the launches of one booster. A number that is
// not an integer matches nothing.
func (s *Service) LaunchesByBooster(ctx context.Context, number string) ([]fleet.LaunchRecord, error) {
	n, ok := parseHardwareNumber(number)
	if !ok {
		return []fleet.LaunchRecord{}, nil
	}
	launches, err := s.repo.LaunchesByBooster(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("launches for booster %s: %w", n, err)
	}
	return launches, nil
}

// LaunchesByShip returns the launches of one ship. A number that is not an
// integer matches nothing.
func (s *Service) LaunchesByShip(ctx context.Context, number string) ([]fleet.LaunchRecord, error) {
	n, ok := parseHardwareNumber(number)
	if !ok {
		return []fleet.LaunchRecord{}, nil
	}
	launches, err := s.repo.LaunchesByShip(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("launches for ship %s: %w", n, err)
	}
	return launches, nil
}

// Fleet aggregates every stored launch into booster and ship summaries.
func (s *Service) Fleet(ctx context.Context) (fleet.Fleet, error) {
	launches, err := s.ListLaunches(ctx)
	if err != nil {
		return fleet.Fleet{}, err
	}
	return fleet.Aggregate(launches), nil
}

// BoosterDetail returns the statistics of one booster, or ErrNotFound.
func (s *Service) BoosterDetail(ctx context.Context, number string) (fleet.VehicleDetail, error) {
	launches, err := s.LaunchesByBooster(ctx, number)
	if err != nil {
		return fleet.VehicleDetail{}, err
	}
	return vehicleDetail(fleet.KindBooster, number, launches)
}

// ShipDetail returns the statistics of one ship, or ErrNotFound.
func (s *Service) ShipDetail(ctx context.Context, number string) (fleet.VehicleDetail, error) {
	launches, err := s.LaunchesByShip(ctx, number)
	if err != nil {
		return fleet.VehicleDetail{}, err
	}
	return vehicleDetail(fleet.KindShip, number, launches)
}

func vehicleDetail(kind fleet.Kind, number string, launches []fleet.LaunchRecord) (fleet.VehicleDetail, error) {
	n, _ := parseHardwareNumber(number)
	d, ok := fleet.Detail(kind, n, launches)
	if !ok {
		return fleet.VehicleDetail{}, ErrNotFound
	}
	return d, nil
}

// PostNews validates and stores a news post.
func (s *Service) PostNews(ctx context.Context, post NewsPost) (NewsPost, error) {
	if err := post.Validate(); err != nil {
		return NewsPost{}, err
	}
	post.ID = s.newID()
	post.Timestamp = s.timestamp()
	post.ContentHTML = ""
	if err := s.repo.SaveNews(ctx, post); err != nil {
		return NewsPost{}, fmt.Errorf("save news post: %w", err)
	}
	return post, nil
}

// ListNews returns all posts newest first with rendered content.
func (s *Service) ListNews(ctx context.Context) ([]NewsPost, error) {
	posts, err := s.repo.ListNews(ctx)
	if err != nil {
		return nil, fmt.Errorf("list news posts: %w", err)
	}
	for i := range posts {
		if err := s.renderNews(&posts[i]); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// GetNews returns one post with rendered content, or ErrNotFound.
func (s *Service) GetNews(ctx context.Context, id string) (NewsPost, error) {
	post, err := s.repo.GetNews(ctx, strings.TrimSpace(id))
	if err != nil {
		return NewsPost{}, err
	}
	if err := s.renderNews(&post); err != nil {
		return NewsPost{}, err
	}
	return post, nil
}

func (s *Service) renderNews(post *NewsPost) error {
	html, err := s.markdown.Render(post.Content)
	if err != nil {
		return fmt.Errorf("news post %s: %w", post.ID, err)
	}
	post.ContentHTML = html
	return nil
}

// ReportMission validates and stores a mission report.
func (s *Service) ReportMission(ctx context.Context, mission MissionReport) (MissionReport, error) {
	if err := mission.Validate(); err != nil {
		return MissionReport{}, err
	}
	mission.ID = s.newID()
	mission.Timestamp = s.timestamp()
	if err := s.repo.SaveMission(ctx, mission); err != nil {
		return MissionReport{}, fmt.Errorf("save mission: %w", err)
	}
	return mission, nil
}

// MissionsForLaunch returns the mission reports filed for a launch.
func (s *Service) MissionsForLaunch(ctx context.Context, launchID string) ([]MissionReport, error) {
	missions, err := s.repo.MissionsByLaunch(ctx, strings.TrimSpace(launchID))
	if err != nil {
		return nil, fmt.Errorf("missions for launch %s: %w", launchID, err)
	}
	return missions, nil
}

// parseHardwareNumber normalizes a path number such as "007" to "7".
// Zero is never a valid vehicle number.
func parseHardwareNumber(s string) (fleet.HardwareNumber, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n == 0 {
		return "", false
	}
	return fleet.HardwareNumber(strconv.Itoa(n)), true
}
