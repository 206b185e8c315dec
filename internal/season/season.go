// Package season implements the seasonal progression of spec §4.10:
// active-season resolution, milestone claiming, and tier derivation.
package season

import (
	"context"
	"time"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
)

// Store is the persistence collaborator a Manager reads/writes
// through; a gorm-backed implementation lives in internal/repository.
type Store interface {
	ActiveSeasons(ctx context.Context, now time.Time) ([]models.Season, error)
	GetProgress(ctx context.Context, userID, seasonID string) (models.UserSeasonProgress, error)
	SaveProgress(ctx context.Context, p models.UserSeasonProgress) error
}

// MilestoneAuditor records successful milestone claims; *audit.SessionLogger
// satisfies it. Optional.
type MilestoneAuditor interface {
	MilestoneClaimed(ctx context.Context, userID, milestoneID string)
}

type Manager struct {
	Store   Store
	Clock   clock.Clock
	Auditor MilestoneAuditor
}

func New(store Store, c clock.Clock) *Manager {
	if c == nil {
		c = clock.SystemClock{}
	}
	return &Manager{Store: store, Clock: c}
}

// ActiveSeason returns the single season whose window contains now. At
// most one active row may satisfy start<=now<=end; more than one is an
// InvariantViolation, not a tie to break silently.
func (m *Manager) ActiveSeason(ctx context.Context) (models.Season, error) {
	now := m.Clock.Now()
	candidates, err := m.Store.ActiveSeasons(ctx, now)
	if err != nil {
		return models.Season{}, err
	}
	if len(candidates) == 0 {
		return models.Season{}, apierr.New(apierr.KindMissingField, "no active season")
	}
	if len(candidates) > 1 {
		return models.Season{}, apierr.New(apierr.KindInvariantViolation, "multiple active seasons")
	}
	return candidates[0], nil
}

// ClaimResult is returned on a successful ClaimMilestone.
type ClaimResult struct {
	Reward string `json:"reward"`
}

// ClaimMilestone applies the state machine of spec §4.10: already
// claimed, unrecognized id, or not-yet-achieved each fail with a
// distinct error kind; success appends the id (preserving order) and
// stamps UpdatedAt.
func (m *Manager) ClaimMilestone(ctx context.Context, userID string, season models.Season, milestoneID string) (ClaimResult, error) {
	progress, err := m.Store.GetProgress(ctx, userID, season.ID)
	if err != nil {
		return ClaimResult{}, err
	}
	if progress.HasClaimed(milestoneID) {
		return ClaimResult{}, apierr.New(apierr.KindAlreadyClaimed, "milestone already claimed: "+milestoneID)
	}

	var milestone *models.Milestone
	for i := range season.Config.Milestones {
		if season.Config.Milestones[i].ID == milestoneID {
			milestone = &season.Config.Milestones[i]
			break
		}
	}
	if milestone == nil {
		return ClaimResult{}, apierr.New(apierr.KindUnknownMilestone, "unknown milestone: "+milestoneID)
	}
	if progress.TotalScore < milestone.Requirement {
		return ClaimResult{}, apierr.New(apierr.KindNotAchieved, "milestone requirement not met")
	}

	progress.MilestonesCompleted = append(progress.MilestonesCompleted, milestoneID)
	progress.UpdatedAt = m.Clock.Now()
	if err := m.Store.SaveProgress(ctx, progress); err != nil {
		return ClaimResult{}, err
	}
	if m.Auditor != nil {
		m.Auditor.MilestoneClaimed(ctx, userID, milestoneID)
	}
	return ClaimResult{Reward: milestone.Reward}, nil
}

// TierFor derives a SeasonTier from totalScore by comparing it against
// thresholds, descending: the highest tier whose threshold is met wins.
func TierFor(totalScore int, thresholds map[models.SeasonTier]int) models.SeasonTier {
	order := []models.SeasonTier{
		models.SeasonDiamond,
		models.SeasonPlatinum,
		models.SeasonGold,
		models.SeasonSilver,
		models.SeasonBronze,
		models.SeasonNovice,
	}
	for _, tier := range order {
		if req, ok := thresholds[tier]; ok && totalScore >= req {
			return tier
		}
	}
	return models.SeasonNovice
}
