package season

import (
	"context"
	"testing"
	"time"

	"github.com/herald-lol/brainprint/backend/internal/apierr"
	"github.com/herald-lol/brainprint/backend/internal/clock"
	"github.com/herald-lol/brainprint/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	seasons  []models.Season
	progress map[string]models.UserSeasonProgress
}

func newMemStore() *memStore {
	return &memStore{progress: make(map[string]models.UserSeasonProgress)}
}

func (s *memStore) ActiveSeasons(ctx context.Context, now time.Time) ([]models.Season, error) {
	var out []models.Season
	for _, season := range s.seasons {
		if !now.Before(season.StartDate) && !now.After(season.EndDate) && season.Active {
			out = append(out, season)
		}
	}
	return out, nil
}

func (s *memStore) GetProgress(ctx context.Context, userID, seasonID string) (models.UserSeasonProgress, error) {
	return s.progress[userID+"|"+seasonID], nil
}

func (s *memStore) SaveProgress(ctx context.Context, p models.UserSeasonProgress) error {
	s.progress[p.UserID+"|"+p.SeasonID] = p
	return nil
}

func testSeason() models.Season {
	return models.Season{
		ID:        "s1",
		StartDate: time.Unix(0, 0),
		EndDate:   time.Unix(1000000, 0),
		Active:    true,
		Config: models.SeasonConfig{
			Milestones: []models.Milestone{
				{ID: "m1", Requirement: 100, Reward: "badge:early_bird"},
			},
		},
	}
}

func TestActiveSeason_SingleMatchSucceeds(t *testing.T) {
	store := newMemStore()
	store.seasons = []models.Season{testSeason()}
	mgr := New(store, clock.Fixed{At: time.Unix(500, 0)})

	got, err := mgr.ActiveSeason(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
}

func TestActiveSeason_MultipleMatchesIsInvariantViolation(t *testing.T) {
	store := newMemStore()
	s1 := testSeason()
	s2 := testSeason()
	s2.ID = "s2"
	store.seasons = []models.Season{s1, s2}
	mgr := New(store, clock.Fixed{At: time.Unix(500, 0)})

	_, err := mgr.ActiveSeason(context.Background())
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindInvariantViolation))
}

func TestClaimMilestone_Scenario(t *testing.T) {
	store := newMemStore()
	season := testSeason()
	store.progress["u1|s1"] = models.UserSeasonProgress{UserID: "u1", SeasonID: "s1", TotalScore: 120}
	mgr := New(store, clock.Fixed{At: time.Unix(1000, 0)})

	res, err := mgr.ClaimMilestone(context.Background(), "u1", season, "m1")
	require.NoError(t, err)
	assert.Equal(t, "badge:early_bird", res.Reward)

	_, err = mgr.ClaimMilestone(context.Background(), "u1", season, "m1")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindAlreadyClaimed))
}

func TestClaimMilestone_UnknownMilestone(t *testing.T) {
	store := newMemStore()
	season := testSeason()
	store.progress["u1|s1"] = models.UserSeasonProgress{UserID: "u1", SeasonID: "s1", TotalScore: 500}
	mgr := New(store, clock.Fixed{At: time.Unix(0, 0)})

	_, err := mgr.ClaimMilestone(context.Background(), "u1", season, "does-not-exist")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindUnknownMilestone))
}

func TestClaimMilestone_NotAchieved(t *testing.T) {
	store := newMemStore()
	season := testSeason()
	store.progress["u1|s1"] = models.UserSeasonProgress{UserID: "u1", SeasonID: "s1", TotalScore: 10}
	mgr := New(store, clock.Fixed{At: time.Unix(0, 0)})

	_, err := mgr.ClaimMilestone(context.Background(), "u1", season, "m1")
	require.Error(t, err)
	assert.True(t, apierr.Is(err, apierr.KindNotAchieved))
}

func TestTierFor_PicksHighestMetThreshold(t *testing.T) {
	thresholds := map[models.SeasonTier]int{
		models.SeasonBronze:   0,
		models.SeasonSilver:   100,
		models.SeasonGold:     500,
		models.SeasonPlatinum: 1000,
		models.SeasonDiamond:  2000,
	}
	assert.Equal(t, models.SeasonGold, TierFor(600, thresholds))
	assert.Equal(t, models.SeasonDiamond, TierFor(5000, thresholds))
	assert.Equal(t, models.SeasonBronze, TierFor(50, thresholds))
}
