package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBudgetStats(t *testing.T) {
	stats := NewBudgetStats(1200)

	assert.Equal(t, 1200, stats.TotalEarned)
	assert.Equal(t, 1200, stats.TotalSpent)
	assert.Equal(t, 48800, stats.Remaining)
	assert.False(t, stats.BudgetExceeded)
}

func TestNewBudgetStatsAtAndOverBudget(t *testing.T) {
	at := NewBudgetStats(50000)
	assert.Equal(t, 0, at.Remaining)
	assert.False(t, at.BudgetExceeded)

	over := NewBudgetStats(50100)
	assert.Equal(t, 0, over.Remaining)
	assert.True(t, over.BudgetExceeded)
}

func TestRankParticipantsOrdering(t *testing.T) {
	entries := []LeaderboardEntry{
		{ParticipantID: "p1", DisplayName: "Ana", TotalViews: 500, EligiblePosts: 1},
		{ParticipantID: "p2", DisplayName: "Bo", TotalViews: 9000, EligiblePosts: 4},
		{ParticipantID: "p3", DisplayName: "Cy", TotalViews: 2500, EligiblePosts: 0},
	}

	ranked := RankParticipants(entries, true)
	require.Len(t, ranked, 3)

	assert.Equal(t, "p2", ranked[0].ParticipantID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, 400, ranked[0].RobuxEarned)

	assert.Equal(t, "p3", ranked[1].ParticipantID)
	assert.Equal(t, 2, ranked[1].Rank)
	assert.Equal(t, 0, ranked[1].RobuxEarned)

	assert.Equal(t, "p1", ranked[2].ParticipantID)
	assert.Equal(t, 3, ranked[2].Rank)
}

func TestRankParticipantsTiesKeepInputOrder(t *testing.T) {
	// Input order is registration order, so the earlier registrant wins ties.
	entries := []LeaderboardEntry{
		{ParticipantID: "older", TotalViews: 1000},
		{ParticipantID: "newer", TotalViews: 1000},
	}

	ranked := RankParticipants(entries, true)
	require.Len(t, ranked, 2)
	assert.Equal(t, "older", ranked[0].ParticipantID)
	assert.Equal(t, "newer", ranked[1].ParticipantID)
}

func TestRankParticipantsZeroViewFilter(t *testing.T) {
	entries := []LeaderboardEntry{
		{ParticipantID: "p1", TotalViews: 0, EligiblePosts: 0},
		{ParticipantID: "p2", TotalViews: 10, EligiblePosts: 0},
	}

	ranked := RankParticipants(entries, false)
	require.Len(t, ranked, 1)
	assert.Equal(t, "p2", ranked[0].ParticipantID)
	assert.Equal(t, 1, ranked[0].Rank)

	ranked = RankParticipants(entries, true)
	require.Len(t, ranked, 2)
	assert.Equal(t, "p1", ranked[1].ParticipantID)
	assert.Equal(t, 2, ranked[1].Rank)
}

func TestRankParticipantsDoesNotMutateInput(t *testing.T) {
	entries := []LeaderboardEntry{
		{ParticipantID: "p1", TotalViews: 5, EligiblePosts: 2},
		{ParticipantID: "p2", TotalViews: 50, EligiblePosts: 1},
	}

	_ = RankParticipants(entries, true)

	assert.Equal(t, "p1", entries[0].ParticipantID)
	assert.Equal(t, 0, entries[0].Rank)
	assert.Equal(t, 0, entries[0].RobuxEarned)
}
