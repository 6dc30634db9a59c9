package eligibility

import (
	"sort"

	"creator-rewards-system/models"
)

// BudgetStats reports program-wide spend against the fixed budget. Always
// recomputed from persisted verdicts, never incremented.
type BudgetStats struct {
	TotalEarned    int  `json:"total_earned"`
	TotalSpent     int  `json:"total_spent"`
	Remaining      int  `json:"remaining"`
	BudgetExceeded bool `json:"budget_exceeded"`
}

// NewBudgetStats derives the budget view from the summed spend.
func NewBudgetStats(totalSpent int) BudgetStats {
	remaining := TotalBudget - totalSpent
	if remaining < 0 {
		remaining = 0
	}
	return BudgetStats{
		TotalEarned:    totalSpent,
		TotalSpent:     totalSpent,
		Remaining:      remaining,
		BudgetExceeded: totalSpent > TotalBudget,
	}
}

// PlatformBreakdown is the per-platform slice of the spend.
type PlatformBreakdown struct {
	Count int `json:"count"`
	Robux int `json:"robux"`
}

// LeaderboardChannel is the channel summary embedded in a leaderboard entry.
type LeaderboardChannel struct {
	Platform          models.Platform `json:"platform"`
	Handle            *string         `json:"handle,omitempty"`
	ExternalChannelID *string         `json:"channel_id,omitempty"`
	URL               string          `json:"url"`
}

// LeaderboardEntry is one participant's ranked row. TotalViews sums ALL the
// participant's videos, not just eligible ones; RobuxEarned comes from
// eligible posts only.
type LeaderboardEntry struct {
	Rank             int                  `json:"rank"`
	ParticipantID    string               `json:"participant_id"`
	DisplayName      string               `json:"display_name"`
	DiscordUsername  string               `json:"discord_username"`
	DiscordAvatarURL *string              `json:"discord_avatar_url,omitempty"`
	Channels         []LeaderboardChannel `json:"channels"`
	TotalViews       int                  `json:"total_views"`
	EligiblePosts    int                  `json:"eligible_posts"`
	RobuxEarned      int                  `json:"robux_earned"`
}

// RankParticipants sorts entries descending by TotalViews and assigns
// 1-based ranks. The sort is stable, so ties keep the input order; callers
// feed entries in registration order, which makes that the tie-break.
// When includeZeroViews is false, zero-view participants are dropped before
// ranking (caller-selectable policy, not a universal invariant).
func RankParticipants(entries []LeaderboardEntry, includeZeroViews bool) []LeaderboardEntry {
	ranked := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		if !includeZeroViews && e.TotalViews == 0 {
			continue
		}
		e.RobuxEarned = e.EligiblePosts * RobuxPerEligibleVideo
		ranked = append(ranked, e)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalViews > ranked[j].TotalViews
	})

	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked
}
