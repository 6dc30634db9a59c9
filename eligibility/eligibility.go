// Package eligibility implements the rewards computation engine: rule
// evaluation, the per-channel daily cap, budget math and leaderboard
// ranking. Everything in this package is pure: no I/O, no clock reads.
package eligibility

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"creator-rewards-system/models"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	RequiredHashtag    = "#trythemoon"
	MinDurationSeconds = 15
	TikTokMinViews     = 5000
	YouTubeMinViews    = 10000
	MaxPostsPerDay     = 3

	// RobuxPerEligibleVideo is the fixed reward unit per eligible video.
	RobuxPerEligibleVideo = 100

	// TotalBudget is the program-wide reward ceiling.
	TotalBudget = 50000
)

const eligibleReason = "Eligible"

var dailyLimitReason = fmt.Sprintf("Daily limit exceeded (max %d/day)", MaxPostsPerDay)

// viewsPrinter renders thresholds with thousands separators ("5,000").
var viewsPrinter = message.NewPrinter(language.English)

// VideoInput is the shape the engine evaluates. Override carries the
// tri-state admin override: nil means unset, otherwise the forced verdict.
type VideoInput struct {
	ID              string
	ChannelID       string
	Platform        models.Platform
	Title           string
	Description     string
	PublishedAt     time.Time
	DurationSeconds *int
	Views           int
	Override        *bool
}

// Result is the verdict for one video. Reasons is always non-empty and is
// sufficient to explain the decision without consulting logs.
type Result struct {
	IsEligible    bool     `json:"is_eligible"`
	Reasons       []string `json:"reasons"`
	EligibleRobux int      `json:"eligible_robux"`
}

// NewInput builds a VideoInput from a persisted video and its current
// eligibility row (which may be nil).
func NewInput(v models.Video) VideoInput {
	in := VideoInput{
		ID:              v.ID,
		ChannelID:       v.ChannelID,
		Platform:        v.Platform,
		Title:           v.Title,
		PublishedAt:     v.PublishedAt,
		DurationSeconds: v.DurationSeconds,
		Views:           v.Views,
		Override:        v.Eligibility.Override(),
	}
	if v.Description != nil {
		in.Description = *v.Description
	}
	return in
}

// MinViewsFor returns the platform-dependent view threshold.
func MinViewsFor(p models.Platform) int {
	if p == models.PlatformTikTok {
		return TikTokMinViews
	}
	return YouTubeMinViews
}

func meetsDuration(durationSeconds *int) bool {
	return durationSeconds != nil && *durationSeconds >= MinDurationSeconds
}

func hasHashtag(title, description string) bool {
	text := strings.ToLower(title + " " + description)
	return strings.Contains(text, RequiredHashtag)
}

func meetsViews(p models.Platform, views int) bool {
	return models.ValidPlatform(p) && views >= MinViewsFor(p)
}

// CheckVideo evaluates a single video against the rules, without the daily
// cap. An explicit admin override short-circuits every rule check; this is
// the only path that bypasses the rules. Missing duration or empty
// description are valid inputs, never errors.
func CheckVideo(v VideoInput) Result {
	if v.Override != nil {
		if *v.Override {
			return Result{
				IsEligible:    true,
				Reasons:       []string{"Eligible (admin override)"},
				EligibleRobux: RobuxPerEligibleVideo,
			}
		}
		return Result{
			IsEligible: false,
			Reasons:    []string{"Not eligible (admin override)"},
		}
	}

	// Reasons accumulate: a video failing several checks reports them all.
	var reasons []string
	eligible := true

	if !meetsDuration(v.DurationSeconds) {
		eligible = false
		reasons = append(reasons, fmt.Sprintf("Duration < %d seconds", MinDurationSeconds))
	}

	if !hasHashtag(v.Title, v.Description) {
		eligible = false
		reasons = append(reasons, "Missing hashtag "+RequiredHashtag)
	}

	if !meetsViews(v.Platform, v.Views) {
		eligible = false
		reasons = append(reasons, viewsPrinter.Sprintf("Views < %d", MinViewsFor(v.Platform)))
	}

	if eligible {
		return Result{
			IsEligible:    true,
			Reasons:       []string{eligibleReason},
			EligibleRobux: RobuxPerEligibleVideo,
		}
	}
	return Result{IsEligible: false, Reasons: reasons}
}

// dayKey buckets a video into its channel's UTC calendar day.
func dayKey(v VideoInput) string {
	return v.ChannelID + "-" + v.PublishedAt.UTC().Format("2006-01-02")
}

// demotedReasons rewrites a verdict's reasons for a daily-cap demotion: the
// literal "Eligible" is dropped so the list stays consistent with the final
// non-eligible state, then the daily-limit reason is appended.
func demotedReasons(prior []string) []string {
	reasons := make([]string, 0, len(prior)+1)
	for _, r := range prior {
		if r != eligibleReason {
			reasons = append(reasons, r)
		}
	}
	return append(reasons, dailyLimitReason)
}

// ApplyDailyLimit enforces "at most MaxPostsPerDay eligible videos per
// channel per UTC calendar day" over a batch of verdicts. Videos are walked
// in publish order (stable sort, so identical timestamps keep their input
// order) and day counters are kept per channel, so channels never interact
// even for the same participant.
//
// Rule-ineligible videos do not consume a slot. Admin-forced-eligible videos
// consume a slot in publish order but are never demoted: the override stays
// sticky until cleared.
func ApplyDailyLimit(videos []VideoInput, results map[string]Result) map[string]Result {
	sorted := make([]VideoInput, len(videos))
	copy(sorted, videos)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedAt.Before(sorted[j].PublishedAt)
	})

	updated := make(map[string]Result, len(results))
	for id, r := range results {
		updated[id] = r
	}

	dailyCounts := make(map[string]int)
	for _, v := range sorted {
		result, ok := results[v.ID]
		if !ok || !result.IsEligible {
			continue
		}

		key := dayKey(v)
		if v.Override != nil && *v.Override {
			dailyCounts[key]++
			continue
		}

		if dailyCounts[key] >= MaxPostsPerDay {
			updated[v.ID] = Result{
				IsEligible: false,
				Reasons:    demotedReasons(result.Reasons),
			}
			continue
		}
		dailyCounts[key]++
	}

	return updated
}

// CheckVideos evaluates an arbitrary batch of videos (possibly spanning
// channels and participants) and applies the daily cap, returning one flat
// verdict map keyed by video id. Deterministic: the same batch always yields
// the same verdicts.
//
// Callers must pass a channel's entire video history whenever any one of its
// videos changes. The daily cap is a function of the whole day's set, and
// partial batches risk incorrect demotion.
func CheckVideos(videos []VideoInput) map[string]Result {
	results := make(map[string]Result, len(videos))
	for _, v := range videos {
		results[v.ID] = CheckVideo(v)
	}
	return ApplyDailyLimit(videos, results)
}
