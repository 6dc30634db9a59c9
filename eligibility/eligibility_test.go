package eligibility

import (
	"testing"
	"time"

	"creator-rewards-system/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func tiktokVideo(id string, duration int, views int) VideoInput {
	return VideoInput{
		ID:              id,
		ChannelID:       "chan-1",
		Platform:        models.PlatformTikTok,
		Title:           "my clip #trythemoon",
		PublishedAt:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		DurationSeconds: intPtr(duration),
		Views:           views,
	}
}

func TestCheckVideoShortDuration(t *testing.T) {
	v := tiktokVideo("v1", 10, 6000)

	result := CheckVideo(v)

	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{"Duration < 15 seconds"}, result.Reasons)
	assert.Equal(t, 0, result.EligibleRobux)
}

func TestCheckVideoEligible(t *testing.T) {
	v := tiktokVideo("v1", 20, 8000)
	v.Title = "check this out #TryTheMoon"

	result := CheckVideo(v)

	assert.True(t, result.IsEligible)
	assert.Equal(t, []string{"Eligible"}, result.Reasons)
	assert.Equal(t, 100, result.EligibleRobux)
}

func TestCheckVideoHashtagInDescription(t *testing.T) {
	v := tiktokVideo("v1", 20, 8000)
	v.Title = "no tag here"
	v.Description = "come play #TRYTHEMOON"

	result := CheckVideo(v)

	assert.True(t, result.IsEligible)
}

func TestCheckVideoAccumulatesAllFailures(t *testing.T) {
	v := VideoInput{
		ID:          "v1",
		ChannelID:   "chan-1",
		Platform:    models.PlatformYouTube,
		Title:       "plain title",
		PublishedAt: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Views:       42,
	}

	result := CheckVideo(v)

	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{
		"Duration < 15 seconds",
		"Missing hashtag #trythemoon",
		"Views < 10,000",
	}, result.Reasons)
	assert.Equal(t, 0, result.EligibleRobux)
}

func TestCheckVideoPlatformThresholds(t *testing.T) {
	tiktok := tiktokVideo("v1", 20, 5000)
	assert.True(t, CheckVideo(tiktok).IsEligible)

	tiktok.Views = 4999
	result := CheckVideo(tiktok)
	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{"Views < 5,000"}, result.Reasons)

	youtube := tiktok
	youtube.Platform = models.PlatformYouTube
	youtube.Views = 9999
	result = CheckVideo(youtube)
	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{"Views < 10,000"}, result.Reasons)

	youtube.Views = 10000
	assert.True(t, CheckVideo(youtube).IsEligible)
}

func TestCheckVideoMissingDuration(t *testing.T) {
	v := tiktokVideo("v1", 0, 8000)
	v.DurationSeconds = nil

	result := CheckVideo(v)

	assert.False(t, result.IsEligible)
	assert.Contains(t, result.Reasons, "Duration < 15 seconds")
}

func TestCheckVideoAdminOverride(t *testing.T) {
	// Fails every rule, but a forced-eligible override wins.
	v := tiktokVideo("v1", 5, 10)
	v.Title = "nothing relevant"
	v.Override = boolPtr(true)

	result := CheckVideo(v)
	assert.True(t, result.IsEligible)
	assert.Equal(t, []string{"Eligible (admin override)"}, result.Reasons)
	assert.Equal(t, 100, result.EligibleRobux)

	// Passes every rule, but a forced-ineligible override wins.
	v = tiktokVideo("v2", 30, 50000)
	v.Override = boolPtr(false)

	result = CheckVideo(v)
	assert.False(t, result.IsEligible)
	assert.Equal(t, []string{"Not eligible (admin override)"}, result.Reasons)
	assert.Equal(t, 0, result.EligibleRobux)
}

func sameDayBatch(count int) []VideoInput {
	videos := make([]VideoInput, 0, count)
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		v := tiktokVideo("", 20, 8000)
		v.ID = string(rune('a' + i))
		v.PublishedAt = base.Add(time.Duration(i) * time.Hour)
		videos = append(videos, v)
	}
	return videos
}

func TestDailyLimitDemotesFourthPost(t *testing.T) {
	videos := sameDayBatch(4)

	results := CheckVideos(videos)
	require.Len(t, results, 4)

	for _, id := range []string{"a", "b", "c"} {
		assert.True(t, results[id].IsEligible, "video %s should keep its slot", id)
		assert.Equal(t, 100, results[id].EligibleRobux)
	}

	fourth := results["d"]
	assert.False(t, fourth.IsEligible)
	assert.Equal(t, []string{"Daily limit exceeded (max 3/day)"}, fourth.Reasons)
	assert.NotContains(t, fourth.Reasons, "Eligible")
}

func TestDailyLimitDemotionOrderIgnoresInputOrder(t *testing.T) {
	videos := sameDayBatch(4)
	// Present the latest post first; demotion must still hit it.
	shuffled := []VideoInput{videos[3], videos[0], videos[2], videos[1]}

	results := CheckVideos(shuffled)

	assert.True(t, results["a"].IsEligible)
	assert.True(t, results["b"].IsEligible)
	assert.True(t, results["c"].IsEligible)
	assert.False(t, results["d"].IsEligible)
}

func TestDailyLimitStableOnIdenticalTimestamps(t *testing.T) {
	videos := sameDayBatch(4)
	at := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	for i := range videos {
		videos[i].PublishedAt = at
	}

	// Ties keep input order, so the last listed video loses the slot.
	results := CheckVideos(videos)
	assert.True(t, results["a"].IsEligible)
	assert.True(t, results["b"].IsEligible)
	assert.True(t, results["c"].IsEligible)
	assert.False(t, results["d"].IsEligible)
}

func TestDailyLimitIneligibleVideosDoNotConsumeSlots(t *testing.T) {
	videos := sameDayBatch(5)
	// Two rule failures early in the day must not starve later posts.
	videos[0].Views = 10
	videos[1].DurationSeconds = intPtr(5)

	results := CheckVideos(videos)

	assert.False(t, results["a"].IsEligible)
	assert.False(t, results["b"].IsEligible)
	assert.True(t, results["c"].IsEligible)
	assert.True(t, results["d"].IsEligible)
	assert.True(t, results["e"].IsEligible)
}

func TestDailyLimitCountsPerChannelPerDay(t *testing.T) {
	videos := sameDayBatch(3)
	other := sameDayBatch(3)
	for i := range other {
		other[i].ID = "x" + other[i].ID
		other[i].ChannelID = "chan-2"
	}
	nextDay := tiktokVideo("next", 20, 8000)
	nextDay.PublishedAt = time.Date(2026, 3, 11, 0, 30, 0, 0, time.UTC)

	results := CheckVideos(append(append(videos, other...), nextDay))

	for _, r := range results {
		assert.True(t, r.IsEligible)
	}
}

func TestDailyLimitUsesUTCDayBoundary(t *testing.T) {
	videos := sameDayBatch(3)
	// 23:30 UTC on the 10th in a non-UTC zone: still the 10th's bucket.
	late := tiktokVideo("late", 20, 8000)
	late.PublishedAt = time.Date(2026, 3, 11, 1, 30, 0, 0, time.FixedZone("CEST", 2*3600))

	results := CheckVideos(append(videos, late))

	assert.False(t, results["late"].IsEligible)
	assert.Equal(t, []string{"Daily limit exceeded (max 3/day)"}, results["late"].Reasons)
}

func TestDailyLimitForcedEligibleConsumesSlotButIsNeverDemoted(t *testing.T) {
	videos := sameDayBatch(4)
	videos[3].Override = boolPtr(true)

	results := CheckVideos(videos)

	// The forced video published last, so the three earlier organic posts
	// fill the day first and the override still sticks on top.
	assert.True(t, results["d"].IsEligible)
	assert.Equal(t, []string{"Eligible (admin override)"}, results["d"].Reasons)

	// Forced first thing in the morning, it takes a slot from the others.
	videos = sameDayBatch(4)
	videos[0].Override = boolPtr(true)
	results = CheckVideos(videos)

	assert.True(t, results["a"].IsEligible)
	assert.True(t, results["b"].IsEligible)
	assert.True(t, results["c"].IsEligible)
	assert.False(t, results["d"].IsEligible)
}

func TestCheckVideosDeterministic(t *testing.T) {
	videos := sameDayBatch(5)
	videos[1].Views = 3

	first := CheckVideos(videos)
	second := CheckVideos(videos)

	assert.Equal(t, first, second)
}

func TestNewInputCarriesOverride(t *testing.T) {
	duration := 30
	video := models.Video{
		ID:              "vid-1",
		ChannelID:       "chan-1",
		Platform:        models.PlatformYouTube,
		Title:           "launch day #trythemoon",
		PublishedAt:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		DurationSeconds: &duration,
		Views:           25000,
	}

	in := NewInput(video)
	assert.Nil(t, in.Override)

	video.Eligibility = &models.VideoEligibility{OverriddenByAdmin: true, IsEligible: false}
	in = NewInput(video)
	require.NotNil(t, in.Override)
	assert.False(t, *in.Override)
}
