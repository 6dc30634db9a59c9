// services/youtube_client.go
package services

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"creator-rewards-system/eligibility"
	"creator-rewards-system/models"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// PlatformVideo is the platform-agnostic shape a fetcher returns; the sync
// worker maps it onto Video rows.
type PlatformVideo struct {
	ExternalID      string
	Title           string
	Description     string
	URL             string
	ThumbnailURL    string
	PublishedAt     time.Time
	DurationSeconds *int
	Views           int
}

// YouTubeClient fetches a channel's uploads via the YouTube Data API in
// API-key (read-only) mode.
type YouTubeClient struct {
	service    *youtube.Service
	maxResults int64
}

func NewYouTubeClient(ctx context.Context, apiKey string) (*YouTubeClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("YouTube API key is empty")
	}
	service, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &YouTubeClient{service: service, maxResults: 50}, nil
}

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?$`)

// ParseISODuration converts an ISO 8601 duration like "PT1M30S" to seconds.
// Unparseable input yields 0.
func ParseISODuration(duration string) int {
	m := isoDurationPattern.FindStringSubmatch(duration)
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	seconds, _ := strconv.Atoi(m[3])
	return hours*3600 + minutes*60 + seconds
}

// FetchChannelVideos resolves the channel's uploads playlist, lists recent
// items and hydrates them with duration and view statistics. Only videos
// carrying the campaign hashtag are returned; the engine re-checks it
// anyway, this just keeps unrelated uploads out of the DB.
func (c *YouTubeClient) FetchChannelVideos(ctx context.Context, channel models.Channel) ([]PlatformVideo, error) {
	if channel.ExternalChannelID == nil || *channel.ExternalChannelID == "" {
		return nil, fmt.Errorf("channel %s has no YouTube channel id", channel.ID)
	}
	channelID := *channel.ExternalChannelID

	chResp, err := c.service.Channels.List([]string{"contentDetails"}).Id(channelID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("YouTube channels.list failed for %s: %w", channelID, err)
	}
	if len(chResp.Items) == 0 {
		return nil, nil
	}
	uploads := chResp.Items[0].ContentDetails.RelatedPlaylists.Uploads
	if uploads == "" {
		return nil, nil
	}

	itemsResp, err := c.service.PlaylistItems.List([]string{"snippet"}).
		PlaylistId(uploads).MaxResults(c.maxResults).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("YouTube playlistItems.list failed for %s: %w", uploads, err)
	}
	if len(itemsResp.Items) == 0 {
		return nil, nil
	}

	videoIDs := make([]string, 0, len(itemsResp.Items))
	for _, item := range itemsResp.Items {
		if item.Snippet != nil && item.Snippet.ResourceId != nil {
			videoIDs = append(videoIDs, item.Snippet.ResourceId.VideoId)
		}
	}

	detailsResp, err := c.service.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
		Id(videoIDs...).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("YouTube videos.list failed: %w", err)
	}

	videos := make([]PlatformVideo, 0, len(detailsResp.Items))
	for _, v := range detailsResp.Items {
		if v.Snippet == nil {
			continue
		}

		text := strings.ToLower(v.Snippet.Title + " " + v.Snippet.Description)
		if !strings.Contains(text, eligibility.RequiredHashtag) {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, v.Snippet.PublishedAt)
		if err != nil {
			log.Printf("[SYNC] ⚠️ Skipping video %s with bad publishedAt %q: %v", v.Id, v.Snippet.PublishedAt, err)
			continue
		}

		views := 0
		if v.Statistics != nil {
			views = int(v.Statistics.ViewCount)
		}

		var duration *int
		if v.ContentDetails != nil && v.ContentDetails.Duration != "" {
			seconds := ParseISODuration(v.ContentDetails.Duration)
			duration = &seconds
		}

		thumbnail := ""
		if v.Snippet.Thumbnails != nil {
			if v.Snippet.Thumbnails.High != nil {
				thumbnail = v.Snippet.Thumbnails.High.Url
			} else if v.Snippet.Thumbnails.Default != nil {
				thumbnail = v.Snippet.Thumbnails.Default.Url
			}
		}

		videos = append(videos, PlatformVideo{
			ExternalID:      v.Id,
			Title:           v.Snippet.Title,
			Description:     v.Snippet.Description,
			URL:             "https://www.youtube.com/watch?v=" + v.Id,
			ThumbnailURL:    thumbnail,
			PublishedAt:     publishedAt,
			DurationSeconds: duration,
			Views:           views,
		})
	}
	return videos, nil
}
