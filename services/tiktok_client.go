// services/tiktok_client.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"creator-rewards-system/models"
	"creator-rewards-system/utils"

	"github.com/google/go-querystring/query"
)

// TikTokClient fetches a creator's recent videos through a third-party
// scraper API (TikTok's own display API requires per-user OAuth, which is
// out of scope). The provider is keyed per-request; when the provider is
// down the sync job skips TikTok channels and carries on.
type TikTokClient struct {
	BaseURL string
	APIKey  string
	APIHost string
	Client  *http.Client
}

func NewTikTokClient(apiKey, apiHost string) *TikTokClient {
	if apiHost == "" {
		apiHost = "tiktok-scraper7.p.rapidapi.com"
	}
	return &TikTokClient{
		BaseURL: fmt.Sprintf("https://%s", apiHost),
		APIKey:  apiKey,
		APIHost: apiHost,
		Client:  utils.HTTPClient,
	}
}

type tiktokListParams struct {
	UniqueID string `url:"unique_id"`
	Count    int    `url:"count"`
}

type tiktokVideo struct {
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	CreateTime int64  `json:"create_time"`
	Duration   int    `json:"duration"`
	PlayCount  int    `json:"play_count"`
	Cover      string `json:"cover"`
}

type tiktokListResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Videos []tiktokVideo `json:"videos"`
	} `json:"data"`
}

// FetchChannelVideos lists a handle's recent posts.
func (c *TikTokClient) FetchChannelVideos(ctx context.Context, channel models.Channel) ([]PlatformVideo, error) {
	if channel.Handle == nil || *channel.Handle == "" {
		return nil, fmt.Errorf("channel %s has no TikTok handle", channel.ID)
	}
	handle := *channel.Handle

	params, err := query.Values(tiktokListParams{UniqueID: handle, Count: 30})
	if err != nil {
		return nil, fmt.Errorf("failed to encode TikTok query: %w", err)
	}

	url := fmt.Sprintf("%s/user/posts?%s", c.BaseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-rapidapi-key", c.APIKey)
	req.Header.Set("x-rapidapi-host", c.APIHost)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("TikTok request failed for @%s: %w", handle, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("TikTok provider returned %d for @%s: %s", resp.StatusCode, handle, string(body))
	}

	var out tiktokListResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode TikTok response: %w", err)
	}
	if out.Code != 0 {
		return nil, fmt.Errorf("TikTok provider error for @%s: %s", handle, out.Msg)
	}

	videos := make([]PlatformVideo, 0, len(out.Data.Videos))
	for _, v := range out.Data.Videos {
		duration := v.Duration
		videos = append(videos, PlatformVideo{
			ExternalID:      v.VideoID,
			Title:           v.Title,
			URL:             fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", handle, v.VideoID),
			ThumbnailURL:    v.Cover,
			PublishedAt:     time.Unix(v.CreateTime, 0).UTC(),
			DurationSeconds: &duration,
			Views:           v.PlayCount,
		})
	}
	return videos, nil
}
