// services/participant_service.go
package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"creator-rewards-system/eligibility"
	"creator-rewards-system/models"
	"creator-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type ParticipantService struct {
	DB          *gorm.DB
	Eligibility *EligibilityService
	Robux       *RobuxService
	Discord     *DiscordClient
}

func NewParticipantService(db *gorm.DB, eligibilitySvc *EligibilityService, robuxSvc *RobuxService, discord *DiscordClient) *ParticipantService {
	return &ParticipantService{
		DB:          db,
		Eligibility: eligibilitySvc,
		Robux:       robuxSvc,
		Discord:     discord,
	}
}

// Register creates a participant with their channels. At least one of the
// TikTok handle / YouTube channel inputs is required; both are accepted as
// bare handles/ids or profile URLs.
func (s *ParticipantService) Register(c *fiber.Ctx) error {
	var req struct {
		DisplayName     string `json:"display_name"`
		Email           string `json:"email"`
		DiscordUsername string `json:"discord_username"`
		TikTokHandle    string `json:"tiktok_handle"`
		YouTubeChannel  string `json:"youtube_channel"`
	}

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if req.DisplayName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Display name is required"})
	}

	discordUsername := NormalizeDiscordUsername(req.DiscordUsername)
	if discordUsername == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discord username is required"})
	}
	if !ValidDiscordUsernameFormat(discordUsername) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid Discord username"})
	}

	var discordAvatarURL *string
	if s.Discord.Enabled() {
		member, err := s.Discord.LookupMember(c.Context(), discordUsername)
		if err != nil {
			log.Printf("⚠️ Discord lookup failed for %q: %v", discordUsername, err)
		} else if member == nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Discord user not found in server"})
		} else if member.AvatarURL != "" {
			discordAvatarURL = &member.AvatarURL
		}
	}

	tiktokHandle := ""
	if strings.TrimSpace(req.TikTokHandle) != "" {
		tiktokHandle = utils.ExtractTikTokHandle(req.TikTokHandle)
	}
	youtubeChannelID := ""
	if strings.TrimSpace(req.YouTubeChannel) != "" {
		youtubeChannelID = utils.ExtractYouTubeChannelID(req.YouTubeChannel)
	}

	if tiktokHandle == "" && youtubeChannelID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "At least one valid platform (TikTok or YouTube) is required",
		})
	}

	var email *string
	if trimmed := strings.TrimSpace(req.Email); trimmed != "" {
		email = &trimmed
	}

	participant := models.Participant{
		ID:               uuid.NewString(),
		DisplayName:      req.DisplayName,
		Slug:             slug.Make(req.DisplayName),
		Email:            email,
		DiscordUsername:  discordUsername,
		DiscordAvatarURL: discordAvatarURL,
		DashboardToken:   uuid.NewString(),
	}

	if tiktokHandle != "" {
		handle := tiktokHandle
		participant.Channels = append(participant.Channels, models.Channel{
			ID:       uuid.NewString(),
			Platform: models.PlatformTikTok,
			Handle:   &handle,
			URL:      fmt.Sprintf("https://www.tiktok.com/@%s", handle),
		})
	}
	if youtubeChannelID != "" {
		channelID := youtubeChannelID
		participant.Channels = append(participant.Channels, models.Channel{
			ID:                uuid.NewString(),
			Platform:          models.PlatformYouTube,
			ExternalChannelID: &channelID,
			URL:               fmt.Sprintf("https://www.youtube.com/channel/%s", channelID),
		})
	}

	if err := s.DB.Create(&participant).Error; err != nil {
		log.Printf("DB Error registering participant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register participant"})
	}

	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = c.BaseURL()
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"participant": fiber.Map{
			"id":           participant.ID,
			"display_name": participant.DisplayName,
			"slug":         participant.Slug,
		},
		"dashboard_url": fmt.Sprintf("%s/participants/token/%s", baseURL, participant.DashboardToken),
	})
}

// GetParticipant serves the participant detail view keyed by id.
func (s *ParticipantService) GetParticipant(c *fiber.Ctx) error {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid participant ID"})
	}
	return s.participantView(c, "id = ?", id)
}

// GetParticipantByToken serves the self-service dashboard keyed by the
// opaque capability token.
func (s *ParticipantService) GetParticipantByToken(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing dashboard token"})
	}
	return s.participantView(c, "dashboard_token = ?", token)
}

// participantView loads the participant's full history, recomputes verdicts
// over it (the whole scope, so daily caps stay correct) and renders the
// dashboard payload.
func (s *ParticipantService) participantView(c *fiber.Ctx, query string, arg string) error {
	var participant models.Participant
	err := s.DB.Preload("Channels").
		Preload("Channels.Videos", func(db *gorm.DB) *gorm.DB {
			return db.Order("videos.published_at DESC")
		}).
		Preload("Channels.Videos.Eligibility").
		First(&participant, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Participant not found"})
		}
		log.Printf("DB Error fetching participant: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	results, err := s.Eligibility.RecomputeParticipant(participant.ID)
	if err != nil {
		log.Printf("⚠️ Recompute failed for participant %s: %v", participant.ID, err)
		// Fall back to the persisted verdicts loaded above.
		results = map[string]eligibility.Result{}
		for _, ch := range participant.Channels {
			for _, v := range ch.Videos {
				if v.Eligibility != nil {
					results[v.ID] = eligibility.Result{
						IsEligible:    v.Eligibility.IsEligible,
						Reasons:       v.Eligibility.Reasons,
						EligibleRobux: v.Eligibility.EligibleRobux,
					}
				}
			}
		}
	}

	totalViews := 0
	type videoView struct {
		models.Video
		Verdict eligibility.Result `json:"verdict"`
	}
	type dailyCount struct {
		Date  string `json:"date"`
		Count int    `json:"count"`
	}
	type channelView struct {
		models.Channel
		VideoViews  []videoView  `json:"video_views"`
		DailyCounts []dailyCount `json:"daily_counts"`
	}

	channels := make([]channelView, 0, len(participant.Channels))
	for _, ch := range participant.Channels {
		view := channelView{Channel: ch}
		counts := map[string]int{}
		for _, v := range ch.Videos {
			totalViews += v.Views
			verdict, ok := results[v.ID]
			if !ok {
				verdict = eligibility.Result{Reasons: []string{"Not yet evaluated"}}
			}
			view.VideoViews = append(view.VideoViews, videoView{Video: v, Verdict: verdict})
			counts[v.PublishedAt.UTC().Format("2006-01-02")]++
		}
		for date, n := range counts {
			view.DailyCounts = append(view.DailyCounts, dailyCount{Date: date, Count: n})
		}
		view.Channel.Videos = nil
		channels = append(channels, view)
	}

	eligiblePosts, robuxEarned, err := s.Robux.ParticipantRobux(participant.ID)
	if err != nil {
		log.Printf("DB Error computing participant robux: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "DB error"})
	}

	return c.JSON(fiber.Map{
		"participant": fiber.Map{
			"id":                 participant.ID,
			"display_name":       participant.DisplayName,
			"slug":               participant.Slug,
			"email":              participant.Email,
			"discord_username":   participant.DiscordUsername,
			"discord_avatar_url": participant.DiscordAvatarURL,
			"created_at":         participant.CreatedAt,
		},
		"channels":       channels,
		"total_views":    totalViews,
		"eligible_posts": eligiblePosts,
		"robux_earned":   robuxEarned,
	})
}

// Search matches participants by display name, Discord username or channel
// handle/id, case-insensitive, capped at 20 results.
func (s *ParticipantService) Search(c *fiber.Ctx) error {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		return c.JSON(fiber.Map{"participants": []models.Participant{}})
	}

	pattern := "%" + query + "%"
	var participants []models.Participant
	err := s.DB.Preload("Channels").
		Where(
			"display_name ILIKE ? OR discord_username ILIKE ? OR id IN (?)",
			pattern, pattern,
			s.DB.Model(&models.Channel{}).Select("participant_id").
				Where("handle ILIKE ? OR external_channel_id ILIKE ?", pattern, pattern),
		).
		Order("discord_username ASC").
		Limit(20).
		Find(&participants).Error
	if err != nil {
		log.Printf("DB Error searching participants: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to search participants"})
	}

	return c.JSON(fiber.Map{"participants": participants})
}
