// services/leaderboard_service.go
package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"creator-rewards-system/eligibility"
	"creator-rewards-system/models"
	"creator-rewards-system/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaderboardService struct {
	DB *gorm.DB
}

func NewLeaderboardService(db *gorm.DB) *LeaderboardService {
	return &LeaderboardService{DB: db}
}

// buildEntries loads every participant with channels, videos and verdicts
// and maps them to unranked leaderboard entries. Participants are ordered by
// registration time (then id), which the ranker's stable sort preserves as
// the tie-break. platform narrows both channels and view sums when set.
func (s *LeaderboardService) buildEntries(platform *models.Platform) ([]eligibility.LeaderboardEntry, error) {
	var participants []models.Participant
	query := s.DB.Order("created_at ASC, id ASC").
		Preload("Channels.Videos.Eligibility")
	if platform != nil {
		query = query.Preload("Channels", "platform = ?", *platform)
	} else {
		query = query.Preload("Channels")
	}
	if err := query.Find(&participants).Error; err != nil {
		return nil, err
	}

	entries := make([]eligibility.LeaderboardEntry, 0, len(participants))
	for _, p := range participants {
		entry := eligibility.LeaderboardEntry{
			ParticipantID:    p.ID,
			DisplayName:      p.DisplayName,
			DiscordUsername:  p.DiscordUsername,
			DiscordAvatarURL: p.DiscordAvatarURL,
			Channels:         []eligibility.LeaderboardChannel{},
		}
		for _, ch := range p.Channels {
			entry.Channels = append(entry.Channels, eligibility.LeaderboardChannel{
				Platform:          ch.Platform,
				Handle:            ch.Handle,
				ExternalChannelID: ch.ExternalChannelID,
				URL:               ch.URL,
			})
			for _, v := range ch.Videos {
				// Total views are unfiltered; robux comes from verdicts.
				entry.TotalViews += v.Views
				if v.Eligibility != nil && v.Eligibility.IsEligible {
					entry.EligiblePosts++
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parsePlatformParam(c *fiber.Ctx) (*models.Platform, bool) {
	raw := strings.TrimSpace(c.Query("platform"))
	if raw == "" {
		return nil, true
	}
	platform := models.Platform(raw)
	if !models.ValidPlatform(platform) {
		return nil, false
	}
	return &platform, true
}

// GetLeaderboard returns participants ranked by total view count.
func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	platform, ok := parsePlatformParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": `Invalid platform. Must be "tiktok" or "youtube"`,
		})
	}

	includeZeroViews := true
	if raw := c.Query("include_zero_views"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid include_zero_views parameter"})
		}
		includeZeroViews = parsed
	}

	entries, err := s.buildEntries(platform)
	if err != nil {
		log.Printf("DB Error building leaderboard: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch leaderboard"})
	}

	platformLabel := "combined"
	if platform != nil {
		platformLabel = string(*platform)
	}

	return c.JSON(fiber.Map{
		"platform": platformLabel,
		"entries":  eligibility.RankParticipants(entries, includeZeroViews),
	})
}

// ExportLeaderboard renders the current leaderboard as CSV. When R2 is
// configured the file is uploaded and the CDN URL returned; otherwise the
// CSV is served inline as an attachment.
func (s *LeaderboardService) ExportLeaderboard(c *fiber.Ctx) error {
	platform, ok := parsePlatformParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": `Invalid platform. Must be "tiktok" or "youtube"`,
		})
	}

	entries, err := s.buildEntries(platform)
	if err != nil {
		log.Printf("DB Error building leaderboard export: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export leaderboard"})
	}
	ranked := eligibility.RankParticipants(entries, true)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"rank", "display_name", "discord_username", "total_views", "eligible_posts", "robux_earned", "channels"})
	for _, e := range ranked {
		channels := make([]string, 0, len(e.Channels))
		for _, ch := range e.Channels {
			channels = append(channels, ch.URL)
		}
		_ = w.Write([]string{
			strconv.Itoa(e.Rank),
			e.DisplayName,
			e.DiscordUsername,
			strconv.Itoa(e.TotalViews),
			strconv.Itoa(e.EligiblePosts),
			strconv.Itoa(e.RobuxEarned),
			strings.Join(channels, " "),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Printf("CSV Error writing leaderboard export: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to export leaderboard"})
	}

	filename := fmt.Sprintf("leaderboard-%s-%s.csv", time.Now().UTC().Format("2006-01-02"), uuid.NewString()[:8])

	if utils.R2Enabled() {
		url, err := utils.UploadBytesToR2(buf.Bytes(), "exports/"+filename, "text/csv")
		if err != nil {
			log.Printf("❌ Failed to upload leaderboard export to R2: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to upload export"})
		}
		log.Printf("✅ Leaderboard export uploaded: %s", url)
		return c.JSON(fiber.Map{"url": url, "rows": len(ranked)})
	}

	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buf.Bytes())
}
