// services/robux_service.go
package services

import (
	"log"

	"creator-rewards-system/eligibility"
	"creator-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// RobuxService aggregates spend from persisted verdicts. Always a derived
// read over video_eligibilities — never an incrementally maintained counter —
// so it stays consistent with the last completed recompute it reads.
type RobuxService struct {
	DB *gorm.DB
}

func NewRobuxService(db *gorm.DB) *RobuxService {
	return &RobuxService{DB: db}
}

// TotalStats sums eligible robux system-wide and derives the budget view.
func (s *RobuxService) TotalStats() (eligibility.BudgetStats, error) {
	var totalSpent int64
	err := s.DB.Model(&models.VideoEligibility{}).
		Where("is_eligible = ?", true).
		Select("COALESCE(SUM(eligible_robux), 0)").
		Scan(&totalSpent).Error
	if err != nil {
		return eligibility.BudgetStats{}, err
	}
	return eligibility.NewBudgetStats(int(totalSpent)), nil
}

// PlatformStats returns the eligible count and robux per platform.
func (s *RobuxService) PlatformStats() (map[models.Platform]eligibility.PlatformBreakdown, error) {
	breakdown := make(map[models.Platform]eligibility.PlatformBreakdown)
	for _, platform := range []models.Platform{models.PlatformTikTok, models.PlatformYouTube} {
		var count int64
		err := s.DB.Model(&models.VideoEligibility{}).
			Joins("JOIN videos ON videos.id = video_eligibilities.video_id").
			Where("video_eligibilities.is_eligible = ? AND videos.platform = ?", true, platform).
			Count(&count).Error
		if err != nil {
			return nil, err
		}
		breakdown[platform] = eligibility.PlatformBreakdown{
			Count: int(count),
			Robux: int(count) * eligibility.RobuxPerEligibleVideo,
		}
	}
	return breakdown, nil
}

// ParticipantRobux counts one participant's eligible posts and earned robux.
func (s *RobuxService) ParticipantRobux(participantID string) (eligiblePosts, robuxEarned int, err error) {
	var count int64
	err = s.DB.Model(&models.VideoEligibility{}).
		Joins("JOIN videos ON videos.id = video_eligibilities.video_id").
		Joins("JOIN channels ON channels.id = videos.channel_id").
		Where("video_eligibilities.is_eligible = ? AND channels.participant_id = ?", true, participantID).
		Count(&count).Error
	if err != nil {
		return 0, 0, err
	}
	return int(count), int(count) * eligibility.RobuxPerEligibleVideo, nil
}

// GetRobuxStats returns the program budget view plus the platform breakdown.
func (s *RobuxService) GetRobuxStats(c *fiber.Ctx) error {
	stats, err := s.TotalStats()
	if err != nil {
		log.Printf("DB Error computing robux stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch Robux stats"})
	}

	platforms, err := s.PlatformStats()
	if err != nil {
		log.Printf("DB Error computing platform breakdown: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch Robux stats"})
	}

	return c.JSON(fiber.Map{
		"total_earned":    stats.TotalEarned,
		"total_spent":     stats.TotalSpent,
		"remaining":       stats.Remaining,
		"budget_exceeded": stats.BudgetExceeded,
		"platforms":       platforms,
	})
}
