// services/admin_service.go
package services

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"creator-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminService struct {
	DB          *gorm.DB
	Eligibility *EligibilityService
	password    string
}

// NewAdminService requires ADMIN_PASSWORD; its absence is a deployment
// error, not a per-request condition.
func NewAdminService(db *gorm.DB, eligibilitySvc *EligibilityService) *AdminService {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD environment variable not set")
	}
	return &AdminService{DB: db, Eligibility: eligibilitySvc, password: password}
}

// Login exchanges the admin password for the admin capability cookie.
func (s *AdminService) Login(c *fiber.Ctx) error {
	var req struct {
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Password != s.password {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid password"})
	}

	c.Cookie(&fiber.Cookie{
		Name:     "admin_token",
		Value:    "authenticated",
		HTTPOnly: true,
		SameSite: "Strict",
		Expires:  time.Now().Add(12 * time.Hour),
	})
	return c.JSON(fiber.Map{"success": true})
}

// ListVideos returns the paginated admin video listing with optional
// platform and eligibility filters.
func (s *AdminService) ListVideos(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}

	query := s.DB.Model(&models.Video{})
	if raw := c.Query("platform"); raw != "" {
		platform := models.Platform(raw)
		if !models.ValidPlatform(platform) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": `Invalid platform. Must be "tiktok" or "youtube"`,
			})
		}
		query = query.Where("platform = ?", platform)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		log.Printf("DB Error counting videos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch videos"})
	}

	var videos []models.Video
	if err := query.Preload("Eligibility").
		Order("published_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&videos).Error; err != nil {
		log.Printf("DB Error fetching videos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch videos"})
	}

	if raw := c.Query("eligible"); raw != "" {
		wantEligible, err := strconv.ParseBool(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid eligible parameter"})
		}
		filtered := videos[:0]
		for _, v := range videos {
			isEligible := v.Eligibility != nil && v.Eligibility.IsEligible
			if isEligible == wantEligible {
				filtered = append(filtered, v)
			}
		}
		videos = filtered
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return c.JSON(fiber.Map{
		"videos": videos,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       total,
			"total_pages": totalPages,
		},
	})
}

// OverrideEligibility forces a verdict for one video. The override is sticky
// across recomputations until cleared.
func (s *AdminService) OverrideEligibility(c *fiber.Ctx) error {
	var req struct {
		VideoID    string   `json:"video_id"`
		IsEligible *bool    `json:"is_eligible"`
		Reasons    []string `json:"reasons"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, err := uuid.Parse(req.VideoID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video ID"})
	}
	if req.IsEligible == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "is_eligible is required"})
	}

	row, err := s.Eligibility.Override(req.VideoID, *req.IsEligible, req.Reasons, "admin")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
		}
		log.Printf("DB Error overriding eligibility: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to override eligibility"})
	}

	log.Printf("🛠️ Admin override applied (video_id=%s, eligible=%t)", req.VideoID, *req.IsEligible)
	return c.JSON(fiber.Map{"success": true, "eligibility": row})
}

// ClearOverride removes an admin override and re-evaluates the owning
// participant's scope under the rules.
func (s *AdminService) ClearOverride(c *fiber.Ctx) error {
	var req struct {
		VideoID string `json:"video_id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if _, err := uuid.Parse(req.VideoID); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid video ID"})
	}

	if err := s.Eligibility.ClearOverride(req.VideoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Video not found"})
		}
		log.Printf("DB Error clearing override: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear override"})
	}

	log.Printf("🛠️ Admin override cleared (video_id=%s)", req.VideoID)
	return c.JSON(fiber.Map{"success": true})
}
