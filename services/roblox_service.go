// services/roblox_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"creator-rewards-system/models"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	robloxUniversesAPI = "https://apis.roblox.com"
	robloxGamesAPI     = "https://games.roblox.com"

	ccuCacheKey = "roblox:ccu"
	ccuCacheTTL = 60 * time.Second
)

// RobloxService samples the live player count (CCU) of the program's place.
// Samples are cached in redis for 60 seconds and appended to roblox_metrics.
// With no redis configured the latest persisted sample doubles as the cache.
type RobloxService struct {
	DB      *gorm.DB
	Redis   *redis.Client
	PlaceID string
	Client  *http.Client
}

func NewRobloxService(db *gorm.DB, rdb *redis.Client, placeID string) *RobloxService {
	return &RobloxService{
		DB:      db,
		Redis:   rdb,
		PlaceID: placeID,
		Client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (s *RobloxService) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("Roblox request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("Roblox API returned %d for %s: %s", resp.StatusCode, url, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// universeID resolves the configured place to its universe, with the games
// API as a fallback when the universes endpoint is unavailable.
func (s *RobloxService) universeID(ctx context.Context) (int64, error) {
	var direct struct {
		UniverseID int64 `json:"universeId"`
	}
	err := s.getJSON(ctx, fmt.Sprintf("%s/universes/v1/places/%s/universe", robloxUniversesAPI, s.PlaceID), &direct)
	if err == nil && direct.UniverseID != 0 {
		return direct.UniverseID, nil
	}
	if err != nil {
		log.Printf("⚠️ Universes API lookup failed, trying games API: %v", err)
	}

	var fallback struct {
		Data []struct {
			UniverseID int64 `json:"universeId"`
		} `json:"data"`
	}
	err = s.getJSON(ctx, fmt.Sprintf("%s/v1/games/multiget-place-details?placeIds=%s", robloxGamesAPI, s.PlaceID), &fallback)
	if err != nil {
		return 0, err
	}
	if len(fallback.Data) == 0 || fallback.Data[0].UniverseID == 0 {
		return 0, fmt.Errorf("no universe found for place %s", s.PlaceID)
	}
	return fallback.Data[0].UniverseID, nil
}

// FetchCCU asks Roblox for the current player count.
func (s *RobloxService) FetchCCU(ctx context.Context) (int, error) {
	if s.PlaceID == "" {
		return 0, fmt.Errorf("ROBLOX_PLACE_ID not configured")
	}

	universe, err := s.universeID(ctx)
	if err != nil {
		return 0, err
	}

	var stats struct {
		Data []struct {
			Playing int `json:"playing"`
		} `json:"data"`
	}
	if err := s.getJSON(ctx, fmt.Sprintf("%s/v1/games?universeIds=%d", robloxGamesAPI, universe), &stats); err != nil {
		return 0, err
	}
	if len(stats.Data) == 0 {
		return 0, fmt.Errorf("no game stats for universe %d", universe)
	}
	return stats.Data[0].Playing, nil
}

// SampleCCU fetches a fresh CCU value, appends it to roblox_metrics and
// refreshes the cache. Used by the poller and the cron endpoint.
func (s *RobloxService) SampleCCU(ctx context.Context) (int, error) {
	ccu, err := s.FetchCCU(ctx)
	if err != nil {
		return 0, err
	}

	metric := models.RobloxMetric{CCU: ccu}
	if s.PlaceID != "" {
		placeID := s.PlaceID
		metric.PlaceID = &placeID
	}
	if err := s.DB.Create(&metric).Error; err != nil {
		log.Printf("❌ Failed to persist Roblox metric: %v", err)
		return ccu, err
	}

	if s.Redis != nil {
		if err := s.Redis.Set(ctx, ccuCacheKey, ccu, ccuCacheTTL).Err(); err != nil {
			log.Printf("⚠️ Failed to cache CCU in redis: %v", err)
		}
	}
	return ccu, nil
}

// CurrentCCU serves the cached value when fresh, otherwise samples.
func (s *RobloxService) CurrentCCU(ctx context.Context) (ccu int, cached bool, err error) {
	if s.Redis != nil {
		raw, err := s.Redis.Get(ctx, ccuCacheKey).Result()
		if err == nil {
			if ccu, convErr := strconv.Atoi(raw); convErr == nil {
				return ccu, true, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Printf("⚠️ Redis CCU read failed: %v", err)
		}
	} else {
		// No redis: the newest persisted sample is the cache.
		var recent models.RobloxMetric
		err := s.DB.Order("timestamp DESC").First(&recent).Error
		if err == nil && time.Since(recent.Timestamp) < ccuCacheTTL {
			return recent.CCU, true, nil
		}
	}

	ccu, err = s.SampleCCU(ctx)
	return ccu, false, err
}

// GetCCU is the public CCU endpoint.
func (s *RobloxService) GetCCU(c *fiber.Ctx) error {
	ccu, cached, err := s.CurrentCCU(c.Context())
	if err != nil {
		log.Printf("❌ Error fetching Roblox CCU: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch CCU", "ccu": 0})
	}
	return c.JSON(fiber.Map{
		"ccu":       ccu,
		"cached":    cached,
		"timestamp": time.Now().UTC(),
	})
}

// CronSampleCCU is the scheduled sampling trigger.
func (s *RobloxService) CronSampleCCU(c *fiber.Ctx) error {
	ccu, err := s.SampleCCU(c.Context())
	if err != nil {
		log.Printf("❌ Roblox CCU cron failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch CCU"})
	}
	return c.JSON(fiber.Map{
		"success":   true,
		"ccu":       ccu,
		"place_id":  s.PlaceID,
		"timestamp": time.Now().UTC(),
	})
}
