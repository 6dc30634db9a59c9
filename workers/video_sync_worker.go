// workers/video_sync_worker.go
package workers

import (
	"context"
	"log"
	"time"

	"creator-rewards-system/models"
	"creator-rewards-system/services"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VideoFetcher supplies a channel's current videos from its platform.
// Concrete fetchers (YouTube, TikTok) are injected at construction — there
// is no global provider registry.
type VideoFetcher interface {
	FetchChannelVideos(ctx context.Context, channel models.Channel) ([]services.PlatformVideo, error)
}

type VideoSyncWorker struct {
	db          *gorm.DB
	eligibility *services.EligibilityService
	fetchers    map[models.Platform]VideoFetcher
	interval    time.Duration
	sched       gocron.Scheduler
}

func NewVideoSyncWorker(db *gorm.DB, eligibilitySvc *services.EligibilityService, fetchers map[models.Platform]VideoFetcher, interval time.Duration) *VideoSyncWorker {
	return &VideoSyncWorker{
		db:          db,
		eligibility: eligibilitySvc,
		fetchers:    fetchers,
		interval:    interval,
	}
}

// Start schedules the periodic sync.
func (w *VideoSyncWorker) Start() {
	sched, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("❌ [SYNC] Failed to create scheduler: %v", err)
		return
	}
	w.sched = sched
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			if _, _, err := w.SyncAll(context.Background()); err != nil {
				log.Printf("❌ [SYNC] Scheduled sync failed: %v", err)
			}
		}),
	)
	log.Printf("🔁 [SYNC] Video sync scheduled every %s", w.interval)
}

// Stop shuts the scheduler down.
func (w *VideoSyncWorker) Stop() {
	if w.sched != nil {
		_ = w.sched.Shutdown()
	}
}

// SyncAll pulls every channel's videos from its platform, upserts them by
// (platform, external_video_id) and then recomputes eligibility over the
// whole corpus — the daily cap is a function of each channel's full day, so
// partial recomputes are never persisted. Per-channel and per-video
// failures are counted and skipped, never abort the pass.
func (w *VideoSyncWorker) SyncAll(ctx context.Context) (synced, errored int, err error) {
	var channels []models.Channel
	if err := w.db.Find(&channels).Error; err != nil {
		return 0, 0, err
	}

	log.Printf("[SYNC] 📡 Syncing %d channel(s)…", len(channels))

	for _, channel := range channels {
		fetcher, ok := w.fetchers[channel.Platform]
		if !ok {
			log.Printf("[SYNC] ⚠️ No fetcher configured for platform %s, skipping channel %s", channel.Platform, channel.ID)
			continue
		}

		videos, err := fetcher.FetchChannelVideos(ctx, channel)
		if err != nil {
			errored++
			log.Printf("[SYNC] ⚠️ Fetch failed for channel %s (%s): %v", channel.ID, channel.Platform, err)
			continue
		}

		for _, pv := range videos {
			row := models.Video{
				ID:              uuid.NewString(),
				ChannelID:       channel.ID,
				Platform:        channel.Platform,
				ExternalVideoID: pv.ExternalID,
				Title:           pv.Title,
				URL:             pv.URL,
				ThumbnailURL:    pv.ThumbnailURL,
				PublishedAt:     pv.PublishedAt,
				DurationSeconds: pv.DurationSeconds,
				Views:           pv.Views,
				LastSyncedAt:    time.Now().UTC(),
			}
			if pv.Description != "" {
				description := pv.Description
				row.Description = &description
			}

			if err := w.db.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "platform"}, {Name: "external_video_id"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"title", "description", "url", "thumbnail_url",
					"published_at", "duration_seconds", "views",
					"last_synced_at", "updated_at",
				}),
			}).Create(&row).Error; err != nil {
				errored++
				log.Printf("[SYNC] ⚠️ Failed to upsert video (external_id=%q): %v", pv.ExternalID, err)
				continue
			}
			synced++
		}
	}

	if _, failed, err := w.eligibility.RecomputeAll(); err != nil {
		log.Printf("[SYNC] ❌ Post-sync recompute failed: %v", err)
		return synced, errored, err
	} else if failed > 0 {
		errored += failed
	}

	log.Printf("[SYNC] ✅ Synced %d video(s) across %d channel(s), %d error(s)", synced, len(channels), errored)
	return synced, errored, nil
}
