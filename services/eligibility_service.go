// services/eligibility_service.go
package services

import (
	"errors"
	"log"
	"time"

	"creator-rewards-system/eligibility"
	"creator-rewards-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EligibilityService runs the pure engine over persisted videos and writes
// the verdicts back, one VideoEligibility row per video.
type EligibilityService struct {
	DB *gorm.DB
}

func NewEligibilityService(db *gorm.DB) *EligibilityService {
	return &EligibilityService{DB: db}
}

func buildInputs(videos []models.Video) []eligibility.VideoInput {
	inputs := make([]eligibility.VideoInput, 0, len(videos))
	for _, v := range videos {
		inputs = append(inputs, eligibility.NewInput(v))
	}
	return inputs
}

// persistVerdicts upserts verdicts keyed by video id. Only the rule-computed
// columns are written on conflict, so admin override columns survive every
// recomputation. A failed write is logged and counted, never aborts the rest
// of the batch.
func (s *EligibilityService) persistVerdicts(results map[string]eligibility.Result) (updated, failed int) {
	for videoID, result := range results {
		row := models.VideoEligibility{
			VideoID:       videoID,
			IsEligible:    result.IsEligible,
			Reasons:       result.Reasons,
			EligibleRobux: result.EligibleRobux,
		}

		if err := s.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "video_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"is_eligible", "reasons", "eligible_robux", "updated_at",
			}),
		}).Create(&row).Error; err != nil {
			failed++
			log.Printf("[ELIGIBILITY] ⚠️ Failed to upsert verdict (video_id=%q): %v", videoID, err)
			continue
		}
		updated++
	}
	return updated, failed
}

// RecomputeAll reprocesses the entire video corpus. The sync job calls this
// after every sync pass so daily-cap buckets always see each channel's full
// history.
func (s *EligibilityService) RecomputeAll() (updated, failed int, err error) {
	var videos []models.Video
	if err := s.DB.Preload("Eligibility").Find(&videos).Error; err != nil {
		return 0, 0, err
	}

	results := eligibility.CheckVideos(buildInputs(videos))
	updated, failed = s.persistVerdicts(results)
	log.Printf("[ELIGIBILITY] ✅ Recomputed %d verdict(s) (%d updated, %d errors)", len(results), updated, failed)
	return updated, failed, nil
}

// RecomputeParticipant reprocesses one participant's entire video history
// across all their channels. Returns the computed verdict map so read paths
// can serve fresh results without a second query.
func (s *EligibilityService) RecomputeParticipant(participantID string) (map[string]eligibility.Result, error) {
	var count int64
	if err := s.DB.Model(&models.Participant{}).Where("id = ?", participantID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	var videos []models.Video
	if err := s.DB.Preload("Eligibility").
		Where("channel_id IN (?)", s.DB.Model(&models.Channel{}).Select("id").Where("participant_id = ?", participantID)).
		Find(&videos).Error; err != nil {
		return nil, err
	}

	results := eligibility.CheckVideos(buildInputs(videos))
	if _, failed := s.persistVerdicts(results); failed > 0 {
		log.Printf("[ELIGIBILITY] ⚠️ Participant %s recompute finished with %d write error(s)", participantID, failed)
	}
	return results, nil
}

// Override forces a verdict for one video, bypassing the rules until
// cleared. The forced verdict is sticky: later recomputations keep it.
// Custom reasons are not: the next recompute replaces them with the
// canonical "(admin override)" string, since only the verdict survives
// through the override columns.
func (s *EligibilityService) Override(videoID string, isEligible bool, reasons []string, who string) (*models.VideoEligibility, error) {
	var video models.Video
	if err := s.DB.First(&video, "id = ?", videoID).Error; err != nil {
		return nil, err
	}

	if len(reasons) == 0 {
		if isEligible {
			reasons = []string{"Eligible (admin override)"}
		} else {
			reasons = []string{"Not eligible (admin override)"}
		}
	}

	robux := 0
	if isEligible {
		robux = eligibility.RobuxPerEligibleVideo
	}

	now := time.Now().UTC()
	row := models.VideoEligibility{
		VideoID:           videoID,
		IsEligible:        isEligible,
		Reasons:           reasons,
		EligibleRobux:     robux,
		OverriddenByAdmin: true,
		OverriddenBy:      &who,
		OverriddenAt:      &now,
	}

	if err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "video_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"is_eligible", "reasons", "eligible_robux",
			"overridden_by_admin", "overridden_by", "overridden_at", "updated_at",
		}),
	}).Create(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// ClearOverride removes the admin override from a video and falls back to a
// fresh rule evaluation over the owning participant's full scope.
func (s *EligibilityService) ClearOverride(videoID string) error {
	var video models.Video
	if err := s.DB.First(&video, "id = ?", videoID).Error; err != nil {
		return err
	}

	if err := s.DB.Model(&models.VideoEligibility{}).
		Where("video_id = ?", videoID).
		Updates(map[string]interface{}{
			"overridden_by_admin": false,
			"overridden_by":       nil,
			"overridden_at":       nil,
		}).Error; err != nil {
		return err
	}

	var channel models.Channel
	if err := s.DB.First(&channel, "id = ?", video.ChannelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Orphaned video: fall back to a corpus-wide recompute.
			_, _, err := s.RecomputeAll()
			return err
		}
		return err
	}

	_, err := s.RecomputeParticipant(channel.ParticipantID)
	return err
}
