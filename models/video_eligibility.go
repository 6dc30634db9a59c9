package models

import "time"

// VideoEligibility is the computed verdict for one video — exactly one row
// per video, replaced (never appended) on recomputation.
//
// The admin override is a tri-state stored alongside the rule-computed
// fields: OverriddenByAdmin=false means unset; when true, IsEligible holds
// the forced verdict and recomputation must preserve it until the override
// is explicitly cleared.
type VideoEligibility struct {
	ID            string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	VideoID       string   `gorm:"uniqueIndex;not null" json:"video_id"`
	IsEligible    bool     `gorm:"not null;index" json:"is_eligible"`
	Reasons       []string `gorm:"serializer:json;type:jsonb;not null" json:"reasons"`
	EligibleRobux int      `gorm:"not null;default:0" json:"eligible_robux"`

	OverriddenByAdmin bool       `gorm:"not null;default:false" json:"overridden_by_admin"`
	OverriddenBy      *string    `json:"overridden_by,omitempty"`
	OverriddenAt      *time.Time `json:"overridden_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Override returns the tri-state admin override: nil when unset, otherwise
// a pointer to the forced verdict.
func (e *VideoEligibility) Override() *bool {
	if e == nil || !e.OverriddenByAdmin {
		return nil
	}
	forced := e.IsEligible
	return &forced
}
