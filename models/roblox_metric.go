package models

import "time"

// RobloxMetric is one timestamped sample of the live player count for the
// program's Roblox place. Append-only.
type RobloxMetric struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CCU       int       `gorm:"not null;default:0" json:"ccu"`
	PlaceID   *string   `json:"place_id,omitempty"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
