// models/reason.go
package models

import "time"

// Reason is a catalog entry teams can earn points for. Reason text is
// unique case-insensitively; CapType tags which cap's teams may use it
// and defaults to the lowest earnable cap when empty. Team history
// stores the reason string itself, so deleting a catalog row never
// rewrites recorded history.
type Reason struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Reason      string    `json:"reason" gorm:"not null;size:200;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	Points      int       `json:"points" gorm:"default:0"`
	CapType     string    `json:"cap_type" gorm:"size:20"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Reason) TableName() string {
	return "reasons"
}
