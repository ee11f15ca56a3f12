// models/team.go
package models

import (
	"time"

	"capboard/scoring"
)

type Team struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null;size:100"`
	Icon      string          `json:"icon" gorm:"size:50"`
	Score     int             `json:"score" gorm:"default:0;index"`
	History   scoring.History `json:"history" gorm:"type:text"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// Ledger snapshots the team for the scoring package.
func (t *Team) Ledger() scoring.TeamLedger {
	return scoring.TeamLedger{
		ID:      t.ID,
		Name:    t.Name,
		Icon:    t.Icon,
		Score:   t.Score,
		History: t.History,
	}
}
