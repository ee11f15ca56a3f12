// services/team_service.go - Leaderboard Business Logic
package services

import (
	"errors"
	"sort"
	"time"

	"capboard/models"
	"capboard/scoring"

	"gorm.io/gorm"
)

type TeamService struct {
	db     *gorm.DB
	scheme scoring.Scheme
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db, scheme: scoring.DefaultScheme()}
}

// Scheme exposes the cap ladder this board runs on.
func (s *TeamService) Scheme() scoring.Scheme {
	return s.scheme
}

// ================== TEAM CRUD OPERATIONS ==================

// ListTeams returns all teams in leaderboard order: score descending,
// ties broken by earlier last history update (teams with no history
// rank as oldest).
func (s *TeamService) ListTeams() ([]models.Team, error) {
	var teams []models.Team
	if err := s.db.Find(&teams).Error; err != nil {
		return nil, err
	}

	sort.SliceStable(teams, func(i, j int) bool {
		if teams[i].Score != teams[j].Score {
			return teams[i].Score > teams[j].Score
		}
		ti, iok := teams[i].History.LastUpdate()
		tj, jok := teams[j].History.LastUpdate()
		if iok != jok {
			return !iok
		}
		return ti.Before(tj)
	})

	return teams, nil
}

// GetTeam retrieves one team by ID.
func (s *TeamService) GetTeam(teamID uint) (*models.Team, error) {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		return nil, err
	}
	return &team, nil
}

// CreateTeam creates a team. A nonzero initial score is recorded as the
// team's first ledger event so the board stays explainable from day
// one.
func (s *TeamService) CreateTeam(name, icon string, initialScore int, reason string) (*models.Team, error) {
	if name == "" {
		return nil, errors.New("team name is required")
	}

	history := scoring.History{}
	if initialScore != 0 {
		if reason == "" {
			reason = "Initial Score"
		}
		var err error
		history, err = history.Append(initialScore, reason, time.Now())
		if err != nil {
			return nil, err
		}
	}

	team := &models.Team{
		Name:    name,
		Icon:    icon,
		Score:   initialScore,
		History: history,
	}

	if err := s.db.Create(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// UpdateTeam renames a team or changes its icon. Scores only move
// through AdjustPoints.
func (s *TeamService) UpdateTeam(teamID uint, name, icon string) (*models.Team, error) {
	team, err := s.GetTeam(teamID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		team.Name = name
	}
	if icon != "" {
		team.Icon = icon
	}

	if err := s.db.Save(team).Error; err != nil {
		return nil, err
	}
	return team, nil
}

// AdjustPoints appends exactly one ledger event and moves the cached
// score by delta in the same transaction. The cached score is the
// source of truth; history is the audit trail. The row is re-read
// inside the transaction, which narrows but does not eliminate the
// lost-update window between two simultaneous adjustments of the same
// team.
func (s *TeamService) AdjustPoints(teamID uint, delta int, reason string, at time.Time) (*models.Team, error) {
	var team models.Team

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, teamID).Error; err != nil {
			return err
		}

		history, err := team.History.Append(delta, reason, at)
		if err != nil {
			return err
		}

		team.History = history
		team.Score += delta
		return tx.Save(&team).Error
	})

	if err != nil {
		return nil, err
	}
	return &team, nil
}

// DeleteTeam removes a team and its entire history.
func (s *TeamService) DeleteTeam(teamID uint) error {
	result := s.db.Delete(&models.Team{}, teamID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ================== REASON FILTERING ==================

// AvailableReasons filters the catalog down to what the given team may
// claim next: entries tagged for the cap the team is chasing, minus
// reasons already present in the team's history (exact string match).
func (s *TeamService) AvailableReasons(team *models.Team, catalog []models.Reason) []models.Reason {
	target := s.scheme.Target(team.Score)
	used := team.History.UsedReasons()

	available := make([]models.Reason, 0, len(catalog))
	for _, r := range catalog {
		capTag := r.CapType
		if capTag == "" {
			capTag = s.scheme.DefaultReasonTag()
		}
		if capTag != target.Tag {
			continue
		}
		if used[r.Reason] {
			continue
		}
		available = append(available, r)
	}
	return available
}

// Ledgers snapshots teams for the scoring aggregator.
func Ledgers(teams []models.Team) []scoring.TeamLedger {
	out := make([]scoring.TeamLedger, len(teams))
	for i := range teams {
		out[i] = teams[i].Ledger()
	}
	return out
}
