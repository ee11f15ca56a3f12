// services/reason_service.go - Reason Catalog Business Logic
package services

import (
	"errors"
	"strings"

	"capboard/models"

	"gorm.io/gorm"
)

// ErrDuplicateReason rejects a catalog entry whose name collides with
// an existing one, ignoring case.
var ErrDuplicateReason = errors.New("a reason with this name already exists")

type ReasonService struct {
	db *gorm.DB
}

func NewReasonService(db *gorm.DB) *ReasonService {
	return &ReasonService{db: db}
}

// ListReasons returns the full catalog.
func (s *ReasonService) ListReasons() ([]models.Reason, error) {
	var reasons []models.Reason
	err := s.db.Order("id").Find(&reasons).Error
	return reasons, err
}

// GetReason retrieves one catalog entry by ID.
func (s *ReasonService) GetReason(id uint) (*models.Reason, error) {
	var reason models.Reason
	if err := s.db.First(&reason, id).Error; err != nil {
		return nil, err
	}
	return &reason, nil
}

// CreateReason adds a catalog entry after the duplicate-name check.
func (s *ReasonService) CreateReason(text, description string, points int, capType string) (*models.Reason, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("reason text is required")
	}

	if taken, err := s.nameTaken(text, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateReason
	}

	reason := &models.Reason{
		Reason:      strings.TrimSpace(text),
		Description: description,
		Points:      points,
		CapType:     capType,
	}

	if err := s.db.Create(reason).Error; err != nil {
		return nil, err
	}
	return reason, nil
}

// UpdateReason edits a catalog entry. Renames run the duplicate check
// against every other entry.
func (s *ReasonService) UpdateReason(id uint, text, description string, points int, capType string) (*models.Reason, error) {
	reason, err := s.GetReason(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(text) == "" {
		return nil, errors.New("reason text is required")
	}

	if taken, err := s.nameTaken(text, id); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateReason
	}

	reason.Reason = strings.TrimSpace(text)
	reason.Description = description
	reason.Points = points
	reason.CapType = capType

	if err := s.db.Save(reason).Error; err != nil {
		return nil, err
	}
	return reason, nil
}

// DeleteReason removes a catalog entry. Recorded team history keeps the
// reason string and is untouched.
func (s *ReasonService) DeleteReason(id uint) error {
	result := s.db.Delete(&models.Reason{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *ReasonService) nameTaken(text string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&models.Reason{}).
		Where("LOWER(reason) = ?", strings.ToLower(strings.TrimSpace(text)))
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
