package repositories

import (
	"errors"

	"tavara/internal/models"

	"gorm.io/gorm"
)

var ErrAgencyNotFound = errors.New("agency not found")

// AgencyRepository is the store behind agency profiles and their trust
// records. UpdateTrustRecord is the only write path for the verification
// fields; profile edits go through Update and never touch them.
type AgencyRepository interface {
	Create(agency *models.Agency) error
	GetByID(id uint) (*models.Agency, error)
	GetByUserID(userID uint) (*models.Agency, error)
	Update(agency *models.Agency) error
	UpdateTrustRecord(agencyID uint, patch map[string]interface{}) error
	ListApproved(offset, limit int) ([]models.Agency, int64, error)
	ListApprovedIDs() ([]uint, error)
}

type agencyRepository struct {
	db *gorm.DB
}

func NewAgencyRepository(db *gorm.DB) AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(agency *models.Agency) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(agency).Error; err != nil {
			return err
		}
		// Link the owning account to its agency profile.
		return tx.Model(&models.User{}).
			Where("id = ?", agency.UserID).
			Update("agency_id", agency.ID).Error
	})
}

func (r *agencyRepository) GetByID(id uint) (*models.Agency, error) {
	var agency models.Agency
	if err := r.db.First(&agency, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return &agency, nil
}

func (r *agencyRepository) GetByUserID(userID uint) (*models.Agency, error) {
	var agency models.Agency
	if err := r.db.Where("user_id = ?", userID).First(&agency).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAgencyNotFound
		}
		return nil, err
	}
	return &agency, nil
}

func (r *agencyRepository) Update(agency *models.Agency) error {
	if agency.ID == 0 {
		return errors.New("cannot update agency with ID 0")
	}
	return r.db.Model(&models.Agency{}).Where("id = ?", agency.ID).Updates(map[string]interface{}{
		"name":          agency.Name,
		"description":   agency.Description,
		"city":          agency.City,
		"state":         agency.State,
		"website":       agency.Website,
		"contact_email": agency.ContactEmail,
		"contact_phone": agency.ContactPhone,
		"logo_url":      agency.LogoURL,
	}).Error
}

func (r *agencyRepository) UpdateTrustRecord(agencyID uint, patch map[string]interface{}) error {
	result := r.db.Model(&models.Agency{}).Where("id = ?", agencyID).Updates(patch)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAgencyNotFound
	}
	return nil
}

// ListApproved pages over verified agencies. The filter is is_verified, not
// verification_status: a verified agency with a renewal in the queue has
// status pending while its approved license still governs, and it must stay
// listed.
func (r *agencyRepository) ListApproved(offset, limit int) ([]models.Agency, int64, error) {
	var agencies []models.Agency
	var total int64

	q := r.db.Model(&models.Agency{}).Where("is_verified = ?", true)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("verified_at DESC").Offset(offset).Limit(limit).Find(&agencies).Error
	return agencies, total, err
}

func (r *agencyRepository) ListApprovedIDs() ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.Agency{}).
		Where("is_verified = ?", true).
		Pluck("id", &ids).Error
	return ids, err
}
