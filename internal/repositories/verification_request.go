package repositories

import (
	"errors"

	"tavara/internal/models"

	"gorm.io/gorm"
)

var (
	ErrRequestNotFound = errors.New("verification request not found")
	// ErrDuplicatePending surfaces the partial unique index on
	// (agency_id) WHERE status = 'pending' losing a race.
	ErrDuplicatePending = errors.New("agency already has a pending request")
)

// VerificationRequestRepository is the append-style history of credential
// submissions. Rows are inserted, read, and decided exactly once; nothing is
// ever deleted.
type VerificationRequestRepository interface {
	Create(req *models.VerificationRequest) error
	GetByID(id uint) (*models.VerificationRequest, error)
	LatestByAgency(agencyID uint) (*models.VerificationRequest, error)
	LatestApprovedByAgency(agencyID uint) (*models.VerificationRequest, error)
	ListByAgency(agencyID uint, offset, limit int) ([]models.VerificationRequest, int64, error)
	ListPending(offset, limit int) ([]models.VerificationRequest, int64, error)
	CountByStatus() (map[string]int64, error)

	// Decide applies the admin decision to a request and the matching trust
	// record patch to its agency in one transaction. The request update is
	// conditional on status still being pending; when that precondition
	// fails, Decide returns zero affected rows and writes nothing at all.
	Decide(requestID uint, requestPatch map[string]interface{}, agencyID uint, agencyPatch map[string]interface{}) (int64, error)
}

type verificationRequestRepository struct {
	db *gorm.DB
}

func NewVerificationRequestRepository(db *gorm.DB) VerificationRequestRepository {
	return &verificationRequestRepository{db: db}
}

func (r *verificationRequestRepository) Create(req *models.VerificationRequest) error {
	err := r.db.Create(req).Error
	// The only realistic unique collision is the pending-per-agency index;
	// references are uuids.
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicatePending
	}
	return err
}

func (r *verificationRequestRepository) GetByID(id uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	if err := r.db.First(&req, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *verificationRequestRepository) LatestByAgency(agencyID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.Where("agency_id = ?", agencyID).
		Order("created_at DESC, id DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *verificationRequestRepository) LatestApprovedByAgency(agencyID uint) (*models.VerificationRequest, error) {
	var req models.VerificationRequest
	err := r.db.Where("agency_id = ? AND status = ?", agencyID, models.RequestApproved).
		Order("reviewed_at DESC, id DESC").
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, err
	}
	return &req, nil
}

func (r *verificationRequestRepository) ListByAgency(agencyID uint, offset, limit int) ([]models.VerificationRequest, int64, error) {
	var reqs []models.VerificationRequest
	var total int64

	q := r.db.Model(&models.VerificationRequest{}).Where("agency_id = ?", agencyID)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *verificationRequestRepository) ListPending(offset, limit int) ([]models.VerificationRequest, int64, error) {
	var reqs []models.VerificationRequest
	var total int64

	q := r.db.Model(&models.VerificationRequest{}).Where("status = ?", models.RequestPending)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("submitted_at ASC").Offset(offset).Limit(limit).Find(&reqs).Error
	return reqs, total, err
}

func (r *verificationRequestRepository) CountByStatus() (map[string]int64, error) {
	type row struct {
		Status string
		Count  int64
	}
	var rows []row
	err := r.db.Model(&models.VerificationRequest{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, rw := range rows {
		counts[rw.Status] = rw.Count
	}
	return counts, nil
}

func (r *verificationRequestRepository) Decide(requestID uint, requestPatch map[string]interface{}, agencyID uint, agencyPatch map[string]interface{}) (int64, error) {
	var affected int64

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.VerificationRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestPending).
			Updates(requestPatch)
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		if affected == 0 {
			// Someone else decided it first; leave everything untouched.
			return nil
		}

		if len(agencyPatch) == 0 {
			return nil
		}
		return tx.Model(&models.Agency{}).
			Where("id = ?", agencyID).
			Updates(agencyPatch).Error
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}
