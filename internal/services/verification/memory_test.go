package verification

import (
	"sort"
	"sync"
	"time"

	"tavara/internal/models"
	"tavara/internal/repositories"
)

// In-memory stores backing the service tests. They share one locked dataset
// so Decide can apply both patches atomically, mirroring the SQL transaction.
type memDB struct {
	mu        sync.Mutex
	requests  map[uint]*models.VerificationRequest
	agencies  map[uint]*models.Agency
	nextReqID uint
}

func newMemDB() *memDB {
	return &memDB{
		requests: make(map[uint]*models.VerificationRequest),
		agencies: make(map[uint]*models.Agency),
	}
}

func (db *memDB) addAgency(a models.Agency) *models.Agency {
	db.mu.Lock()
	defer db.mu.Unlock()
	cp := a
	db.agencies[cp.ID] = &cp
	return &cp
}

type memRequests struct{ db *memDB }

func (m *memRequests) Create(req *models.VerificationRequest) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	// Mirror of the pending-per-agency unique index.
	if req.Status == models.RequestPending {
		for _, existing := range m.db.requests {
			if existing.AgencyID == req.AgencyID && existing.Status == models.RequestPending {
				return repositories.ErrDuplicatePending
			}
		}
	}
	m.db.nextReqID++
	req.ID = m.db.nextReqID
	req.CreatedAt = req.SubmittedAt
	cp := *req
	m.db.requests[req.ID] = &cp
	return nil
}

func (m *memRequests) GetByID(id uint) (*models.VerificationRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	req, ok := m.db.requests[id]
	if !ok {
		return nil, repositories.ErrRequestNotFound
	}
	cp := *req
	return &cp, nil
}

func (m *memRequests) byAgency(agencyID uint) []*models.VerificationRequest {
	var out []*models.VerificationRequest
	for _, req := range m.db.requests {
		if req.AgencyID == agencyID {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memRequests) LatestByAgency(agencyID uint) (*models.VerificationRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	reqs := m.byAgency(agencyID)
	if len(reqs) == 0 {
		return nil, repositories.ErrRequestNotFound
	}
	cp := *reqs[0]
	return &cp, nil
}

func (m *memRequests) LatestApprovedByAgency(agencyID uint) (*models.VerificationRequest, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, req := range m.byAgency(agencyID) {
		if req.Status == models.RequestApproved {
			cp := *req
			return &cp, nil
		}
	}
	return nil, repositories.ErrRequestNotFound
}

func (m *memRequests) ListByAgency(agencyID uint, offset, limit int) ([]models.VerificationRequest, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	reqs := m.byAgency(agencyID)
	out := make([]models.VerificationRequest, 0, len(reqs))
	for _, req := range reqs {
		out = append(out, *req)
	}
	return out, int64(len(out)), nil
}

func (m *memRequests) ListPending(offset, limit int) ([]models.VerificationRequest, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.VerificationRequest
	for _, req := range m.db.requests {
		if req.Status == models.RequestPending {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SubmittedAt.Before(out[j].SubmittedAt) })
	return out, int64(len(out)), nil
}

func (m *memRequests) CountByStatus() (map[string]int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	counts := make(map[string]int64)
	for _, req := range m.db.requests {
		counts[req.Status]++
	}
	return counts, nil
}

func (m *memRequests) Decide(requestID uint, requestPatch map[string]interface{}, agencyID uint, agencyPatch map[string]interface{}) (int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()

	req, ok := m.db.requests[requestID]
	if !ok || req.Status != models.RequestPending {
		return 0, nil
	}
	applyRequestPatch(req, requestPatch)

	if agency, ok := m.db.agencies[agencyID]; ok {
		applyAgencyPatch(agency, agencyPatch)
	}
	return 1, nil
}

type memAgencies struct{ db *memDB }

func (m *memAgencies) Create(agency *models.Agency) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *agency
	m.db.agencies[agency.ID] = &cp
	return nil
}

func (m *memAgencies) GetByID(id uint) (*models.Agency, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	agency, ok := m.db.agencies[id]
	if !ok {
		return nil, repositories.ErrAgencyNotFound
	}
	cp := *agency
	return &cp, nil
}

func (m *memAgencies) GetByUserID(userID uint) (*models.Agency, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, agency := range m.db.agencies {
		if agency.UserID == userID {
			cp := *agency
			return &cp, nil
		}
	}
	return nil, repositories.ErrAgencyNotFound
}

func (m *memAgencies) Update(agency *models.Agency) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	cp := *agency
	m.db.agencies[agency.ID] = &cp
	return nil
}

func (m *memAgencies) UpdateTrustRecord(agencyID uint, patch map[string]interface{}) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	agency, ok := m.db.agencies[agencyID]
	if !ok {
		return repositories.ErrAgencyNotFound
	}
	applyAgencyPatch(agency, patch)
	return nil
}

func (m *memAgencies) ListApproved(offset, limit int) ([]models.Agency, int64, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Agency
	for _, agency := range m.db.agencies {
		if agency.IsVerified {
			out = append(out, *agency)
		}
	}
	return out, int64(len(out)), nil
}

func (m *memAgencies) ListApprovedIDs() ([]uint, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var ids []uint
	for _, agency := range m.db.agencies {
		if agency.IsVerified {
			ids = append(ids, agency.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func applyRequestPatch(req *models.VerificationRequest, patch map[string]interface{}) {
	for key, val := range patch {
		switch key {
		case "status":
			req.Status = val.(string)
		case "reviewed_at":
			t := val.(time.Time)
			req.ReviewedAt = &t
		case "reviewed_by":
			id := val.(uint)
			req.ReviewedBy = &id
		case "rejection_reason":
			req.RejectionReason = val.(string)
		case "admin_notes":
			req.AdminNotes = val.(string)
		}
	}
}

func applyAgencyPatch(agency *models.Agency, patch map[string]interface{}) {
	for key, val := range patch {
		switch key {
		case "is_verified":
			agency.IsVerified = val.(bool)
		case "verification_status":
			agency.VerificationStatus = val.(string)
		case "license_number":
			agency.LicenseNumber = val.(string)
		case "license_expiry":
			t := val.(time.Time)
			agency.LicenseExpiry = &t
		case "license_status":
			agency.LicenseStatus = val.(string)
		case "verified_at":
			if val == nil {
				agency.VerifiedAt = nil
			} else {
				t := val.(time.Time)
				agency.VerifiedAt = &t
			}
		}
	}
}
