package agency

import (
	"context"
	"errors"
	"log"

	"tavara/internal/models"
	"tavara/internal/repositories"
)

type Service struct {
	agencies repositories.AgencyRepository
}

func NewService(agencies repositories.AgencyRepository) *Service {
	return &Service{agencies: agencies}
}

// CreateProfile sets up the agency profile for an account. The trust record
// starts unverified; only the verification workflow ever changes it.
func (s *Service) CreateProfile(ctx context.Context, userID uint, input CreateAgencyInput) (*models.Agency, error) {
	log.Printf("Creating agency profile for user ID: %d", userID)

	existing, err := s.agencies.GetByUserID(userID)
	if err != nil && !errors.Is(err, repositories.ErrAgencyNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, ErrProfileExists
	}

	agency := &models.Agency{
		UserID:             userID,
		Name:               input.Name,
		Description:        input.Description,
		City:               input.City,
		State:              input.State,
		Website:            input.Website,
		ContactEmail:       input.ContactEmail,
		ContactPhone:       input.ContactPhone,
		Status:             "active",
		VerificationStatus: models.AgencyUnverified,
	}
	if err := s.agencies.Create(agency); err != nil {
		return nil, err
	}
	return agency, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID uint) (*models.Agency, error) {
	agency, err := s.agencies.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrAgencyNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return agency, nil
}

func (s *Service) GetByID(ctx context.Context, id uint) (*models.Agency, error) {
	agency, err := s.agencies.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrAgencyNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return agency, nil
}

// UpdateProfile edits the public profile fields. Verification and license
// fields are deliberately not reachable from here.
func (s *Service) UpdateProfile(ctx context.Context, userID uint, input UpdateAgencyInput) (*models.Agency, error) {
	agency, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	agency.Name = input.Name
	agency.Description = input.Description
	agency.City = input.City
	agency.State = input.State
	agency.Website = input.Website
	agency.ContactEmail = input.ContactEmail
	agency.ContactPhone = input.ContactPhone
	agency.LogoURL = input.LogoURL

	if err := s.agencies.Update(agency); err != nil {
		return nil, err
	}
	return agency, nil
}

// Directory lists verified agencies for the public listing pages.
func (s *Service) Directory(ctx context.Context, offset, limit int) ([]models.Agency, int64, error) {
	return s.agencies.ListApproved(offset, limit)
}
