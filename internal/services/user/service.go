package user

import (
	"errors"

	"tavara/internal/models"
	"tavara/internal/repositories"
	"tavara/internal/validation"

	"golang.org/x/crypto/bcrypt"
)

type Service interface {
	GetByID(id uint) (*models.User, error)
	Create(input *models.CreateUserInput) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, int64, error)
}

type service struct {
	repo repositories.UserRepository
}

func NewService(repo repositories.UserRepository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetByID(id uint) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *service) Create(input *models.CreateUserInput) (*models.User, error) {
	v := validation.New()
	v.UserRegistration(input)
	if !v.Valid() {
		return nil, errors.New(v.First())
	}

	existing, _ := s.repo.GetByEmail(input.Email)
	if existing != nil {
		return nil, errors.New("user with this email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	// Admin accounts only come from the seed tool.
	role := input.Role
	switch role {
	case "":
		role = "traveler"
	case "traveler", "agency":
	default:
		return nil, errors.New("role must be traveler or agency")
	}

	user := &models.User{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: string(hashedPassword),
		Role:     role,
		Status:   "active",
	}

	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Update(user *models.User) error {
	return s.repo.Update(user)
}

func (s *service) Delete(id uint) error {
	return s.repo.Delete(id)
}

func (s *service) List(offset, limit int) ([]models.User, int64, error) {
	return s.repo.List(offset, limit)
}
