package services

import (
	"errors"

	"gorm.io/gorm"

	"realestate-listing/constants"
	"realestate-listing/dto"
	"realestate-listing/models"
	"realestate-listing/repositories"
)

var ErrUserNotFound = errors.New(constants.ErrUserNotFound)

type IUserService interface {
	FindAll() (*[]models.User, error)
	FindById(userID uint) (*models.User, error)
	Update(userID uint, input dto.UpdateUserInput) (*models.User, error)
}

type UserService struct {
	repository repositories.IAuthRepository
}

func NewUserService(repository repositories.IAuthRepository) IUserService {
	return &UserService{repository: repository}
}

func (s *UserService) FindAll() (*[]models.User, error) {
	return s.repository.FindAllUsers()
}

func (s *UserService) FindById(userID uint) (*models.User, error) {
	user, err := s.repository.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) Update(userID uint, input dto.UpdateUserInput) (*models.User, error) {
	updates := map[string]interface{}{}
	if input.FirstName != nil {
		updates["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		updates["last_name"] = *input.LastName
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.PhoneNumber != nil {
		updates["phone_number"] = *input.PhoneNumber
	}
	if len(updates) == 0 {
		return s.FindById(userID)
	}

	user, err := s.repository.UpdateUser(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}
