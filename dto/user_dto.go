package dto

import (
	"fmt"
	"net/mail"

	"realestate-listing/models"
)

const maxPhoneNumberLength = 17

type RegisterUserInput struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

// Validate はフィールドごとのエラーメッセージをフラットなリストで返す
func (in RegisterUserInput) Validate() []string {
	var errs []string
	if in.Email == "" {
		errs = append(errs, "email field is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, "email field must be a valid email address")
	}
	if in.Password == "" {
		errs = append(errs, "password field is required")
	} else if len(in.Password) < 8 {
		errs = append(errs, "password field must be at least 8 characters")
	}
	if in.FirstName == "" {
		errs = append(errs, "first_name field is required")
	}
	if in.LastName == "" {
		errs = append(errs, "last_name field is required")
	}
	if len(in.PhoneNumber) > maxPhoneNumberLength {
		errs = append(errs, fmt.Sprintf("phone_number field may not be longer than %d characters", maxPhoneNumberLength))
	}
	return errs
}

type UpdateUserInput struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Address     *string `json:"address"`
	PhoneNumber *string `json:"phone_number"`
}

func (in UpdateUserInput) Validate() []string {
	var errs []string
	if in.PhoneNumber != nil && len(*in.PhoneNumber) > maxPhoneNumberLength {
		errs = append(errs, fmt.Sprintf("phone_number field may not be longer than %d characters", maxPhoneNumberLength))
	}
	return errs
}

type UserResponse struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
	LoginCount  uint   `json:"login_count"`
}

// UserListItem は一覧用。login_count は含めない
type UserListItem struct {
	ID          uint   `json:"id"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
		LoginCount:  user.LoginCount,
	}
}

func NewUserListItem(user *models.User) UserListItem {
	return UserListItem{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Address:     user.Address,
		PhoneNumber: user.PhoneNumber,
	}
}
