package dto

import "net/mail"

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (in LoginInput) Validate() []string {
	var errs []string
	if in.Email == "" {
		errs = append(errs, "email field is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		errs = append(errs, "email field must be a valid email address")
	}
	if in.Password == "" {
		errs = append(errs, "password field is required")
	}
	return errs
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Token TokenPair    `json:"token"`
	User  UserResponse `json:"user"`
}

type RefreshTokenInput struct {
	Refresh string `json:"refresh" binding:"required"`
}

type VerifyTokenInput struct {
	Token string `json:"token" binding:"required"`
}
