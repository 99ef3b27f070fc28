package services

import "strings"

type SignupRequest struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	Name            string `json:"name" validate:"omitempty,max=64"`
	ConfirmPassword string `json:"confirmPassword" validate:"omitempty,eqfield=Password"`
}

type SigninRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// ValidationMessage keeps signin failures from telling which field was wrong.
func (SigninRequest) ValidationMessage(field, tag string) (string, bool) {
	return "email or password is incorrect", true
}

type SigninResult struct {
	UserID string
	Token  string
}

// NormalizeEmail is applied to every address before it is stored or looked up.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
