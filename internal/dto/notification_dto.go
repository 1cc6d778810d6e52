package dto

type VerificationCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

type PasswordResetLinkRequest struct {
	Email string `json:"email" validate:"required,email"`
	Token string `json:"token" validate:"required,uuid"`
}

type WelcomeMessageRequest struct {
	Email string `json:"email" validate:"required,email"`
}
