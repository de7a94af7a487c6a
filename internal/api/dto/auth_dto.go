package dto

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ResetPasswordRequest payload for the direct reset endpoint.
type ResetPasswordRequest struct {
	Email       string `json:"email"`
	NewPassword string `json:"newpassword"`
}

// ResetRequestRequest payload for requesting an out-of-band reset token.
type ResetRequestRequest struct {
	Email string `json:"email"`
}

// ResetConfirmRequest payload for consuming a reset token.
type ResetConfirmRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newpassword"`
}

// ProfileResponse is the authenticated profile view.
type ProfileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
