package dto

// LoginRequest captures operator credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse contains the issued access token.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// CreateOperatorRequest is used by the CLI to provision staff accounts.
type CreateOperatorRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// OperatorResponse represents operator data returned to clients.
type OperatorResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
