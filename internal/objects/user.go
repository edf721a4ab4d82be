package objects

// UserInfo is the wire shape of a user returned by auth and user endpoints.
type UserInfo struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Role     string  `json:"role"`
	TenantID *string `json:"tenantId"`
	Status   string  `json:"status"`
}

// SignInResult is returned by the OTP verification endpoint.
type SignInResult struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}
