package model

type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignUpRequest only checks presence at binding time. Email format and
// password policy are enforced by the auth service after the duplicate check.
type SignUpRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     Role   `json:"role"`
}

type SignInResponse struct {
	User  *AdminUser `json:"user"`
	Token string     `json:"token"`
}

type UserResponse struct {
	User *AdminUser `json:"user"`
}
