package dto

// ===========================================================================
// Auth Requests
// Các command nghiệp vụ nằm trong package services, ở đây chỉ còn body của auth
// ===========================================================================

// LoginRequest body cho đăng nhập, Login là email hoặc số điện thoại
type LoginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// RefreshRequest body cho refresh token (client không dùng cookie)
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}
