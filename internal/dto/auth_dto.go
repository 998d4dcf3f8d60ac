package dto

type LoginRequest struct {
	Username string `form:"username" json:"username" binding:"required"`
	Password string `form:"password" json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username        string `form:"username" json:"username" binding:"required"`
	Password        string `form:"password" json:"password" binding:"required"`
	PasswordConfirm string `form:"password_confirm" json:"password_confirm"`
	Email           string `form:"email" json:"email" binding:"omitempty,email"`
	CaptchaID       string `form:"captcha_id" json:"captcha_id"`
	CaptchaAnswer   string `form:"captcha_answer" json:"captcha_answer"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
	Username  string `json:"username"`
	Admin     bool   `json:"admin"`
}
