package service

// Services 聚合全部业务服务，供路由与 handler 注入
type Services struct {
	Settings *SettingsService
	Images   *ImageService
	Votes    *VoteService
	Comments *CommentService
	Users    *UserService
	Auth     *AuthService
	Captcha  *CaptchaService
	Stats    *StatService
}

func NewServices(
	settings *SettingsService,
	images *ImageService,
	votes *VoteService,
	comments *CommentService,
	users *UserService,
	auth *AuthService,
	captcha *CaptchaService,
	stats *StatService,
) *Services {
	return &Services{
		Settings: settings,
		Images:   images,
		Votes:    votes,
		Comments: comments,
		Users:    users,
		Auth:     auth,
		Captcha:  captcha,
		Stats:    stats,
	}
}
