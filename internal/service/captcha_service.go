package service

import (
	"picvote-server/internal/consts"
	"picvote-server/internal/utils"
)

type CaptchaService struct {
	captcha  *utils.Captcha
	settings *SettingsService
}

func NewCaptchaService(captcha *utils.Captcha, settings *SettingsService) *CaptchaService {
	return &CaptchaService{captcha: captcha, settings: settings}
}

// Enabled 注册是否需要验证码
func (s *CaptchaService) Enabled() bool {
	return s.settings.GetBool(consts.ConfigCaptchaEnabled)
}

// New 生成验证码，返回 id 和 base64 图片
func (s *CaptchaService) New() (string, string, error) {
	return s.captcha.Make()
}

// Verify 未开启验证码时直接通过
func (s *CaptchaService) Verify(id, answer string) bool {
	if !s.Enabled() {
		return true
	}
	return s.captcha.Verify(id, answer)
}
