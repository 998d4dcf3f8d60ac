package utils

import "github.com/mojocn/base64Captcha"

// Captcha 图形数字验证码，答案保存在进程内存中
type Captcha struct {
	store  base64Captcha.Store
	driver base64Captcha.Driver
}

func NewCaptcha() *Captcha {
	// 高 80、宽 240、4 位数字
	return &Captcha{
		store:  base64Captcha.NewMemoryStore(base64Captcha.GCLimitNumber, base64Captcha.Expiration),
		driver: base64Captcha.NewDriverDigit(80, 240, 4, 0.7, 80),
	}
}

// Make 生成验证码，返回 id 与 base64 图片
func (c *Captcha) Make() (id string, b64s string, err error) {
	id, b64s, _, err = base64Captcha.NewCaptcha(c.driver, c.store).Generate()
	return id, b64s, err
}

// Verify 校验后立即作废该验证码
func (c *Captcha) Verify(id string, answer string) bool {
	if id == "" || answer == "" {
		return false
	}
	return c.store.Verify(id, answer, true)
}

// answer 仅用于测试取出正确答案
func (c *Captcha) answer(id string) string {
	return c.store.Get(id, false)
}
