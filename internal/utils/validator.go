package utils

import (
	"io"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	digitsPattern   = regexp.MustCompile(`^[0-9]+$`)
	passwordPattern = regexp.MustCompile(`^[a-zA-Z0-9[:punct:]]+$`)
	letterPattern   = regexp.MustCompile(`[a-zA-Z]`)
	numberPattern   = regexp.MustCompile(`[0-9]`)
)

// ValidateUsername checks if the username meets the requirements.
func ValidateUsername(username string) (bool, string) {
	if username == "" || utf8.RuneCountInString(username) > 32 {
		return false, "用户名长度必须在1-32位之间"
	}
	// 允许英文大小写、数字和下划线
	if !usernamePattern.MatchString(username) {
		return false, "用户名只能包含英文大小写、数字和下划线"
	}
	if digitsPattern.MatchString(username) {
		return false, "用户名不能为纯数字"
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
// Returns true if valid, otherwise false and an error message.
func ValidatePassword(password string) (bool, string) {
	if len(password) < 8 {
		return false, "密码最少8位"
	}
	if len(password) > 64 {
		return false, "密码最多64位"
	}
	if !passwordPattern.MatchString(password) {
		return false, "密码只能包含英文大小写、数字和符号"
	}
	if !letterPattern.MatchString(password) || !numberPattern.MatchString(password) {
		return false, "密码必须包含至少一个字母和一个数字"
	}
	return true, ""
}

var imageContentTypes = map[string]map[string]bool{
	"image/jpeg":     {".jpg": true, ".jpeg": true},
	"image/png":      {".png": true},
	"image/gif":      {".gif": true},
	"image/webp":     {".webp": true},
	"image/bmp":      {".bmp": true},
	"image/x-ms-bmp": {".bmp": true},
}

// ValidateImageContent 通过文件头嗅探内容类型，并要求与扩展名一致。
// 成功时返回识别出的 MIME 类型，reader 会被重置到开头。
func ValidateImageContent(reader io.ReadSeeker, ext string) (string, bool, string) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", false, "读取文件内容失败"
	}
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return "", false, "重置文件读取位置失败"
	}

	contentType := http.DetectContentType(buffer[:n])
	exts, ok := imageContentTypes[contentType]
	if !ok {
		return "", false, "文件内容不是支持的图片格式"
	}
	if !exts[strings.ToLower(ext)] {
		return "", false, "文件内容与扩展名不匹配"
	}
	return contentType, true, ""
}

// notBlank 要求字符串去掉首尾空白后非空
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// RegisterBindingRules 向 gin 的 validator 注册自定义规则，需在路由初始化前调用。
func RegisterBindingRules() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("notblank", notBlank)
}
