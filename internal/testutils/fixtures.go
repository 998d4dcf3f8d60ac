package testutils

import (
	"fmt"
	"testing"
	"time"

	"picvote-server/internal/model"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword 为 CreateUser 创建的用户统一设置的明文密码
const TestPassword = "password123"

// CreateUser 创建一个可登录的普通用户
func CreateUser(t *testing.T, gdb *gorm.DB, username string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &model.User{Username: username, Password: string(hash), Status: 1}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	return u
}

// CreateImage 直接写入一条图片记录（不写文件），createdAt 为零值时使用当前时间
func CreateImage(t *testing.T, gdb *gorm.DB, user *model.User, description string, createdAt time.Time) *model.Image {
	t.Helper()
	img := &model.Image{
		Description: description,
		File:        fmt.Sprintf("images/2026/01/01/%s.png", uuid.New().String()),
		MimeType:    "image/png",
		Size:        1,
		UserID:      user.ID,
	}
	if !createdAt.IsZero() {
		img.CreatedAt = createdAt.UTC()
	}
	if err := gdb.Create(img).Error; err != nil {
		t.Fatalf("创建图片失败: %v", err)
	}
	return img
}

// CreateVote 直接写入一条评分记录
func CreateVote(t *testing.T, gdb *gorm.DB, user *model.User, image *model.Image, rate int) *model.Vote {
	t.Helper()
	v := &model.Vote{Rate: rate, UserID: user.ID, ImageID: image.ID}
	if err := gdb.Create(v).Error; err != nil {
		t.Fatalf("创建评分失败: %v", err)
	}
	return v
}

// PNGBytes 返回一个最小可识别的 PNG 文件头
func PNGBytes() []byte {
	return []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
		0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
		0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4,
		0x89,
	}
}
