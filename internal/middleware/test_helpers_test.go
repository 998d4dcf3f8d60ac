package middleware

import (
	"context"
	"strconv"
	"testing"
	"time"

	"picvote-server/internal/repository"
	"picvote-server/internal/service"
	"picvote-server/internal/testutils"
	"picvote-server/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db       *gorm.DB
	settings *service.SettingsService
	users    *service.UserService
	auth     *service.AuthService
	jwt      *utils.JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := testutils.SetupDB(t)
	log := zap.NewNop()

	settings := service.NewSettingsService(repository.NewSettingRepository(gdb), log)
	if err := settings.Initialize(context.Background()); err != nil {
		t.Fatalf("init settings: %v", err)
	}
	captcha := service.NewCaptchaService(utils.NewCaptcha(), settings)
	// 中间件测试不涉及文件，图片服务传 nil 存储即可
	images := service.NewImageService(repository.NewImageRepository(gdb), nil, settings, nil, log)
	users := service.NewUserService(repository.NewUserRepository(gdb), images, settings, captcha, log)
	jwt := utils.NewJWT("middleware-test", time.Hour, "picvote-test")

	return &testEnv{
		db:       gdb,
		settings: settings,
		users:    users,
		auth:     service.NewAuthService(users, jwt),
		jwt:      jwt,
	}
}

func (e *testEnv) setSetting(t *testing.T, key, value string) {
	t.Helper()
	if err := e.settings.Update(context.Background(), []repository.UpdateSettingItem{{Key: key, Value: value}}); err != nil {
		t.Fatalf("update setting %s: %v", key, err)
	}
}

func uintToString(n uint) string {
	return strconv.FormatUint(uint64(n), 10)
}
