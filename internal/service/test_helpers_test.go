package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"picvote-server/internal/metrics"
	"picvote-server/internal/repository"
	"picvote-server/internal/storage"
	"picvote-server/internal/testutils"
	"picvote-server/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	repos     *repository.Repositories
	services  *Services
	metrics   *metrics.Metrics
	mediaRoot string
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := testutils.SetupDB(t)
	log := zap.NewNop()

	repos := repository.NewRepositories(
		repository.NewUserRepository(gdb),
		repository.NewImageRepository(gdb),
		repository.NewCommentRepository(gdb),
		repository.NewVoteRepository(gdb),
		repository.NewSettingRepository(gdb),
	)

	mediaRoot := filepath.Join(t.TempDir(), "media")
	files, err := storage.NewLocalStore(mediaRoot, "/media/")
	if err != nil {
		t.Fatalf("init storage: %v", err)
	}

	m := metrics.New()
	settings := NewSettingsService(repos.Setting, log)
	if err := settings.Initialize(context.Background()); err != nil {
		t.Fatalf("init settings: %v", err)
	}
	images := NewImageService(repos.Image, files, settings, m, log)
	votes := NewVoteService(repos.Vote, images, m, log)
	comments := NewCommentService(repos.Comment, images, settings, m, log)
	captcha := NewCaptchaService(utils.NewCaptcha(), settings)
	users := NewUserService(repos.User, images, settings, captcha, log)
	auth := NewAuthService(users, utils.NewJWT("test-secret", time.Hour, "picvote-test"))
	stats := NewStatService(repos)

	return &testEnv{
		db:        gdb,
		repos:     repos,
		services:  NewServices(settings, images, votes, comments, users, auth, captcha, stats),
		metrics:   m,
		mediaRoot: mediaRoot,
	}
}

func (e *testEnv) setSetting(t *testing.T, key, value string) {
	t.Helper()
	if err := e.services.Settings.Update(context.Background(), []repository.UpdateSettingItem{{Key: key, Value: value}}); err != nil {
		t.Fatalf("update setting %s: %v", key, err)
	}
}
