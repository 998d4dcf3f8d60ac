//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"picvote-server/internal/config"
	"picvote-server/internal/handler"
	"picvote-server/internal/handler/api"
	"picvote-server/internal/metrics"
	"picvote-server/internal/middleware"
	"picvote-server/internal/repository"
	"picvote-server/internal/router"
	"picvote-server/internal/service"
	"picvote-server/internal/storage"
	"picvote-server/internal/utils"

	"github.com/google/wire"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func InitializeApplication(ctx context.Context, cfg *config.Config, gormDB *gorm.DB, log *zap.Logger) (*Application, error) {
	wire.Build(
		repository.NewUserRepository,
		repository.NewImageRepository,
		repository.NewCommentRepository,
		repository.NewVoteRepository,
		repository.NewSettingRepository,
		repository.NewRepositories,
		storage.New,
		metrics.New,
		provideRedis,
		provideKeyer,
		provideJWT,
		utils.NewCaptcha,
		service.NewSettingsService,
		service.NewImageService,
		service.NewVoteService,
		service.NewCommentService,
		service.NewCaptchaService,
		service.NewUserService,
		service.NewAuthService,
		service.NewStatService,
		service.NewServices,
		middleware.NewStatusCache,
		middleware.NewRateLimiter,
		handler.NewHandler,
		api.NewHandler,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil
}
