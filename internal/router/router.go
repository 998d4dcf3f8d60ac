package router

import (
	"fmt"
	"net/http"
	"strings"

	"picvote-server/internal/config"
	"picvote-server/internal/consts"
	"picvote-server/internal/handler"
	"picvote-server/internal/handler/api"
	"picvote-server/internal/logger"
	"picvote-server/internal/metrics"
	"picvote-server/internal/middleware"
	"picvote-server/internal/service"
	"picvote-server/internal/storage"
	"picvote-server/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Router struct {
	cfg      *config.Config
	services *service.Services
	web      *handler.Handler
	api      *api.Handler
	files    storage.FileStore
	metrics  *metrics.Metrics
	limiter  *middleware.RateLimiter
	statuses *middleware.StatusCache
	log      *zap.Logger
}

func NewRouter(
	cfg *config.Config,
	services *service.Services,
	webHandler *handler.Handler,
	apiHandler *api.Handler,
	files storage.FileStore,
	m *metrics.Metrics,
	limiter *middleware.RateLimiter,
	statuses *middleware.StatusCache,
	log *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		services: services,
		web:      webHandler,
		api:      apiHandler,
		files:    files,
		metrics:  m,
		limiter:  limiter,
		statuses: statuses,
		log:      log,
	}
}

func (rt *Router) Init(r *gin.Engine) error {
	tmpl, err := web.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(logger.Recovery(rt.log))
	r.Use(logger.GinMiddleware(rt.log))
	if rt.cfg.Metrics.Enabled {
		r.Use(rt.metrics.Middleware())
	}
	r.Use(middleware.SecurityHeaders())

	if rt.cfg.Metrics.Enabled {
		path := rt.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(rt.metrics.Handler()))
	}

	// 本地存储时由本服务提供上传文件，S3 存储时图片直接走对象存储地址
	if local, ok := rt.files.(*storage.LocalStore); ok {
		r.Group(local.URLPrefix(), middleware.StaticCache(rt.services.Settings)).
			StaticFS("", gin.Dir(local.Root(), false))
	}

	authLimiter := rt.limiter.Middleware("auth", consts.ConfigRateLimitAuthRPS, consts.ConfigRateLimitAuthBurst)
	uploadLimiter := rt.limiter.Middleware("upload", consts.ConfigRateLimitUploadRPS, consts.ConfigRateLimitUploadBurst)
	feedbackLimiter := rt.limiter.Middleware("feedback", consts.ConfigRateLimitFeedbackRPS, consts.ConfigRateLimitFeedbackBurst)
	limits := routeLimits{
		auth:       authLimiter,
		upload:     uploadLimiter,
		feedback:   feedbackLimiter,
		uploadBody: middleware.UploadBodyLimit(rt.services.Settings),
	}

	site := r.Group("/",
		middleware.Sessions(rt.cfg.Session),
		middleware.LoadSessionUser(rt.services.Users, rt.log),
		middleware.BodyLimit(rt.services.Settings),
	)
	registerWebRoutes(site, rt.web, limits)

	apiGroup := r.Group("/api", middleware.BodyLimit(rt.services.Settings))
	registerAPIRoutes(apiGroup, rt.api, rt.services.Auth, rt.statuses, limits)
	registerAdminRoutes(apiGroup, rt.api, rt.services.Auth, rt.statuses)

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API not found"})
			return
		}
		c.HTML(http.StatusNotFound, "error.html", gin.H{
			"Title":    http.StatusText(http.StatusNotFound),
			"SiteName": rt.services.Settings.GetString(consts.ConfigSiteName),
			"Status":   http.StatusNotFound,
			"Message":  fmt.Sprintf("页面 %s 不存在", c.Request.URL.Path),
		})
	})
	return nil
}

type routeLimits struct {
	auth       gin.HandlerFunc
	upload     gin.HandlerFunc
	feedback   gin.HandlerFunc
	uploadBody gin.HandlerFunc
}
