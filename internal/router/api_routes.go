package router

import (
	"picvote-server/internal/handler/api"
	"picvote-server/internal/middleware"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
)

func registerAPIRoutes(group *gin.RouterGroup, h *api.Handler, auth *service.AuthService, statuses *middleware.StatusCache, limits routeLimits) {
	group.GET("/ping", h.Ping)
	group.POST("/login", limits.auth, h.Login)

	public := group.Group("", middleware.OptionalJWTAuth(auth))
	public.GET("/images", h.ListImages)
	public.GET("/images/top", h.TopImages)
	public.GET("/images/:id", h.GetImage)

	authed := group.Group("", middleware.JWTAuth(auth), middleware.UserStatusCheck(auth, statuses))
	authed.POST("/images/:id/vote", limits.feedback, h.Vote)
	authed.POST("/images/:id/comments", limits.feedback, h.AddComment)
	authed.GET("/user/images", h.MyImages)
	authed.POST("/user/images", limits.uploadBody, limits.upload, h.UploadImage)
}
