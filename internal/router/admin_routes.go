package router

import (
	"picvote-server/internal/handler/api"
	"picvote-server/internal/middleware"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(group *gin.RouterGroup, h *api.Handler, auth *service.AuthService, statuses *middleware.StatusCache) {
	adminGroup := group.Group("/admin")
	adminGroup.Use(middleware.JWTAuth(auth))
	adminGroup.Use(middleware.UserStatusCheck(auth, statuses))
	adminGroup.Use(middleware.AdminCheck())

	adminGroup.GET("/stats", h.GetServerStats)

	adminGroup.GET("/users", h.ListUsers)
	adminGroup.PATCH("/users/:id/status", h.UpdateUserStatus)
	adminGroup.DELETE("/users/:id", h.DeleteUser)

	adminGroup.GET("/images", h.AdminListImages)
	adminGroup.DELETE("/images/:id", h.AdminDeleteImage)
	adminGroup.DELETE("/comments/:id", h.AdminDeleteComment)

	adminGroup.GET("/settings", h.GetSettings)
	adminGroup.PATCH("/settings", h.UpdateSettings)
}
