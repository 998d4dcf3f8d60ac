package router

import (
	"picvote-server/internal/handler"
	"picvote-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

func registerWebRoutes(site *gin.RouterGroup, h *handler.Handler, limits routeLimits) {
	site.GET("/", h.Index)
	site.GET("/images/", h.ImageList)
	site.GET("/images/:id/", h.ImageDetail)

	loginRequired := middleware.LoginRequired()
	site.POST("/images/:id/", loginRequired, limits.feedback, h.AddComment)
	site.POST("/images/:id/vote/", loginRequired, limits.feedback, h.Vote)
	site.GET("/my_images/", loginRequired, h.MyImages)
	site.POST("/my_images/", loginRequired, limits.uploadBody, limits.upload, h.UploadImage)

	accounts := site.Group("/accounts")
	accounts.GET("/login/", h.LoginPage)
	accounts.POST("/login/", limits.auth, h.Login)
	accounts.GET("/register/", h.RegisterPage)
	accounts.POST("/register/", limits.auth, h.Register)
	accounts.POST("/logout/", h.Logout)
	accounts.GET("/profile/", h.Profile)
}
