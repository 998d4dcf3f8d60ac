package middleware

import (
	"picvote-server/internal/consts"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
)

// StaticCache 为上传的图片添加 Cache-Control 头，取值来自 static_cache_control 配置
func StaticCache(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cc := settings.GetString(consts.ConfigStaticCacheControl); cc != "" {
			c.Header("Cache-Control", cc)
		}
		c.Next()
	}
}
