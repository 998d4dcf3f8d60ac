package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"picvote-server/internal/consts"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
)

// BodyLimit 限制普通请求体大小，multipart 上传交给 UploadBodyLimit 处理
func BodyLimit(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
			c.Next()
			return
		}

		maxSizeMB := settings.GetInt(consts.ConfigMaxRequestBodySize)
		if maxSizeMB <= 0 {
			maxSizeMB = 2
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, int64(maxSizeMB)*1024*1024)
		c.Next()
	}
}

// UploadBodyLimit 限制上传请求体大小，额外留 1MB 给表单其它字段
func UploadBodyLimit(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		maxSizeMB := settings.GetInt(consts.ConfigMaxUploadSize)
		if maxSizeMB <= 0 {
			maxSizeMB = 10
		}
		maxBytes := int64(maxSizeMB+1) * 1024 * 1024

		if c.Request.ContentLength > maxBytes {
			msg := fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB)
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": msg})
			} else {
				c.String(http.StatusRequestEntityTooLarge, msg)
				c.Abort()
			}
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
