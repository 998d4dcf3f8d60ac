package api

import (
	"net/http"
	"strconv"

	"picvote-server/internal/dto"
	"picvote-server/internal/middleware"
	"picvote-server/internal/model"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler JSON 接口，使用 JWT Bearer 认证
type Handler struct {
	services *service.Services
	statuses *middleware.StatusCache
	log      *zap.Logger
}

func NewHandler(services *service.Services, statuses *middleware.StatusCache, log *zap.Logger) *Handler {
	return &Handler{services: services, statuses: statuses, log: log}
}

// currentUserID 读取 JWTAuth 写入的用户 id
func currentUserID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
		return 0, false
	}
	uid, ok := userID.(uint)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
		return 0, false
	}
	return uid, true
}

func idParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 ID"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) imageResponses(images []model.Image) []dto.ImageResponse {
	out := make([]dto.ImageResponse, 0, len(images))
	for i := range images {
		out = append(out, dto.ToImageResponse(&images[i], h.services.Images.URL(&images[i])))
	}
	return out
}
