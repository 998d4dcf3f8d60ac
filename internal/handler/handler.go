package handler

import (
	"net/http"
	"strconv"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/dto"
	"picvote-server/internal/middleware"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler 服务端渲染页面，使用 cookie 会话认证
type Handler struct {
	services *service.Services
	log      *zap.Logger
}

func NewHandler(services *service.Services, log *zap.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// page 填充所有页面共用的模板数据
func (h *Handler) page(c *gin.Context, title string, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["Title"] = title
	data["SiteName"] = h.services.Settings.GetString(consts.ConfigSiteName)
	if user, ok := middleware.CurrentUser(c); ok {
		data["User"] = user
	}
	return data
}

func (h *Handler) renderError(c *gin.Context, status int, message string) {
	c.HTML(status, "error.html", h.page(c, http.StatusText(status), gin.H{
		"Status":  status,
		"Message": message,
	}))
}

// renderServiceError 把业务错误渲染为错误页，内部错误只展示通用信息
func (h *Handler) renderServiceError(c *gin.Context, err error) {
	if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code != common.ErrorCodeInternal {
		switch serviceErr.Code {
		case common.ErrorCodeNotFound:
			h.renderError(c, http.StatusNotFound, serviceErr.Message)
		case common.ErrorCodeForbidden:
			h.renderError(c, http.StatusForbidden, serviceErr.Message)
		default:
			h.renderError(c, http.StatusBadRequest, serviceErr.Message)
		}
		return
	}
	_ = c.Error(err)
	h.log.Error("页面处理失败", zap.String("path", c.Request.URL.Path), zap.Error(err))
	h.renderError(c, http.StatusInternalServerError, "服务器内部错误，请稍后重试")
}

// imageIDParam 解析路由中的图片 id，非法 id 直接按不存在处理
func (h *Handler) imageIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		h.renderError(c, http.StatusNotFound, "图片不存在")
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) rankedViews(ranked []repository.RankedImage) []dto.RankedImageResponse {
	views := make([]dto.RankedImageResponse, 0, len(ranked))
	for i := range ranked {
		views = append(views, dto.ToRankedImageResponse(&ranked[i], h.services.Images.URL(&ranked[i].Image)))
	}
	return views
}

func (h *Handler) imageViews(images []model.Image) []dto.RankedImageResponse {
	views := make([]dto.RankedImageResponse, 0, len(images))
	for i := range images {
		views = append(views, dto.RankedImageResponse{
			ImageResponse: dto.ToImageResponse(&images[i], h.services.Images.URL(&images[i])),
		})
	}
	return views
}
