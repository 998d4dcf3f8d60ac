package handler

import (
	"net/http"

	"picvote-server/internal/consts"

	"github.com/gin-gonic/gin"
)

// Index 首页：最近一天与最近一周评分最高的图片，两个榜单各自使用自己的时间窗口
func (h *Handler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	limit := h.services.Images.TopImagesLimit()

	day, err := h.services.Images.TopImagesSince(ctx, consts.TopImagesDayWindow, limit)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	week, err := h.services.Images.TopImagesSince(ctx, consts.TopImagesWeekWindow, limit)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	c.HTML(http.StatusOK, "index.html", h.page(c, "", gin.H{
		"DayImages":  h.rankedViews(day),
		"WeekImages": h.rankedViews(week),
	}))
}

// ImageList 全部图片，最新的在前
func (h *Handler) ImageList(c *gin.Context) {
	images, err := h.services.Images.ListAll(c.Request.Context())
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.HTML(http.StatusOK, "images.html", h.page(c, "全部图片", gin.H{
		"Images": h.imageViews(images),
	}))
}
