package api

import (
	"net/http"
	"strings"

	"picvote-server/internal/common/httpx"
	"picvote-server/internal/consts"
	"picvote-server/internal/dto"
	"picvote-server/internal/repository"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
)

const maxTopImagesLimit = 100

// ListImages 公开图片列表，最新的在前，支持按用户名筛选
func (h *Handler) ListImages(c *gin.Context) {
	var req dto.ImageListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}
	offset := req.Normalize()

	images, total, err := h.services.Images.ListPage(c.Request.Context(), repository.ListImagesParams{
		UserID:   req.UserID,
		Username: strings.TrimSpace(req.Username),
		Offset:   offset,
		Limit:    req.PageSize,
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}

	c.JSON(http.StatusOK, dto.PageResponse[dto.ImageResponse]{
		List:     h.imageResponses(images),
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// TopImages window=day|week，limit 缺省时使用 top_images_limit 配置，limit<=0 返回空列表
func (h *Handler) TopImages(c *gin.Context) {
	var q dto.TopImagesQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	window := consts.TopImagesDayWindow
	switch q.Window {
	case "", "day":
	case "week":
		window = consts.TopImagesWeekWindow
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "window 只能是 day 或 week"})
		return
	}

	limit := h.services.Images.TopImagesLimit()
	if q.Limit != nil {
		limit = min(*q.Limit, maxTopImagesLimit)
	}

	ranked, err := h.services.Images.TopImagesSince(c.Request.Context(), window, limit)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取排行榜失败")
		return
	}
	list := make([]dto.RankedImageResponse, 0, len(ranked))
	for i := range ranked {
		list = append(list, dto.ToRankedImageResponse(&ranked[i], h.services.Images.URL(&ranked[i].Image)))
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// GetImage 图片详情，登录时附带当前用户是否已评分
func (h *Handler) GetImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	ctx := c.Request.Context()

	image, err := h.services.Images.Get(ctx, id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}
	avg, err := h.services.Images.AverageRate(ctx, id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}
	comments, err := h.services.Comments.ListForImage(ctx, id)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片失败")
		return
	}

	resp := dto.ImageDetailResponse{
		ImageResponse: dto.ToImageResponse(image, h.services.Images.URL(image)),
		AvgRate:       avg,
		Comments:      dto.ToCommentResponses(comments),
	}
	if uid, ok := c.Get("id"); ok {
		if userID, ok := uid.(uint); ok {
			if resp.HasVoted, err = h.services.Votes.HasVoted(ctx, userID, id); err != nil {
				httpx.WriteServiceError(c, err, "获取图片失败")
				return
			}
		}
	}
	c.JSON(http.StatusOK, resp)
}

// Vote 评分：接受 200，越界 400，重复 409
func (h *Handler) Vote(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form dto.VoteForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评分必须是 1 到 5 的整数"})
		return
	}

	ctx := c.Request.Context()
	outcome, err := h.services.Votes.SubmitVote(ctx, uid, id, form.Rate)
	if err != nil {
		httpx.WriteServiceError(c, err, "评分失败")
		return
	}

	status := http.StatusOK
	switch outcome {
	case service.VoteRejectedInvalidRate:
		status = http.StatusBadRequest
	case service.VoteRejectedDuplicate:
		status = http.StatusConflict
	}

	avg, err := h.services.Images.AverageRate(ctx, id)
	if err != nil {
		httpx.WriteServiceError(c, err, "评分失败")
		return
	}
	c.JSON(status, dto.VoteResponse{Result: string(outcome), AvgRate: avg})
}

func (h *Handler) AddComment(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	var form dto.CommentForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "评论内容不能为空"})
		return
	}

	comment, err := h.services.Comments.Add(c.Request.Context(), uid, id, form.Text)
	if err != nil {
		httpx.WriteServiceError(c, err, "发表评论失败")
		return
	}
	c.JSON(http.StatusCreated, dto.CommentResponse{
		ID:        comment.ID,
		Text:      comment.Text,
		UserID:    comment.UserID,
		Username:  c.GetString("username"),
		CreatedAt: comment.CreatedAt,
	})
}

// MyImages 当前用户上传的图片
func (h *Handler) MyImages(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	images, err := h.services.Images.ListByUser(c.Request.Context(), uid)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取图片列表失败")
		return
	}
	list := h.imageResponses(images)
	username := c.GetString("username")
	for i := range list {
		list[i].Username = username
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

// UploadImage multipart 表单：description + imgfile
func (h *Handler) UploadImage(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}

	var form dto.UploadImageForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请填写描述并选择图片"})
		return
	}

	image, err := h.services.Images.Upload(c.Request.Context(), uid, form.Description, form.File)
	if err != nil {
		httpx.WriteServiceError(c, err, "上传失败，请稍后重试")
		return
	}
	resp := dto.ToImageResponse(image, h.services.Images.URL(image))
	resp.Username = c.GetString("username")
	c.JSON(http.StatusCreated, resp)
}
