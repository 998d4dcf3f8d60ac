package handler

import (
	"fmt"
	"net/http"

	"picvote-server/internal/common"
	"picvote-server/internal/dto"
	"picvote-server/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func imagePath(id uint) string {
	return fmt.Sprintf("/images/%d/", id)
}

// ImageDetail 图片详情：平均分、评论列表、评论表单与评分表单
func (h *Handler) ImageDetail(c *gin.Context) {
	id, ok := h.imageIDParam(c)
	if !ok {
		return
	}
	h.renderDetail(c, id, "", "")
}

func (h *Handler) renderDetail(c *gin.Context, imageID uint, formError, commentText string) {
	ctx := c.Request.Context()
	image, err := h.services.Images.Get(ctx, imageID)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	avg, err := h.services.Images.AverageRate(ctx, imageID)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	comments, err := h.services.Comments.ListForImage(ctx, imageID)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}

	hasVoted := false
	if user, ok := middleware.CurrentUser(c); ok {
		if hasVoted, err = h.services.Votes.HasVoted(ctx, user.ID, imageID); err != nil {
			h.renderServiceError(c, err)
			return
		}
	}

	view := dto.RankedImageResponse{
		ImageResponse: dto.ToImageResponse(image, h.services.Images.URL(image)),
		AvgRate:       avg,
	}
	c.HTML(http.StatusOK, "image.html", h.page(c, image.Description, gin.H{
		"Image":            view,
		"Comments":         dto.ToCommentResponses(comments),
		"HasVoted":         hasVoted,
		"FormError":        formError,
		"CommentText":      commentText,
		"CommentMaxLength": h.services.Comments.MaxLength(),
	}))
}

// AddComment 发表评论。成功后跳转回详情页；内容不合法时带着错误信息重新渲染，不写入任何数据。
func (h *Handler) AddComment(c *gin.Context) {
	id, ok := h.imageIDParam(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	var form dto.CommentForm
	if err := c.ShouldBind(&form); err != nil {
		if _, err := h.services.Images.Get(c.Request.Context(), id); err != nil {
			h.renderServiceError(c, err)
			return
		}
		h.renderDetail(c, id, "评论内容不能为空", form.Text)
		return
	}

	if _, err := h.services.Comments.Add(c.Request.Context(), user.ID, id, form.Text); err != nil {
		if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code == common.ErrorCodeValidation {
			h.renderDetail(c, id, serviceErr.Message, form.Text)
			return
		}
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, imagePath(id))
}

// Vote 提交评分。被拒绝的评分同样跳回详情页；图片不存在时返回 404。
func (h *Handler) Vote(c *gin.Context) {
	id, ok := h.imageIDParam(c)
	if !ok {
		return
	}
	user, _ := middleware.CurrentUser(c)

	var form dto.VoteForm
	if err := c.ShouldBind(&form); err != nil {
		// 非整数的评分交给服务层按越界处理
		form.Rate = 0
	}

	outcome, err := h.services.Votes.SubmitVote(c.Request.Context(), user.ID, id, form.Rate)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	h.log.Debug("评分处理完成",
		zap.Uint("image_id", id),
		zap.Uint("user_id", user.ID),
		zap.String("result", string(outcome)),
	)
	c.Redirect(http.StatusFound, imagePath(id))
}
