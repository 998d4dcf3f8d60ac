package api

import (
	"net/http"
	"strings"

	"picvote-server/internal/common/httpx"
	"picvote-server/internal/dto"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"

	"github.com/gin-gonic/gin"
)

type adminUserResponse struct {
	ID        uint    `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	Admin     bool    `json:"admin"`
	Status    int     `json:"status"`
	CreatedAt string  `json:"created_at"`
}

func toAdminUser(u *model.User) adminUserResponse {
	return adminUserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Admin:     u.Admin,
		Status:    u.Status,
		CreatedAt: u.CreatedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}
}

func (h *Handler) GetServerStats(c *gin.Context) {
	stats, err := h.services.Stats.ServerStats(c.Request.Context())
	if err != nil {
		httpx.WriteServiceError(c, err, "获取统计数据失败")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListUsers(c *gin.Context) {
	var req dto.UserListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}
	offset := req.Normalize()

	users, total, err := h.services.Users.List(c.Request.Context(), req.Keyword, offset, req.PageSize)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取用户列表失败")
		return
	}
	list := make([]adminUserResponse, 0, len(users))
	for i := range users {
		list = append(list, toAdminUser(&users[i]))
	}
	c.JSON(http.StatusOK, dto.PageResponse[adminUserResponse]{
		List:     list,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	})
}

// UpdateUserStatus 封禁或解封，成功后清除状态缓存使令牌立即失效
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	operatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "状态只能是 1（正常）或 2（封禁）"})
		return
	}

	if err := h.services.Users.SetStatus(c.Request.Context(), operatorID, userID, req.Status); err != nil {
		httpx.WriteServiceError(c, err, "更新用户状态失败")
		return
	}
	h.statuses.Clear(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}

// DeleteUser 硬删除用户及其全部内容
func (h *Handler) DeleteUser(c *gin.Context) {
	operatorID, ok := currentUserID(c)
	if !ok {
		return
	}
	userID, ok := idParam(c, "id")
	if !ok {
		return
	}

	if err := h.services.Users.Delete(c.Request.Context(), operatorID, userID); err != nil {
		httpx.WriteServiceError(c, err, "删除用户失败")
		return
	}
	h.statuses.Clear(c.Request.Context(), userID)
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *Handler) AdminListImages(c *gin.Context) {
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

func (h *Handler) AdminDeleteImage(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Images.Delete(c.Request.Context(), id); err != nil {
		httpx.WriteServiceError(c, err, "删除图片失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *Handler) AdminDeleteComment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.services.Comments.Delete(c.Request.Context(), id); err != nil {
		httpx.WriteServiceError(c, err, "删除评论失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "删除成功"})
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.services.Settings.List(c.Request.Context())
	if err != nil {
		httpx.WriteServiceError(c, err, "获取配置失败")
		return
	}
	c.JSON(http.StatusOK, settings)
}

// UpdateSettings 批量更新，未知的配置项整体拒绝
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req []dto.UpdateSettingItem
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	items := make([]repository.UpdateSettingItem, 0, len(req))
	for _, item := range req {
		items = append(items, repository.UpdateSettingItem{Key: item.Key, Value: item.Value})
	}
	if err := h.services.Settings.Update(c.Request.Context(), items); err != nil {
		httpx.WriteServiceError(c, err, "更新配置失败")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "更新成功"})
}
