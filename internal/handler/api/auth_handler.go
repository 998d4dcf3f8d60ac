package api

import (
	"net/http"

	"picvote-server/internal/common/httpx"
	"picvote-server/internal/dto"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// Login 用户名密码换取 JWT
func (h *Handler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请输入用户名和密码"})
		return
	}

	resp, err := h.services.Auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "登录失败")
		return
	}
	c.JSON(http.StatusOK, resp)
}
