package handler

import (
	"html/template"
	"net/http"
	"strings"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/dto"
	"picvote-server/internal/middleware"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// safeNext 只允许站内相对路径，防止登录后被跳转到外部站点
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

func (h *Handler) LoginPage(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, safeNext(c.Query("next")))
		return
	}
	h.renderLogin(c, "", "", c.Query("next"))
}

func (h *Handler) renderLogin(c *gin.Context, formError, username, next string) {
	c.HTML(http.StatusOK, "login.html", h.page(c, "登录", gin.H{
		"FormError":     formError,
		"Username":      username,
		"Next":          next,
		"AllowRegister": h.services.Settings.GetBool(consts.ConfigAllowRegister),
	}))
}

// Login 校验成功后写入会话并跳转到 next
func (h *Handler) Login(c *gin.Context) {
	next := c.PostForm("next")

	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderLogin(c, "请输入用户名和密码", req.Username, next)
		return
	}

	user, err := h.services.Users.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code != common.ErrorCodeInternal {
			h.renderLogin(c, serviceErr.Message, req.Username, next)
			return
		}
		h.renderServiceError(c, err)
		return
	}

	if err := middleware.SessionLogin(c, user); err != nil {
		h.renderServiceError(c, err)
		return
	}
	h.log.Info("用户登录", zap.Uint("user_id", user.ID))
	c.Redirect(http.StatusFound, safeNext(next))
}

func (h *Handler) RegisterPage(c *gin.Context) {
	h.renderRegister(c, "", dto.RegisterRequest{})
}

func (h *Handler) renderRegister(c *gin.Context, formError string, req dto.RegisterRequest) {
	data := gin.H{
		"FormError":     formError,
		"Username":      req.Username,
		"Email":         req.Email,
		"AllowRegister": h.services.Settings.GetBool(consts.ConfigAllowRegister),
	}
	if h.services.Captcha.Enabled() {
		id, b64s, err := h.services.Captcha.New()
		if err != nil {
			h.renderServiceError(c, err)
			return
		}
		data["CaptchaID"] = id
		// 生成的是 data:image/png;base64 地址，需要标记为可信 URL
		data["CaptchaImage"] = template.URL(b64s)
	}
	c.HTML(http.StatusOK, "register.html", h.page(c, "注册", data))
}

// Register 注册成功后直接登录并返回首页
func (h *Handler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.renderRegister(c, "请完整填写注册信息", req)
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), service.RegisterInput{
		Username:        req.Username,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Email:           req.Email,
		CaptchaID:       req.CaptchaID,
		CaptchaAnswer:   req.CaptchaAnswer,
	})
	if err != nil {
		if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code != common.ErrorCodeInternal {
			h.renderRegister(c, serviceErr.Message, req)
			return
		}
		h.renderServiceError(c, err)
		return
	}

	if err := middleware.SessionLogin(c, user); err != nil {
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c *gin.Context) {
	if err := middleware.SessionLogout(c); err != nil {
		h.log.Warn("清除会话失败", zap.Error(err))
	}
	c.Redirect(http.StatusFound, "/")
}

// Profile 登录后的默认落地页，直接回到首页
func (h *Handler) Profile(c *gin.Context) {
	c.Redirect(http.StatusFound, "/")
}
