package handler

import (
	"fmt"
	"net/http"
	"unicode/utf8"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/dto"
	"picvote-server/internal/middleware"

	"github.com/gin-gonic/gin"
)

// MyImages 当前用户的图片与上传表单
func (h *Handler) MyImages(c *gin.Context) {
	h.renderMyImages(c, "", "")
}

func (h *Handler) renderMyImages(c *gin.Context, formError, description string) {
	user, _ := middleware.CurrentUser(c)
	images, err := h.services.Images.ListByUser(c.Request.Context(), user.ID)
	if err != nil {
		h.renderServiceError(c, err)
		return
	}
	for i := range images {
		images[i].User = *user
	}

	c.HTML(http.StatusOK, "my_images.html", h.page(c, "我的图片", gin.H{
		"Images":      h.imageViews(images),
		"FormError":   formError,
		"Description": description,
		"Accept":      h.services.Settings.GetString(consts.ConfigAllowFileExtensions),
	}))
}

// UploadImage 上传图片，归属固定为当前登录用户
func (h *Handler) UploadImage(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var form dto.UploadImageForm
	if err := c.ShouldBind(&form); err != nil {
		msg := "请填写描述并选择图片"
		if utf8.RuneCountInString(form.Description) > consts.DescriptionMaxLength {
			msg = fmt.Sprintf("图片描述不能超过 %d 个字符", consts.DescriptionMaxLength)
		}
		h.renderMyImages(c, msg, form.Description)
		return
	}

	if _, err := h.services.Images.Upload(c.Request.Context(), user.ID, form.Description, form.File); err != nil {
		if serviceErr, ok := common.AsServiceError(err); ok && serviceErr.Code == common.ErrorCodeValidation {
			h.renderMyImages(c, serviceErr.Message, form.Description)
			return
		}
		h.renderServiceError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/my_images/")
}
