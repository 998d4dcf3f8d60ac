package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/metrics"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"
	"picvote-server/internal/storage"
	"picvote-server/internal/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ImageService struct {
	images   repository.ImageStore
	files    storage.FileStore
	settings *SettingsService
	metrics  *metrics.Metrics
	log      *zap.Logger
	now      func() time.Time
}

func NewImageService(
	images repository.ImageStore,
	files storage.FileStore,
	settings *SettingsService,
	m *metrics.Metrics,
	log *zap.Logger,
) *ImageService {
	return &ImageService{
		images:   images,
		files:    files,
		settings: settings,
		metrics:  m,
		log:      log,
		now:      time.Now,
	}
}

// ValidateImageFile 校验上传文件的大小、扩展名与内容，返回小写扩展名和嗅探出的 MIME 类型
func (s *ImageService) ValidateImageFile(file *multipart.FileHeader) (string, string, error) {
	if file == nil {
		return "", "", common.NewValidationError("请选择要上传的图片")
	}

	maxSizeMB := s.settings.GetInt(consts.ConfigMaxUploadSize)
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	if file.Size > int64(maxSizeMB)*1024*1024 {
		return "", "", common.NewValidationError(fmt.Sprintf("文件大小不能超过 %dMB", maxSizeMB))
	}
	if file.Size == 0 {
		return "", "", common.NewValidationError("文件内容为空")
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		return "", "", common.NewValidationError("无法识别文件类型")
	}
	if !s.extensionAllowed(ext) {
		return "", "", common.NewValidationError(fmt.Sprintf("不支持的文件类型: %s", ext))
	}

	src, err := file.Open()
	if err != nil {
		return "", "", common.NewValidationError("无法打开上传的文件")
	}
	defer func() { _ = src.Close() }()

	mimeType, ok, msg := utils.ValidateImageContent(src, ext)
	if !ok {
		return "", "", common.NewValidationError(msg)
	}
	return ext, mimeType, nil
}

func (s *ImageService) extensionAllowed(ext string) bool {
	for _, allow := range strings.Split(s.settings.GetString(consts.ConfigAllowFileExtensions), ",") {
		if strings.ToLower(strings.TrimSpace(allow)) == ext {
			return true
		}
	}
	return false
}

// Upload 先写文件再写数据库，数据库写入失败时删除已保存的文件。
// 图片归属固定为 userID。
func (s *ImageService) Upload(ctx context.Context, userID uint, description string, file *multipart.FileHeader) (*model.Image, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, common.NewValidationError("图片描述不能为空")
	}
	if len([]rune(description)) > consts.DescriptionMaxLength {
		return nil, common.NewValidationError(fmt.Sprintf("图片描述不能超过 %d 个字符", consts.DescriptionMaxLength))
	}

	ext, mimeType, err := s.ValidateImageFile(file)
	if err != nil {
		s.metrics.ObserveUpload(s.files.Driver(), false)
		return nil, err
	}

	src, err := file.Open()
	if err != nil {
		return nil, common.NewValidationError("无法读取上传文件")
	}
	defer func() { _ = src.Close() }()

	relPath := storage.NewImagePath(s.now(), ext)
	if err := s.files.Save(ctx, relPath, src, file.Size, mimeType); err != nil {
		s.metrics.ObserveUpload(s.files.Driver(), false)
		s.log.Error("保存上传文件失败", zap.String("path", relPath), zap.Error(err))
		return nil, common.NewInternalError("文件保存失败", err)
	}

	image := &model.Image{
		Description: description,
		File:        relPath,
		MimeType:    mimeType,
		Size:        file.Size,
		UserID:      userID,
	}
	if err := s.images.Create(ctx, image); err != nil {
		if rmErr := s.files.Delete(context.WithoutCancel(ctx), relPath); rmErr != nil {
			s.log.Warn("回滚上传文件失败", zap.String("path", relPath), zap.Error(rmErr))
		}
		s.metrics.ObserveUpload(s.files.Driver(), false)
		s.log.Error("写入图片记录失败", zap.Uint("user_id", userID), zap.Error(err))
		return nil, common.NewInternalError("系统错误: 数据库记录失败", err)
	}

	s.metrics.ObserveUpload(s.files.Driver(), true)
	s.log.Info("图片上传成功", zap.Uint("image_id", image.ID), zap.Uint("user_id", userID), zap.String("path", relPath))
	return image, nil
}

// Get 按 id 获取图片（含上传者），不存在时返回 not_found
func (s *ImageService) Get(ctx context.Context, id uint) (*model.Image, error) {
	image, err := s.images.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewNotFoundError("图片不存在")
		}
		return nil, common.NewInternalError("查询图片失败", err)
	}
	return image, nil
}

// ListAll 全部图片，最新上传的在前
func (s *ImageService) ListAll(ctx context.Context) ([]model.Image, error) {
	images, _, err := s.images.ListImages(ctx, repository.ListImagesParams{PreloadUser: true})
	if err != nil {
		return nil, common.NewInternalError("获取图片列表失败", err)
	}
	return images, nil
}

func (s *ImageService) ListPage(ctx context.Context, params repository.ListImagesParams) ([]model.Image, int64, error) {
	params.PreloadUser = true
	images, total, err := s.images.ListImages(ctx, params)
	if err != nil {
		return nil, 0, common.NewInternalError("获取图片列表失败", err)
	}
	return images, total, nil
}

func (s *ImageService) ListByUser(ctx context.Context, userID uint) ([]model.Image, error) {
	images, err := s.images.ListByUser(ctx, userID)
	if err != nil {
		return nil, common.NewInternalError("获取图片列表失败", err)
	}
	return images, nil
}

// AverageRate 实时计算平均评分，无评分时返回 nil
func (s *ImageService) AverageRate(ctx context.Context, imageID uint) (*float64, error) {
	avg, err := s.images.AverageRate(ctx, imageID)
	if err != nil {
		return nil, common.NewInternalError("计算平均评分失败", err)
	}
	return avg, nil
}

// TopImages 返回 cutoff 之后上传的图片中平均分最高的 limit 张
func (s *ImageService) TopImages(ctx context.Context, cutoff time.Time, limit int) ([]repository.RankedImage, error) {
	ranked, err := s.images.TopImages(ctx, cutoff, limit)
	if err != nil {
		return nil, common.NewInternalError("获取排行榜失败", err)
	}
	return ranked, nil
}

// TopImagesSince 以当前时间为终点的滑动窗口排行
func (s *ImageService) TopImagesSince(ctx context.Context, window time.Duration, limit int) ([]repository.RankedImage, error) {
	return s.TopImages(ctx, s.now().Add(-window), limit)
}

// TopImagesLimit 首页榜单条数
func (s *ImageService) TopImagesLimit() int {
	limit := s.settings.GetInt(consts.ConfigTopImagesLimit)
	if limit <= 0 {
		return 10
	}
	return limit
}

// Delete 删除图片记录（连同评论和评分）以及存储中的文件
func (s *ImageService) Delete(ctx context.Context, imageID uint) error {
	image, err := s.Get(ctx, imageID)
	if err != nil {
		return err
	}
	if err := s.images.Delete(ctx, imageID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("图片不存在")
		}
		return common.NewInternalError("删除图片失败", err)
	}
	s.RemoveFiles(ctx, image.File)
	return nil
}

// RemoveFiles 删除存储中的文件，失败只记录日志
func (s *ImageService) RemoveFiles(ctx context.Context, paths ...string) {
	for _, p := range paths {
		if err := s.files.Delete(ctx, p); err != nil {
			s.log.Warn("删除图片文件失败", zap.String("path", p), zap.Error(err))
		}
	}
}

// URL 图片的对外访问地址
func (s *ImageService) URL(image *model.Image) string {
	return s.files.URL(image.File)
}
