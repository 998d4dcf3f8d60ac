package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/metrics"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CommentService struct {
	comments repository.CommentStore
	images   *ImageService
	settings *SettingsService
	metrics  *metrics.Metrics
	log      *zap.Logger
}

func NewCommentService(
	comments repository.CommentStore,
	images *ImageService,
	settings *SettingsService,
	m *metrics.Metrics,
	log *zap.Logger,
) *CommentService {
	return &CommentService{comments: comments, images: images, settings: settings, metrics: m, log: log}
}

// MaxLength 评论允许的最大字符数
func (s *CommentService) MaxLength() int {
	n := s.settings.GetInt(consts.ConfigCommentMaxLength)
	if n <= 0 {
		return 250
	}
	return n
}

// Add 为图片添加评论，同一用户可以对同一图片发表多条评论
func (s *CommentService) Add(ctx context.Context, userID uint, imageID uint, text string) (*model.Comment, error) {
	if _, err := s.images.Get(ctx, imageID); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.NewValidationError("评论内容不能为空")
	}
	if max := s.MaxLength(); utf8.RuneCountInString(text) > max {
		return nil, common.NewValidationError(fmt.Sprintf("评论内容不能超过 %d 个字符", max))
	}

	comment := &model.Comment{Text: text, UserID: userID, ImageID: imageID}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, common.NewInternalError("保存评论失败", err)
	}
	s.metrics.ObserveComment()
	return comment, nil
}

// ListForImage 图片下的评论，按发表时间正序
func (s *CommentService) ListForImage(ctx context.Context, imageID uint) ([]model.Comment, error) {
	comments, err := s.comments.ListByImage(ctx, imageID)
	if err != nil {
		return nil, common.NewInternalError("获取评论失败", err)
	}
	return comments, nil
}

func (s *CommentService) Delete(ctx context.Context, commentID uint) error {
	if err := s.comments.Delete(ctx, commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.NewNotFoundError("评论不存在")
		}
		return common.NewInternalError("删除评论失败", err)
	}
	s.log.Info("评论已删除", zap.Uint("comment_id", commentID))
	return nil
}
