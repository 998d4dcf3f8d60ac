package service

import (
	"context"
	"errors"

	"picvote-server/internal/common"
	"picvote-server/internal/consts"
	"picvote-server/internal/metrics"
	"picvote-server/internal/model"
	"picvote-server/internal/repository"

	"go.uber.org/zap"
)

// VoteOutcome 评分提交结果。被拒绝的评分不是错误，调用方通常静默处理。
type VoteOutcome string

const (
	VoteAccepted            VoteOutcome = "accepted"
	VoteRejectedInvalidRate VoteOutcome = "invalid_rate"
	VoteRejectedDuplicate   VoteOutcome = "duplicate"
)

type VoteService struct {
	votes   repository.VoteStore
	images  *ImageService
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewVoteService(votes repository.VoteStore, images *ImageService, m *metrics.Metrics, log *zap.Logger) *VoteService {
	return &VoteService{votes: votes, images: images, metrics: m, log: log}
}

// SubmitVote 为图片评分，每个用户对每张图片只能评一次且不可修改。
// 图片不存在时返回 not_found 错误；评分越界或重复时返回对应的拒绝结果，不写入任何数据。
func (s *VoteService) SubmitVote(ctx context.Context, userID uint, imageID uint, rate int) (VoteOutcome, error) {
	if _, err := s.images.Get(ctx, imageID); err != nil {
		return "", err
	}

	if rate < consts.MinVoteRate || rate > consts.MaxVoteRate {
		s.metrics.ObserveVote(string(VoteRejectedInvalidRate))
		return VoteRejectedInvalidRate, nil
	}

	exists, err := s.votes.Exists(ctx, userID, imageID)
	if err != nil {
		return "", common.NewInternalError("查询评分失败", err)
	}
	if exists {
		s.metrics.ObserveVote(string(VoteRejectedDuplicate))
		return VoteRejectedDuplicate, nil
	}

	// 并发提交时由唯一索引兜底，冲突与重复评分同样处理
	err = s.votes.Create(ctx, &model.Vote{Rate: rate, UserID: userID, ImageID: imageID})
	if errors.Is(err, repository.ErrDuplicateVote) {
		s.metrics.ObserveVote(string(VoteRejectedDuplicate))
		return VoteRejectedDuplicate, nil
	}
	if err != nil {
		return "", common.NewInternalError("保存评分失败", err)
	}

	s.metrics.ObserveVote(string(VoteAccepted))
	s.log.Debug("评分成功", zap.Uint("user_id", userID), zap.Uint("image_id", imageID), zap.Int("rate", rate))
	return VoteAccepted, nil
}

// HasVoted 用户是否已为该图片评分
func (s *VoteService) HasVoted(ctx context.Context, userID uint, imageID uint) (bool, error) {
	exists, err := s.votes.Exists(ctx, userID, imageID)
	if err != nil {
		return false, common.NewInternalError("查询评分失败", err)
	}
	return exists, nil
}
