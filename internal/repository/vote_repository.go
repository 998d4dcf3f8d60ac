package repository

import (
	"context"

	"picvote-server/internal/model"
)

// VoteStore 评分只有插入，没有更新路径
type VoteStore interface {
	// Create 插入评分，(user_id, image_id) 冲突时返回 ErrDuplicateVote
	Create(ctx context.Context, vote *model.Vote) error
	Exists(ctx context.Context, userID uint, imageID uint) (bool, error)
	Find(ctx context.Context, userID uint, imageID uint) (*model.Vote, error)
	CountByImage(ctx context.Context, imageID uint) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}
