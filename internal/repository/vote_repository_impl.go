package repository

import (
	"context"

	"picvote-server/internal/model"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type VoteRepository struct {
	db *gorm.DB
}

// Create 插入评分。并发重复提交撞上唯一索引属于预期结果，不输出 SQL 错误日志，
// 其余错误照常返回给调用方。
func (r *VoteRepository) Create(ctx context.Context, vote *model.Vote) error {
	quiet := r.db.Session(&gorm.Session{Logger: r.db.Logger.LogMode(gormlogger.Silent)})
	err := quiet.WithContext(ctx).Omit("User", "Image").Create(vote).Error
	if isUniqueViolation(err) {
		return ErrDuplicateVote
	}
	return err
}

func (r *VoteRepository) Exists(ctx context.Context, userID uint, imageID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Vote{}).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *VoteRepository) Find(ctx context.Context, userID uint, imageID uint) (*model.Vote, error) {
	var vote model.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		First(&vote).Error
	if err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *VoteRepository) CountByImage(ctx context.Context, imageID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).Where("image_id = ?", imageID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *VoteRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Vote{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
