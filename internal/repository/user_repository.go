package repository

import (
	"context"

	"picvote-server/internal/consts"
	"picvote-server/internal/model"
)

type UserStore interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	UpdateByID(ctx context.Context, userID uint, updates map[string]interface{}) error
	FieldExists(ctx context.Context, field consts.UserField, value string, excludeUserID *uint) (bool, error)
	ListUsers(ctx context.Context, keyword string, offset int, limit int) ([]model.User, int64, error)
	// HardDeleteUser 删除用户及其名下全部图片、评论、评分，返回被删除图片的存储路径
	HardDeleteUser(ctx context.Context, userID uint) ([]string, error)
	CountAll(ctx context.Context) (int64, error)
}
