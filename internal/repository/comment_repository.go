package repository

import (
	"context"

	"picvote-server/internal/model"
)

type CommentStore interface {
	Create(ctx context.Context, comment *model.Comment) error
	ListByImage(ctx context.Context, imageID uint) ([]model.Comment, error)
	Delete(ctx context.Context, commentID uint) error
	CountAll(ctx context.Context) (int64, error)
}
