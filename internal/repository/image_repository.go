package repository

import (
	"context"
	"time"

	"picvote-server/internal/model"
)

// RankedImage 排行榜条目。AvgRate 为 nil 表示该图片尚无评分。
type RankedImage struct {
	Image     model.Image `gorm:"embedded"`
	Username  string
	AvgRate   *float64
	VoteCount int64
}

type ListImagesParams struct {
	UserID      *uint
	Username    string
	Offset      int
	Limit       int
	PreloadUser bool
}

type ImageStore interface {
	Create(ctx context.Context, image *model.Image) error
	FindByID(ctx context.Context, id uint) (*model.Image, error)
	ListImages(ctx context.Context, params ListImagesParams) ([]model.Image, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Image, error)
	TopImages(ctx context.Context, cutoff time.Time, limit int) ([]RankedImage, error)
	AverageRate(ctx context.Context, imageID uint) (*float64, error)
	Delete(ctx context.Context, imageID uint) error
	CountAll(ctx context.Context) (int64, error)
}
