package repository

import (
	"context"
	"time"

	"picvote-server/internal/model"

	"gorm.io/gorm"
)

type ImageRepository struct {
	db *gorm.DB
}

func (r *ImageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Omit("User").Create(image).Error
}

func (r *ImageRepository) FindByID(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Preload("User").First(&image, id).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// ListImages 按上传时间倒序分页列出图片，Limit <= 0 时不分页
func (r *ImageRepository) ListImages(ctx context.Context, params ListImagesParams) ([]model.Image, int64, error) {
	var images []model.Image
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Image{})
	if params.UserID != nil {
		query = query.Where("images.user_id = ?", *params.UserID)
	}
	if params.Username != "" {
		query = query.Joins("JOIN users ON users.id = images.user_id").
			Where("users.username LIKE ?", "%"+params.Username+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.PreloadUser {
		query = query.Preload("User")
	}
	query = query.Order("images.created_at desc").Order("images.id desc").Offset(params.Offset)
	if params.Limit > 0 {
		query = query.Limit(params.Limit)
	}
	if err := query.Find(&images).Error; err != nil {
		return nil, 0, err
	}
	return images, total, nil
}

func (r *ImageRepository) ListByUser(ctx context.Context, userID uint) ([]model.Image, error) {
	images, _, err := r.ListImages(ctx, ListImagesParams{UserID: &userID})
	return images, err
}

// TopImages 返回 created_at >= cutoff 的图片，按平均评分降序，最多 limit 条。
// 无评分的图片平均分为 NULL，排在所有有评分的图片之后；
// 平均分相同（包括都为 NULL）时按 id 升序，即先上传的在前。
func (r *ImageRepository) TopImages(ctx context.Context, cutoff time.Time, limit int) ([]RankedImage, error) {
	ranked := []RankedImage{}
	if limit <= 0 {
		return ranked, nil
	}

	err := r.db.WithContext(ctx).Model(&model.Image{}).
		Select("images.*, users.username AS username, AVG(votes.rate) AS avg_rate, COUNT(votes.id) AS vote_count").
		Joins("JOIN users ON users.id = images.user_id").
		Joins("LEFT JOIN votes ON votes.image_id = images.id").
		Where("images.created_at >= ?", cutoff.UTC()).
		Group("images.id, users.username").
		Order("CASE WHEN AVG(votes.rate) IS NULL THEN 1 ELSE 0 END").
		Order("AVG(votes.rate) DESC").
		Order("images.id ASC").
		Limit(limit).
		Scan(&ranked).Error
	if err != nil {
		return nil, err
	}
	return ranked, nil
}

// AverageRate 每次实时计算，无评分时返回 nil
func (r *ImageRepository) AverageRate(ctx context.Context, imageID uint) (*float64, error) {
	var avg *float64
	row := r.db.WithContext(ctx).Model(&model.Vote{}).
		Select("AVG(rate)").
		Where("image_id = ?", imageID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return nil, err
	}
	return avg, nil
}

func (r *ImageRepository) Delete(ctx context.Context, imageID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("image_id = ?", imageID).Delete(&model.Vote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("image_id = ?", imageID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Image{}, imageID)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ImageRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Image{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
