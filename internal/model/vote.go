package model

import "time"

// Vote 同一用户对同一图片只能有一条评分，由 (user_id, image_id) 唯一索引保证。
// 评分写入后不可修改。
type Vote struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Rate      int       `json:"rate" gorm:"not null;check:chk_votes_rate,rate >= 1 AND rate <= 5"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_votes_user_image"`
	User      User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	ImageID   uint      `json:"image_id" gorm:"not null;uniqueIndex:idx_votes_user_image;index"`
	Image     Image     `gorm:"foreignKey:ImageID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
