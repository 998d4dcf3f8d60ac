package model

import "time"

type Image struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Description string    `json:"description" gorm:"not null;size:250"`
	File        string    `json:"file" gorm:"not null;unique;size:255"` // 存储内相对路径 images/YYYY/MM/DD/xxx.ext
	MimeType    string    `json:"mime_type" gorm:"not null;size:64"`
	Size        int64     `json:"size" gorm:"not null"`
	UserID      uint      `json:"user_id" gorm:"not null;index"`
	User        User      `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;" json:"-"`
	CreatedAt   time.Time `json:"created_at" gorm:"not null;index"`
	UpdatedAt   time.Time `json:"updated_at"`
}
