package model

import "time"

type User struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string  `json:"username" gorm:"unique;not null;size:32"`
	Password  string  `json:"-" gorm:"not null"`
	Email     *string `json:"email" gorm:"unique;size:255"`
	Admin     bool    `json:"admin" gorm:"not null;default:false"`
	Status    int     `json:"status" gorm:"not null;default:1"` // 1: 正常, 2: 封禁
	Images    []Image `json:"-"`
}
