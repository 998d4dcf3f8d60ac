package repository

import (
	"gorm.io/gorm"
)

type Repositories struct {
	User    UserStore
	Image   ImageStore
	Comment CommentStore
	Vote    VoteStore
	Setting SettingStore
}

func NewUserRepository(db *gorm.DB) UserStore {
	return &UserRepository{db: db}
}

func NewImageRepository(db *gorm.DB) ImageStore {
	return &ImageRepository{db: db}
}

func NewCommentRepository(db *gorm.DB) CommentStore {
	return &CommentRepository{db: db}
}

func NewVoteRepository(db *gorm.DB) VoteStore {
	return &VoteRepository{db: db}
}

func NewSettingRepository(db *gorm.DB) SettingStore {
	return &SettingRepository{db: db}
}

func NewRepositories(user UserStore, image ImageStore, comment CommentStore, vote VoteStore, setting SettingStore) *Repositories {
	return &Repositories{
		User:    user,
		Image:   image,
		Comment: comment,
		Vote:    vote,
		Setting: setting,
	}
}
