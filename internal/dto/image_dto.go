package dto

import (
	"mime/multipart"
	"time"
)

// UploadImageForm 上传图片表单，图片归属由登录用户决定，不接受客户端指定
type UploadImageForm struct {
	Description string                `form:"description" binding:"required,notblank,max=250"`
	File        *multipart.FileHeader `form:"imgfile" binding:"required"`
}

// CommentForm 只接受评论内容
type CommentForm struct {
	Text string `form:"comment_text" json:"comment_text" binding:"required,notblank"`
}

type VoteForm struct {
	Rate int `form:"rate" json:"rate"`
}

type TopImagesQuery struct {
	Window string `form:"window"`
	Limit  *int   `form:"limit"`
}

type ImageResponse struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	MimeType    string    `json:"mime_type"`
	Size        int64     `json:"size"`
	UserID      uint      `json:"user_id"`
	Username    string    `json:"username"`
	CreatedAt   time.Time `json:"created_at"`
}

// RankedImageResponse AvgRate 为 null 表示暂无评分
type RankedImageResponse struct {
	ImageResponse
	AvgRate   *float64 `json:"avg_rate"`
	VoteCount int64    `json:"vote_count"`
}

type CommentResponse struct {
	ID        uint      `json:"id"`
	Text      string    `json:"comment_text"`
	UserID    uint      `json:"user_id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

type ImageDetailResponse struct {
	ImageResponse
	AvgRate  *float64          `json:"avg_rate"`
	Comments []CommentResponse `json:"comments"`
	HasVoted bool              `json:"has_voted"`
}

type VoteResponse struct {
	Result  string   `json:"result"`
	AvgRate *float64 `json:"avg_rate"`
}
