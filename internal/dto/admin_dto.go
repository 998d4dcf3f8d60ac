package dto

type PaginationRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize 补全默认分页参数并返回 offset
func (p *PaginationRequest) Normalize() int {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 || p.PageSize > 100 {
		p.PageSize = 20
	}
	return (p.Page - 1) * p.PageSize
}

type UserListRequest struct {
	PaginationRequest
	Keyword string `form:"keyword"`
}

type ImageListRequest struct {
	PaginationRequest
	Username string `form:"username"`
	UserID   *uint  `form:"user_id"`
}

type UpdateUserStatusRequest struct {
	Status int `json:"status" binding:"required,oneof=1 2"`
}

type UpdateSettingItem struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}

type PageResponse[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

type SystemInfoResponse struct {
	OS           string `json:"os"`
	Arch         string `json:"arch"`
	GoVersion    string `json:"go_version"`
	NumCPU       int    `json:"num_cpu"`
	NumGoroutine int    `json:"num_goroutine"`
}

type ServerStatsResponse struct {
	UserCount    int64              `json:"user_count"`
	ImageCount   int64              `json:"image_count"`
	CommentCount int64              `json:"comment_count"`
	VoteCount    int64              `json:"vote_count"`
	SystemInfo   SystemInfoResponse `json:"system_info"`
}
