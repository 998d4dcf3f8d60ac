package service

import (
	"context"
	"runtime"

	"picvote-server/internal/common"
	"picvote-server/internal/dto"
	"picvote-server/internal/repository"
)

type StatService struct {
	repos *repository.Repositories
}

func NewStatService(repos *repository.Repositories) *StatService {
	return &StatService{repos: repos}
}

// ServerStats 获取后台仪表盘统计数据
func (s *StatService) ServerStats(ctx context.Context) (*dto.ServerStatsResponse, error) {
	var stats dto.ServerStatsResponse
	counters := []struct {
		count func(context.Context) (int64, error)
		dst   *int64
	}{
		{s.repos.User.CountAll, &stats.UserCount},
		{s.repos.Image.CountAll, &stats.ImageCount},
		{s.repos.Comment.CountAll, &stats.CommentCount},
		{s.repos.Vote.CountAll, &stats.VoteCount},
	}
	for _, c := range counters {
		n, err := c.count(ctx)
		if err != nil {
			return nil, common.NewInternalError("获取统计数据失败", err)
		}
		*c.dst = n
	}

	stats.SystemInfo = dto.SystemInfoResponse{
		OS:           runtime.GOOS,
		Arch:         runtime.GOARCH,
		GoVersion:    runtime.Version(),
		NumCPU:       runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}
	return &stats, nil
}
