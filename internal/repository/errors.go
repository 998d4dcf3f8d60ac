package repository

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// ErrDuplicateVote 同一用户对同一图片重复评分（唯一索引冲突）
var ErrDuplicateVote = errors.New("repository: duplicate vote")

// isUniqueViolation 判断写入错误是否为唯一约束冲突。
// 开启 TranslateError 后各驱动会返回 gorm.ErrDuplicatedKey，消息匹配用于兜底。
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint failed") ||
		strings.Contains(msg, "duplicate entry") ||
		strings.Contains(msg, "duplicate key value")
}
