package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"picvote-server/internal/cache"
	"picvote-server/internal/common"
	"picvote-server/internal/common/httpx"
	"picvote-server/internal/consts"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const statusCacheTTL = 1 * time.Minute

type cachedStatus struct {
	Status    int
	ExpiresAt time.Time
}

// StatusCache 缓存用户状态，减少 API 请求的数据库查询。
// 配置了 Redis 时优先读写 Redis，使多实例之间的封禁能及时生效。
type StatusCache struct {
	local sync.Map
	rdb   *redis.Client
	keys  cache.Keyer
	ttl   time.Duration
}

func NewStatusCache(rdb *redis.Client, keys cache.Keyer) *StatusCache {
	return &StatusCache{rdb: rdb, keys: keys, ttl: statusCacheTTL}
}

func (s *StatusCache) key(uid uint) string {
	return s.keys.Key("auth", "user_status", strconv.FormatUint(uint64(uid), 10))
}

func (s *StatusCache) Get(ctx context.Context, uid uint) (int, bool) {
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if v, err := s.rdb.Get(ctx, s.key(uid)).Result(); err == nil {
			if status, err := strconv.Atoi(v); err == nil {
				return status, true
			}
		}
	}

	if v, ok := s.local.Load(uid); ok {
		if cached, ok := v.(cachedStatus); ok && time.Now().Before(cached.ExpiresAt) {
			return cached.Status, true
		}
		s.local.Delete(uid)
	}
	return 0, false
}

func (s *StatusCache) Set(ctx context.Context, uid uint, status int) {
	s.local.Store(uid, cachedStatus{Status: status, ExpiresAt: time.Now().Add(s.ttl)})
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_ = s.rdb.Set(ctx, s.key(uid), strconv.Itoa(status), s.ttl).Err()
	}
}

// Clear 用户状态变化（封禁、删除）后调用
func (s *StatusCache) Clear(ctx context.Context, uid uint) {
	s.local.Delete(uid)
	if s.rdb != nil {
		ctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		_ = s.rdb.Del(ctx, s.key(uid)).Err()
	}
}

// JWTAuth 校验 Authorization: Bearer <token>
func JWTAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			return
		}

		claims, err := auth.ParseToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			return
		}

		c.Set("id", claims.ID)
		c.Set("username", claims.Username)
		c.Set("admin", claims.Admin)
		c.Next()
	}
}

// UserStatusCheck 拒绝已删除或被封禁用户的令牌
func UserStatusCheck(auth *service.AuthService, statuses *StatusCache) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := c.Get("id")
		userID, typeOK := uid.(uint)
		if !ok || !typeOK {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			return
		}

		ctx := c.Request.Context()
		status, found := statuses.Get(ctx, userID)
		if !found {
			if _, err := auth.ActiveUser(ctx, userID); err != nil {
				if common.HasCode(err, common.ErrorCodeForbidden) {
					statuses.Set(ctx, userID, consts.UserStatusBanned)
				}
				httpx.WriteServiceError(c, err, "获取用户状态失败")
				c.Abort()
				return
			}
			status = consts.UserStatusNormal
			statuses.Set(ctx, userID, status)
		}

		if status == consts.UserStatusBanned {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "账号已被封禁"})
			return
		}
		c.Next()
	}
}

func AdminCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exist := c.Get("admin")
		isAdmin, ok := value.(bool)
		if !exist || !ok || !isAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要管理员权限才能访问"})
			return
		}
		c.Next()
	}
}

// OptionalJWTAuth 携带有效令牌时写入用户信息，否则按匿名继续
func OptionalJWTAuth(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			if claims, err := auth.ParseToken(parts[1]); err == nil {
				c.Set("id", claims.ID)
				c.Set("username", claims.Username)
				c.Set("admin", claims.Admin)
			}
		}
		c.Next()
	}
}
