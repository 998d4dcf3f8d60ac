package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"picvote-server/internal/cache"
	"picvote-server/internal/consts"
	"picvote-server/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const rateLimitMessage = "请求过于频繁，请稍后再试"

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	i := &IPRateLimiter{
		r: r,
		b: b,
	}

	go i.cleanupLoop()

	return i
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.lastSeen = time.Now()
		return c.limiter
	}

	limiter := rate.NewLimiter(i.r, i.b)
	i.ips.Store(ip, &client{limiter: limiter, lastSeen: time.Now()})

	return limiter
}

// Allow 按最新配置调整该 IP 的令牌桶后尝试取一个令牌
func (i *IPRateLimiter) Allow(ip string, rps float64, burst int) bool {
	l := i.getLimiter(ip)
	if l.Limit() != rate.Limit(rps) {
		l.SetLimit(rate.Limit(rps))
	}
	if l.Burst() != burst {
		l.SetBurst(burst)
	}
	return l.Allow()
}

func (i *IPRateLimiter) cleanupLoop() {
	for {
		time.Sleep(1 * time.Minute)
		i.ips.Range(func(key, value interface{}) bool {
			client := value.(*client)
			if time.Since(client.lastSeen) > 3*time.Minute {
				i.ips.Delete(key)
			}
			return true
		})
	}
}

// 令牌桶：KEYS[1] 哈希保存剩余令牌与上次刷新时间（毫秒）
var tokenBucketScript = redis.NewScript(`
local rate = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local data = redis.call('HMGET', KEYS[1], 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil or ts == nil then
  tokens = burst
  ts = now
end
local elapsed = math.max(0, now - ts) / 1000
tokens = math.min(burst, tokens + elapsed * rate)
local allowed = 0
if tokens >= 1 then
  tokens = tokens - 1
  allowed = 1
end
redis.call('HSET', KEYS[1], 'tokens', tostring(tokens), 'ts', tostring(now))
redis.call('EXPIRE', KEYS[1], math.ceil(burst / rate) + 1)
return allowed
`)

// allowByRedisRateLimit 在 Redis 中执行令牌桶判定，多实例共享同一个桶。
// rps 或 burst 非正时视为不限流。
func allowByRedisRateLimit(ctx context.Context, rdb *redis.Client, key string, rps float64, burst int) (bool, error) {
	if rps <= 0 || burst <= 0 {
		return true, nil
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()

	res, err := tokenBucketScript.Run(ctx, rdb, []string{key}, rps, burst, time.Now().UnixMilli()).Int()
	if err != nil {
		return false, err
	}
	return res == 1, nil
}

// RateLimiter 按配置动态限流。启用 Redis 时使用共享令牌桶，Redis 出错时降级为进程内限流。
type RateLimiter struct {
	settings *service.SettingsService
	rdb      *redis.Client
	keys     cache.Keyer
	log      *zap.Logger

	mu     sync.Mutex
	groups map[string]*IPRateLimiter
}

func NewRateLimiter(settings *service.SettingsService, rdb *redis.Client, keys cache.Keyer, log *zap.Logger) *RateLimiter {
	return &RateLimiter{
		settings: settings,
		rdb:      rdb,
		keys:     keys,
		log:      log,
		groups:   make(map[string]*IPRateLimiter),
	}
}

func (rl *RateLimiter) local(name string, rps float64, burst int) *IPRateLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	l, ok := rl.groups[name]
	if !ok {
		l = NewIPRateLimiter(rate.Limit(rps), burst)
		rl.groups[name] = l
	}
	return l
}

// Middleware 创建一个限流中间件，同名分组共用一组令牌桶
func (rl *RateLimiter) Middleware(name, rpsKey, burstKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.settings.GetBool(consts.ConfigRateLimitEnabled) {
			c.Next()
			return
		}

		rps := rl.settings.GetFloat64(rpsKey)
		burst := rl.settings.GetInt(burstKey)
		if rps <= 0 || burst <= 0 {
			c.Next()
			return
		}
		ip := c.ClientIP()

		if rl.rdb != nil {
			ok, err := allowByRedisRateLimit(c.Request.Context(), rl.rdb, rl.keys.Key("ratelimit", name, ip), rps, burst)
			if err == nil {
				if !ok {
					abortTooManyRequests(c)
					return
				}
				c.Next()
				return
			}
			rl.log.Warn("Redis 限流失败，降级为内存限流", zap.String("group", name), zap.Error(err))
		}

		if !rl.local(name, rps, burst).Allow(ip, rps, burst) {
			abortTooManyRequests(c)
			return
		}
		c.Next()
	}
}

func abortTooManyRequests(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": rateLimitMessage})
		return
	}
	c.String(http.StatusTooManyRequests, rateLimitMessage)
	c.Abort()
}
