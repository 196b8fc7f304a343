package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/tuanasish/leave-request/internal/http/response"
	"github.com/tuanasish/leave-request/internal/i18n"
	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitKeyFunc 生成限流 key 的函数
type RateLimitKeyFunc func(*gin.Context) string

// RateLimitRule 限流规则
type RateLimitRule struct {
	Prefix        string
	WindowSeconds int
	MaxRequests   int
	MessageKey    string
}

var rateLimitScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("EXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("TTL", KEYS[1])
return {current, ttl}
`)

// localLimiterMaxEntries 超过该数量时清理过期 key
const localLimiterMaxEntries = 4096

// RateLimiter 限流器：优先使用 Redis 固定窗口，Redis 不可用时退化为进程内令牌桶
type RateLimiter struct {
	client *redis.Client
	local  *localLimiter
}

// NewRateLimiter 创建限流器，client 为空时只使用进程内限流
func NewRateLimiter(client *redis.Client) *RateLimiter {
	return &RateLimiter{client: client, local: newLocalLimiter()}
}

// allow 返回是否放行以及需要等待的秒数
func (l *RateLimiter) allow(c *gin.Context, key string, rule RateLimitRule) (bool, int) {
	if l.client != nil {
		allowed, wait, err := redisAllow(c, l.client, key, rule)
		if err == nil {
			return allowed, wait
		}
		logger.Warnw("rate_limit_redis_failed", "key", key, "error", err, "fallback", "local")
	}
	return l.local.allow(key, rule)
}

func redisAllow(c *gin.Context, client *redis.Client, key string, rule RateLimitRule) (bool, int, error) {
	result, err := rateLimitScript.Run(c.Request.Context(), client, []string{key}, rule.WindowSeconds).Result()
	if err != nil {
		return false, 0, err
	}
	values, ok := result.([]interface{})
	if !ok || len(values) < 2 {
		return false, 0, fmt.Errorf("unexpected rate limit result: %v", result)
	}
	count, ok := toInt64(values[0])
	if !ok {
		return false, 0, fmt.Errorf("unexpected rate limit counter: %v", values[0])
	}
	ttlSeconds, _ := toInt64(values[1])
	if count <= int64(rule.MaxRequests) {
		return true, 0, nil
	}
	waitSeconds := int(ttlSeconds)
	if waitSeconds < 1 {
		waitSeconds = rule.WindowSeconds
	}
	return false, waitSeconds, nil
}

type localLimiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type localLimiter struct {
	mu      sync.Mutex
	entries map[string]*localLimiterEntry
	now     func() time.Time
}

func newLocalLimiter() *localLimiter {
	return &localLimiter{entries: make(map[string]*localLimiterEntry), now: time.Now}
}

// allow 窗口内最多 MaxRequests 次，按窗口均匀回填
func (l *localLimiter) allow(key string, rule RateLimitRule) (bool, int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	window := time.Duration(rule.WindowSeconds) * time.Second
	entry, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= localLimiterMaxEntries {
			l.sweep(now, window)
		}
		every := window / time.Duration(rule.MaxRequests)
		entry = &localLimiterEntry{limiter: rate.NewLimiter(rate.Every(every), rule.MaxRequests)}
		l.entries[key] = entry
	}
	entry.lastSeen = now

	reservation := entry.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return false, rule.WindowSeconds
	}
	delay := reservation.DelayFrom(now)
	if delay <= 0 {
		return true, 0
	}
	reservation.CancelAt(now)
	wait := int(math.Ceil(delay.Seconds()))
	if wait < 1 {
		wait = 1
	}
	return false, wait
}

func (l *localLimiter) sweep(now time.Time, window time.Duration) {
	for key, entry := range l.entries {
		if now.Sub(entry.lastSeen) > window {
			delete(l.entries, key)
		}
	}
}

// RateLimitMiddleware 频率限制中间件
func RateLimitMiddleware(limiter *RateLimiter, rule RateLimitRule, keyFunc RateLimitKeyFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil || rule.WindowSeconds <= 0 || rule.MaxRequests <= 0 {
			c.Next()
			return
		}

		key := ""
		if keyFunc != nil {
			key = strings.TrimSpace(keyFunc(c))
		}
		if key == "" {
			key = c.ClientIP()
		}
		if rule.Prefix != "" {
			key = fmt.Sprintf("%s:%s", rule.Prefix, key)
		}

		allowed, waitSeconds := limiter.allow(c, key, rule)
		if !allowed {
			if waitSeconds < 1 {
				waitSeconds = 1
			}
			msgKey := strings.TrimSpace(rule.MessageKey)
			if msgKey == "" {
				msgKey = "error.rate_limited"
			}
			msg := i18n.Sprintf(i18n.ResolveLocale(c), msgKey, waitSeconds)
			response.ErrorWithData(c, response.CodeTooManyRequests, msg, gin.H{"retryAfter": waitSeconds})
			c.Abort()
			return
		}

		c.Next()
	}
}

// KeyByIP 使用 IP 作为限流 key
func KeyByIP(c *gin.Context) string {
	return c.ClientIP()
}

// maxKeyBodyBytes 读取限流字段时允许的最大请求体
const maxKeyBodyBytes = 16 << 10

// KeyByIPAndJSONField 使用 IP + JSON 字段作为限流 key
func KeyByIPAndJSONField(field string) RateLimitKeyFunc {
	return func(c *gin.Context) string {
		value := strings.ToLower(strings.TrimSpace(readJSONField(c, field)))
		if value == "" {
			return c.ClientIP()
		}
		return fmt.Sprintf("%s|%s", value, c.ClientIP())
	}
}

func readJSONField(c *gin.Context, field string) string {
	if c == nil || c.Request == nil || c.Request.Body == nil {
		return ""
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxKeyBodyBytes))
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))
	if err != nil || len(body) == 0 {
		return ""
	}
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	value, ok := payload[field]
	if !ok {
		return ""
	}
	if text, ok := value.(string); ok {
		return strings.TrimSpace(text)
	}
	return ""
}

func toInt64(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case int32:
		return int64(v), true
	case uint64:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
