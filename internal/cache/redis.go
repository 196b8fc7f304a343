package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/logger"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	defaultPrefix = "lr"
	tagKeyTTL     = 24 * time.Hour
)

// setIfTagsUnchangedScript 仅当所有标签版本与加载前一致时写入
var setIfTagsUnchangedScript = redis.NewScript(`
for i = 2, #KEYS do
  local current = redis.call("GET", KEYS[i]) or "0"
  if current ~= ARGV[i + 1] then
    return 0
  end
end
redis.call("SET", KEYS[1], ARGV[1], "PX", ARGV[2])
return 1
`)

// Store Redis 缓存封装，未启用时所有读写退化为直连数据源
type Store struct {
	client *redis.Client
	prefix string
	group  singleflight.Group
}

// New 根据配置创建缓存，未启用 Redis 时返回可用的空实现
func New(cfg *config.RedisConfig) *Store {
	if cfg == nil || !cfg.Enabled {
		return &Store{prefix: defaultPrefix}
	}
	addr := strings.TrimSpace(cfg.Host)
	if addr == "" {
		addr = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", addr, port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.Prefix)
}

// NewWithClient 使用现有客户端创建缓存
func NewWithClient(client *redis.Client, prefix string) *Store {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{client: client, prefix: prefix}
}

// Enabled 判断缓存是否启用
func (s *Store) Enabled() bool {
	return s != nil && s.client != nil
}

// Client 获取 Redis 客户端
func (s *Store) Client() *redis.Client {
	if !s.Enabled() {
		return nil
	}
	return s.client
}

// Close 关闭连接
func (s *Store) Close() error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Close()
}

// GetJSON 获取 JSON 缓存
func (s *Store) GetJSON(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !s.Enabled() {
		return false, nil
	}
	val, err := s.client.Get(ctx, s.buildKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON 写入 JSON 缓存
func (s *Store) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !s.Enabled() {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.buildKey(key), payload, ttl).Err()
}

// Del 删除缓存
func (s *Store) Del(ctx context.Context, key string) error {
	if !s.Enabled() {
		return nil
	}
	return s.client.Del(ctx, s.buildKey(key)).Err()
}

// Remember 读取缓存，未命中时加载并按标签登记；同一 key 的并发加载只执行一次
func Remember[T any](ctx context.Context, s *Store, key string, ttl time.Duration, tags []string, load func(context.Context) (T, error)) (T, error) {
	if !s.Enabled() {
		return load(ctx)
	}

	var cached T
	hit, err := s.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.Warnw("cache_get_failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		if len(tags) == 0 {
			loaded, err := load(ctx)
			if err != nil {
				return loaded, err
			}
			if err := s.SetJSON(ctx, key, loaded, ttl); err != nil {
				logger.Warnw("cache_set_failed", "key", key, "error", err)
			}
			return loaded, nil
		}

		// 加载前记录标签版本，写入时版本变化说明期间发生过失效
		versions, versionErr := s.tagVersions(ctx, tags)
		loaded, err := load(ctx)
		if err != nil {
			return loaded, err
		}
		if versionErr != nil {
			logger.Warnw("cache_tag_version_failed", "key", key, "error", versionErr)
			return loaded, nil
		}
		s.tag(ctx, key, tags)
		stored, err := s.setIfTagsUnchanged(ctx, key, loaded, ttl, tags, versions)
		if err != nil {
			logger.Warnw("cache_set_failed", "key", key, "error", err)
		} else if !stored {
			logger.Debugw("cache_set_skipped_invalidated", "key", key)
		}
		return loaded, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	result, _ := value.(T)
	return result, nil
}

// InvalidateTags 删除标签下登记的所有缓存
func (s *Store) InvalidateTags(ctx context.Context, tags ...string) {
	if !s.Enabled() {
		return
	}
	for _, tag := range tags {
		if err := s.client.Incr(ctx, s.tagVersionKey(tag)).Err(); err != nil {
			logger.Warnw("cache_tag_version_bump_failed", "tag", tag, "error", err)
		}
		tagKey := s.buildKey("tag:" + tag)
		members, err := s.client.SMembers(ctx, tagKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Warnw("cache_tag_members_failed", "tag", tag, "error", err)
			continue
		}
		if len(members) > 0 {
			if err := s.client.Del(ctx, members...).Err(); err != nil {
				logger.Warnw("cache_tag_invalidate_failed", "tag", tag, "error", err)
				continue
			}
		}
		if err := s.client.Del(ctx, tagKey).Err(); err != nil {
			logger.Warnw("cache_tag_delete_failed", "tag", tag, "error", err)
		}
	}
}

func (s *Store) tag(ctx context.Context, key string, tags []string) {
	fullKey := s.buildKey(key)
	for _, tag := range tags {
		tagKey := s.buildKey("tag:" + tag)
		if err := s.client.SAdd(ctx, tagKey, fullKey).Err(); err != nil {
			logger.Warnw("cache_tag_add_failed", "tag", tag, "key", key, "error", err)
			continue
		}
		if err := s.client.Expire(ctx, tagKey, tagKeyTTL).Err(); err != nil {
			logger.Warnw("cache_tag_expire_failed", "tag", tag, "error", err)
		}
	}
}

func (s *Store) tagVersionKey(tag string) string {
	return s.buildKey("tagver:" + tag)
}

func (s *Store) tagVersions(ctx context.Context, tags []string) ([]string, error) {
	keys := make([]string, 0, len(tags))
	for _, tag := range tags {
		keys = append(keys, s.tagVersionKey(tag))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	versions := make([]string, len(tags))
	for i := range versions {
		versions[i] = "0"
		if i < len(values) && values[i] != nil {
			versions[i] = fmt.Sprint(values[i])
		}
	}
	return versions, nil
}

func (s *Store) setIfTagsUnchanged(ctx context.Context, key string, value interface{}, ttl time.Duration, tags, versions []string) (bool, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return false, err
	}
	keys := make([]string, 0, len(tags)+1)
	keys = append(keys, s.buildKey(key))
	for _, tag := range tags {
		keys = append(keys, s.tagVersionKey(tag))
	}
	ttlMillis := ttl.Milliseconds()
	if ttlMillis <= 0 {
		ttlMillis = 1
	}
	args := make([]interface{}, 0, len(versions)+2)
	args = append(args, string(payload), ttlMillis)
	for _, version := range versions {
		args = append(args, version)
	}
	stored, err := setIfTagsUnchangedScript.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return false, err
	}
	return stored == 1, nil
}

func (s *Store) buildKey(key string) string {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return s.prefix
	}
	return fmt.Sprintf("%s:%s", s.prefix, trimmed)
}
