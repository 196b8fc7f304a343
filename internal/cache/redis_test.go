package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
)

type statsSnapshot struct {
	Pending int `json:"pending"`
}

func TestRememberLoadsAndTagsOnMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")
	ctx := context.Background()

	payload, _ := json.Marshal(statsSnapshot{Pending: 3})
	mock.ExpectGet("lr:admin:stats").RedisNil()
	mock.ExpectMGet("lr:tagver:admin-stats").SetVal([]interface{}{nil})
	mock.ExpectSAdd("lr:tag:admin-stats", "lr:admin:stats").SetVal(1)
	mock.ExpectExpire("lr:tag:admin-stats", tagKeyTTL).SetVal(true)
	mock.ExpectEvalSha(setIfTagsUnchangedScript.Hash(), []string{"lr:admin:stats", "lr:tagver:admin-stats"},
		string(payload), int64(60000), "0").SetVal(int64(1))

	calls := 0
	got, err := Remember(ctx, store, "admin:stats", time.Minute, []string{"admin-stats"}, func(context.Context) (statsSnapshot, error) {
		calls++
		return statsSnapshot{Pending: 3}, nil
	})
	if err != nil {
		t.Fatalf("remember failed: %v", err)
	}
	if got.Pending != 3 || calls != 1 {
		t.Fatalf("unexpected result: %+v calls=%d", got, calls)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRememberReturnsCachedValue(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")

	mock.ExpectGet("lr:admin:stats").SetVal(`{"pending":7}`)

	got, err := Remember(context.Background(), store, "admin:stats", time.Minute, nil, func(context.Context) (statsSnapshot, error) {
		t.Fatalf("loader must not run on hit")
		return statsSnapshot{}, nil
	})
	if err != nil || got.Pending != 7 {
		t.Fatalf("unexpected cached result: %+v err=%v", got, err)
	}
}

func TestRememberPropagatesLoaderError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")
	mock.ExpectGet("lr:k").RedisNil()
	mock.ExpectMGet("lr:tagver:t").SetVal([]interface{}{nil})

	loadErr := errors.New("db down")
	_, err := Remember(context.Background(), store, "k", time.Minute, []string{"t"}, func(context.Context) (int, error) {
		return 0, loadErr
	})
	if !errors.Is(err, loadErr) {
		t.Fatalf("expected loader error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no write expected after loader error: %v", err)
	}
}

func TestRememberSkipsWriteAfterConcurrentInvalidation(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")
	ctx := context.Background()

	payload, _ := json.Marshal(statsSnapshot{Pending: 1})
	mock.ExpectGet("lr:admin:stats").RedisNil()
	mock.ExpectMGet("lr:tagver:admin-stats").SetVal([]interface{}{"2"})
	mock.ExpectSAdd("lr:tag:admin-stats", "lr:admin:stats").SetVal(1)
	mock.ExpectExpire("lr:tag:admin-stats", tagKeyTTL).SetVal(true)
	// 加载期间版本已被 InvalidateTags 推进，脚本拒绝写入
	mock.ExpectEvalSha(setIfTagsUnchangedScript.Hash(), []string{"lr:admin:stats", "lr:tagver:admin-stats"},
		string(payload), int64(60000), "2").SetVal(int64(0))

	got, err := Remember(ctx, store, "admin:stats", time.Minute, []string{"admin-stats"}, func(context.Context) (statsSnapshot, error) {
		return statsSnapshot{Pending: 1}, nil
	})
	if err != nil || got.Pending != 1 {
		t.Fatalf("loaded value should still be returned: %+v err=%v", got, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestRememberWithoutRedisCallsLoader(t *testing.T) {
	store := New(nil)
	calls := 0
	for i := 0; i < 2; i++ {
		if _, err := Remember(context.Background(), store, "k", time.Minute, nil, func(context.Context) (int, error) {
			calls++
			return calls, nil
		}); err != nil {
			t.Fatalf("remember failed: %v", err)
		}
	}
	if calls != 2 {
		t.Fatalf("expected loader on every call without redis, got %d", calls)
	}
	store.InvalidateTags(context.Background(), "settings")
}

func TestInvalidateTagsDeletesMembers(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")

	mock.ExpectIncr("lr:tagver:leave-requests").SetVal(1)
	mock.ExpectSMembers("lr:tag:leave-requests").SetVal([]string{"lr:admin:leave:all:", "lr:admin:leave:pending:an"})
	mock.ExpectDel("lr:admin:leave:all:", "lr:admin:leave:pending:an").SetVal(2)
	mock.ExpectDel("lr:tag:leave-requests").SetVal(1)
	mock.ExpectIncr("lr:tagver:admin-stats").SetVal(4)
	mock.ExpectSMembers("lr:tag:admin-stats").SetVal(nil)
	mock.ExpectDel("lr:tag:admin-stats").SetVal(0)

	store.InvalidateTags(context.Background(), "leave-requests", "admin-stats")
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}

func TestGateStateRoundTrip(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewWithClient(client, "lr")
	ctx := context.Background()

	state := &GateState{UserID: "u-1", Role: "user", Verified: true, UpdatedAt: 100}
	payload, _ := json.Marshal(state)
	mock.ExpectSet("lr:auth:gate:u-1", payload, time.Minute).SetVal("OK")
	mock.ExpectGet("lr:auth:gate:u-1").SetVal(string(payload))
	mock.ExpectDel("lr:auth:gate:u-1").SetVal(1)

	if err := store.SetGateState(ctx, state, time.Minute); err != nil {
		t.Fatalf("set gate state failed: %v", err)
	}
	got, hit, err := store.GetGateState(ctx, "u-1")
	if err != nil || !hit || !got.Verified || got.Role != "user" {
		t.Fatalf("unexpected gate state: %+v hit=%v err=%v", got, hit, err)
	}
	if err := store.DelGateState(ctx, "u-1"); err != nil {
		t.Fatalf("del gate state failed: %v", err)
	}
	if _, hit, _ := store.GetGateState(ctx, ""); hit {
		t.Fatalf("empty user id must miss")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("redis expectations: %v", err)
	}
}
