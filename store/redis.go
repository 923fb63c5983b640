package store

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/procyon-rec/procyon/core"
)

// RedisStore 是 Redis 实现的 KeyValueStore。
// 生产环境常用，支持持久化、集群、哨兵等。
//
// 连接在系统启动时创建一次，进程生命周期内复用；优雅停机时调用 Close。
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr, auth string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: auth,
		DB:       db,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, core.NewStoreConnectionError(err)
	}
	return &RedisStore{client: client}, nil
}

func (r *RedisStore) Name() string { return "redis" }

func (r *RedisStore) SAdd(ctx context.Context, key, member string) (bool, error) {
	added, err := r.client.SAdd(ctx, key, member).Result()
	if err != nil {
		return false, core.NewStoreCommandError("sadd", err)
	}
	return added > 0, nil
}

func (r *RedisStore) SRem(ctx context.Context, key, member string) (bool, error) {
	removed, err := r.client.SRem(ctx, key, member).Result()
	if err != nil {
		return false, core.NewStoreCommandError("srem", err)
	}
	return removed > 0, nil
}

func (r *RedisStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	ok, err := r.client.SIsMember(ctx, key, member).Result()
	if err != nil {
		return false, core.NewStoreCommandError("sismember", err)
	}
	return ok, nil
}

func (r *RedisStore) SMembers(ctx context.Context, key string) ([]string, error) {
	members, err := r.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("smembers", err)
	}
	return members, nil
}

func (r *RedisStore) SCard(ctx context.Context, key string) (int64, error) {
	n, err := r.client.SCard(ctx, key).Result()
	if err != nil {
		return 0, core.NewStoreCommandError("scard", err)
	}
	return n, nil
}

func (r *RedisStore) SInterCard(ctx context.Context, keys ...string) (int64, error) {
	n, err := r.client.SInterCard(ctx, 0, keys...).Result()
	if err != nil {
		return 0, core.NewStoreCommandError("sintercard", err)
	}
	return n, nil
}

func (r *RedisStore) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	members, err := r.client.SUnion(ctx, keys...).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("sunion", err)
	}
	return members, nil
}

func (r *RedisStore) SUnionStore(ctx context.Context, dst string, keys ...string) (int64, error) {
	n, err := r.client.SUnionStore(ctx, dst, keys...).Result()
	if err != nil {
		return 0, core.NewStoreCommandError("sunionstore", err)
	}
	return n, nil
}

func (r *RedisStore) SDiff(ctx context.Context, keys ...string) ([]string, error) {
	members, err := r.client.SDiff(ctx, keys...).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("sdiff", err)
	}
	return members, nil
}

func (r *RedisStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	if err := r.client.ZAdd(ctx, key, redis.Z{Score: score, Member: member}).Err(); err != nil {
		return core.NewStoreCommandError("zadd", err)
	}
	return nil
}

func (r *RedisStore) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	score, err := r.client.ZIncrBy(ctx, key, increment, member).Result()
	if err != nil {
		return 0, core.NewStoreCommandError("zincrby", err)
	}
	return score, nil
}

func (r *RedisStore) ZRem(ctx context.Context, key, member string) error {
	if err := r.client.ZRem(ctx, key, member).Err(); err != nil {
		return core.NewStoreCommandError("zrem", err)
	}
	return nil
}

func (r *RedisStore) ZScore(ctx context.Context, key, member string) (float64, error) {
	score, err := r.client.ZScore(ctx, key, member).Result()
	if err == redis.Nil {
		return 0, core.ErrStoreNotFound
	}
	if err != nil {
		return 0, core.NewStoreCommandError("zscore", err)
	}
	return score, nil
}

func (r *RedisStore) ZMScore(ctx context.Context, key string, members ...string) ([]float64, error) {
	if len(members) == 0 {
		return nil, nil
	}
	// ZMSCORE 对缺失成员返回 nil，go-redis 解析为 0，与接口约定一致
	scores, err := r.client.ZMScore(ctx, key, members...).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("zmscore", err)
	}
	return scores, nil
}

func (r *RedisStore) ZCard(ctx context.Context, key string) (int64, error) {
	n, err := r.client.ZCard(ctx, key).Result()
	if err != nil {
		return 0, core.NewStoreCommandError("zcard", err)
	}
	return n, nil
}

func (r *RedisStore) ZRangeAsc(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.client.ZRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("zrange", err)
	}
	return members, nil
}

func (r *RedisStore) ZRangeDesc(ctx context.Context, key string, start, stop int64) ([]string, error) {
	members, err := r.client.ZRevRange(ctx, key, start, stop).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("zrevrange", err)
	}
	return members, nil
}

func (r *RedisStore) ZRangeDescWithScores(ctx context.Context, key string, start, stop int64) ([]core.ScoredMember, error) {
	zs, err := r.client.ZRevRangeWithScores(ctx, key, start, stop).Result()
	if err != nil {
		return nil, core.NewStoreCommandError("zrevrange", err)
	}
	members := make([]core.ScoredMember, 0, len(zs))
	for _, z := range zs {
		member, _ := z.Member.(string)
		members = append(members, core.ScoredMember{Member: member, Score: z.Score})
	}
	return members, nil
}

func (r *RedisStore) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error {
	if err := r.client.ZRemRangeByRank(ctx, key, start, stop).Err(); err != nil {
		return core.NewStoreCommandError("zremrangebyrank", err)
	}
	return nil
}

func (r *RedisStore) ZReplace(ctx context.Context, key string, members []core.ScoredMember) error {
	// DEL + ZADD 放在一个事务管道中，保证替换是原子的：
	// 并发读方要么看到旧排名，要么看到完整的新排名，不会看到半成品
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		zs := make([]redis.Z, 0, len(members))
		for _, m := range members {
			zs = append(zs, redis.Z{Score: m.Score, Member: m.Member})
		}
		pipe.ZAdd(ctx, key, zs...)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return core.NewStoreCommandError("zreplace", err)
	}
	return nil
}

func (r *RedisStore) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return core.NewStoreCommandError("del", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

// 确保 RedisStore 实现了 core.KeyValueStore 接口
var _ core.KeyValueStore = (*RedisStore)(nil)
