package procyon

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/procyon-rec/procyon/config"
	"github.com/procyon-rec/procyon/core"
	"github.com/procyon-rec/procyon/pkg/conv"
	"github.com/procyon-rec/procyon/popularity"
	"github.com/procyon-rec/procyon/rating"
	"github.com/procyon-rec/procyon/recommend"
	"github.com/procyon-rec/procyon/similarity"
	"github.com/procyon-rec/procyon/store"
)

// Procyon 是引擎的对外门面：记录反馈、触发重算、查询排名。
//
// 一个 Procyon 实例持有一个长生命周期的存储连接（进程启动时创建，
// 进程内复用），以及全部配置。没有任何进程级单例，多个实例可以用
// 不同 namespace 共享同一个存储。
type Procyon struct {
	cfg  *config.Config
	kv   core.KeyValueStore
	keys *core.KeyBuilder
	log  zerolog.Logger

	ratings      *rating.Store
	similarities *similarity.Engine
	recommender  *recommend.Engine
	scoreboard   *popularity.Engine

	locks *userLocks
}

// Option 配置 Procyon 实例。
type Option func(*Procyon)

// WithLogger 注入结构化日志器（默认不输出）。
func WithLogger(log zerolog.Logger) Option {
	return func(p *Procyon) { p.log = log }
}

// New 按配置建立 Redis 连接并创建引擎。
// 连接失败返回 CONNECTION 类错误，调用方应带退避重试。
func New(cfg *config.Config, opts ...Option) (*Procyon, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	kv, err := store.NewRedisStore(cfg.Redis.Addr(), cfg.Redis.Auth, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	return NewWithStore(cfg, kv, opts...), nil
}

// NewWithStore 用外部提供的存储创建引擎（测试时配合 store.MemoryStore）。
func NewWithStore(cfg *config.Config, kv core.KeyValueStore, opts ...Option) *Procyon {
	if cfg == nil {
		cfg = config.Default()
	}
	keys := core.NewKeyBuilder(cfg.Namespace)

	p := &Procyon{
		cfg:     cfg,
		kv:      kv,
		keys:    keys,
		log:     zerolog.Nop(),
		ratings: rating.New(kv, keys),
		locks:   newUserLocks(),
	}

	p.similarities = similarity.New(kv, keys)
	p.similarities.MaxConcurrent = cfg.MaxConcurrent

	p.recommender = recommend.New(kv, keys)
	p.recommender.Neighbors = cfg.NearestNeighbors
	p.recommender.StoreCap = cfg.NumOfRecsStore
	p.recommender.IncludeOpposite = cfg.FactorLeastSimilarLeastLiked
	p.recommender.MaxConcurrent = cfg.MaxConcurrent

	p.scoreboard = popularity.New(kv, keys)
	p.scoreboard.Z = cfg.WilsonZ

	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Close 关闭存储连接（优雅停机时调用）。
func (p *Procyon) Close() error {
	return p.kv.Close()
}

type rateOptions struct {
	updateRecs bool
}

// RateOption 配置单次评分操作。
type RateOption func(*rateOptions)

// WithoutRecommendationUpdate 只记录评分并更新计分板，
// 跳过推荐排名的重算（批量导入历史数据时常用）。
func WithoutRecommendationUpdate() RateOption {
	return func(o *rateOptions) { o.updateRecs = false }
}

// Liked 记录 userID 喜欢 itemID。
func (p *Procyon) Liked(ctx context.Context, userID, itemID any, opts ...RateOption) error {
	return p.changeRating(ctx, userID, itemID, true, false, opts)
}

// Disliked 记录 userID 不喜欢 itemID。
func (p *Procyon) Disliked(ctx context.Context, userID, itemID any, opts ...RateOption) error {
	return p.changeRating(ctx, userID, itemID, false, false, opts)
}

// Unliked 撤销 userID 对 itemID 的喜欢。
func (p *Procyon) Unliked(ctx context.Context, userID, itemID any, opts ...RateOption) error {
	return p.changeRating(ctx, userID, itemID, true, true, opts)
}

// Undisliked 撤销 userID 对 itemID 的不喜欢。
func (p *Procyon) Undisliked(ctx context.Context, userID, itemID any, opts ...RateOption) error {
	return p.changeRating(ctx, userID, itemID, false, true, opts)
}

func (p *Procyon) changeRating(ctx context.Context, userID, itemID any, liked, remove bool, opts []RateOption) error {
	o := rateOptions{updateRecs: true}
	for _, opt := range opts {
		opt(&o)
	}

	uid := conv.ID(userID)
	iid := conv.ID(itemID)

	changed, err := p.ratings.SetRating(ctx, uid, iid, liked, remove)
	if err != nil {
		return err
	}
	// 无效操作（重复添加、移除不存在的评分）不触发下游重算
	if !changed {
		return nil
	}
	return p.updateSequence(ctx, uid, iid, o.updateRecs)
}

// updateSequence 是评分变化事件的编排：
//
//  1. 先完成相似度重建（推荐消费相似度排名，绝不允许跑在过期数据上）
//  2. 然后计分板重建与推荐重建并发执行，互不依赖
//
// 用户锁只覆盖相似度与推荐两个按用户的排名：计分板分支不读写任何
// 按用户的状态，在推荐落盘、锁释放之后可以继续收尾，不拖长同一
// 用户下一次重建的等待。
//
// 两个并发分支的失败相互隔离：一支失败不阻止另一支完成并落盘，
// 但任何一支的失败都会上报给触发操作的调用方。
func (p *Procyon) updateSequence(ctx context.Context, userID, itemID string, updateRecs bool) error {
	release := p.locks.acquire(userID)

	if err := p.similarities.Rebuild(ctx, userID); err != nil {
		release()
		return err
	}

	// 不用 WithContext：一支失败不应该取消另一支
	var eg errgroup.Group
	eg.Go(func() error {
		if err := p.scoreboard.Rebuild(ctx, itemID); err != nil {
			p.log.Error().Err(err).Str("item", itemID).Msg("wilson score rebuild failed")
			return err
		}
		return nil
	})

	var recErr error
	if updateRecs {
		if err := p.recommender.Rebuild(ctx, userID); err != nil {
			p.log.Error().Err(err).Str("user", userID).Msg("recommendation rebuild failed")
			recErr = err
		}
	}
	release()

	// 事件要等两支都结束才算完成
	if err := eg.Wait(); err != nil {
		return err
	}
	return recErr
}
