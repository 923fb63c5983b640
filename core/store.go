package core

import "context"

// ScoredMember 是有序集合中的一个 (成员, 分数) 对。
type ScoredMember struct {
	Member string
	Score  float64
}

// KeyValueStore 是存储的领域接口，覆盖引擎需要的集合与有序集合原语。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 遵循依赖倒置原则：领域层定义接口，基础设施层实现接口
//   - 单条命令具有原子语义：SAdd/SRem 直接报告成员关系是否发生迁移，
//     取代"先查再写"的竞态窗口
//
// 使用场景：
//   - 评分存储：用户/物品的喜欢、不喜欢集合
//   - 排名存储：相似度、推荐、热度、计分板有序集合
//
// 实现：
//   - store.RedisStore 实现此接口（生产）
//   - store.MemoryStore 实现此接口（测试/开发）
type KeyValueStore interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// SAdd 向集合添加成员，返回成员是否为新增（原子迁移检测）
	SAdd(ctx context.Context, key, member string) (bool, error)

	// SRem 从集合移除成员，返回成员是否真的被移除（原子迁移检测）
	SRem(ctx context.Context, key, member string) (bool, error)

	// SIsMember 判断成员是否在集合中
	SIsMember(ctx context.Context, key, member string) (bool, error)

	// SMembers 返回集合全部成员
	SMembers(ctx context.Context, key string) ([]string, error)

	// SCard 返回集合基数
	SCard(ctx context.Context, key string) (int64, error)

	// SInterCard 返回多个集合交集的基数（省去把交集成员拉回客户端）
	SInterCard(ctx context.Context, keys ...string) (int64, error)

	// SUnion 返回多个集合的并集成员
	SUnion(ctx context.Context, keys ...string) ([]string, error)

	// SUnionStore 将多个集合的并集写入 dst，返回并集基数
	SUnionStore(ctx context.Context, dst string, keys ...string) (int64, error)

	// SDiff 返回第一个集合减去其余集合的差集成员
	SDiff(ctx context.Context, keys ...string) ([]string, error)

	// ZAdd 向有序集合添加/覆盖单个成员
	ZAdd(ctx context.Context, key string, score float64, member string) error

	// ZIncrBy 对有序集合成员的分数做原子增量，返回新分数
	ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error)

	// ZRem 从有序集合移除单个成员
	ZRem(ctx context.Context, key, member string) error

	// ZScore 获取成员的分数；成员不存在返回 ErrStoreNotFound
	ZScore(ctx context.Context, key, member string) (float64, error)

	// ZMScore 批量获取成员分数（减少网络往返）；缺失的成员分数为 0
	ZMScore(ctx context.Context, key string, members ...string) ([]float64, error)

	// ZCard 返回有序集合基数
	ZCard(ctx context.Context, key string) (int64, error)

	// ZRangeAsc 按分数升序返回 [start, stop] 排名区间的成员
	ZRangeAsc(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZRangeDesc 按分数降序返回 [start, stop] 排名区间的成员
	ZRangeDesc(ctx context.Context, key string, start, stop int64) ([]string, error)

	// ZRangeDescWithScores 按分数降序返回排名区间的 (成员, 分数) 对
	ZRangeDescWithScores(ctx context.Context, key string, start, stop int64) ([]ScoredMember, error)

	// ZRemRangeByRank 删除升序排名区间 [start, stop] 内的成员
	ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error

	// ZReplace 原子地整体替换有序集合内容（删除 + 批量写入，单个事务）。
	// members 为空时等价于删除该 key。排名是评分集合的纯函数缓存，
	// 只允许整体重建，不允许部分修补。
	ZReplace(ctx context.Context, key string, members []ScoredMember) error

	// Del 删除若干 key
	Del(ctx context.Context, keys ...string) error

	// Close 关闭连接/释放资源
	Close() error
}
