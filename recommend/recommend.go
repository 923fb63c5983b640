// Package recommend 基于相似度排名预测用户对未评分物品的亲和度，
// 并维护每个用户截断后的 Top-N 推荐排名。
package recommend

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/procyon-rec/procyon/core"
)

// Engine 是推荐引擎（User-CF 的 u2i 部分）。
//
// 算法流程：
//  1. 取相似度排名前 K 个用户作为正邻域
//     （可选：再取后 K 个作为负邻域，并入他们的不喜欢集合）
//  2. 邻居喜欢的物品取并集作为候选池，剔除用户已评分的物品
//  3. 对每个候选做邻居加权预测
//  4. 整体替换推荐排名，只保留分数最高的 StoreCap 条
//
// 整体替换而非增量修补：推荐必须精确反映*当前*相似度排名，
// 部分修补会让邻域变化后残留过期条目。
type Engine struct {
	kv   core.KeyValueStore
	keys *core.KeyBuilder

	// Neighbors 是邻域大小 K
	Neighbors int

	// StoreCap 是排名保留的最大条数
	StoreCap int

	// IncludeOpposite 为 true 时并入最不相似邻居的不喜欢集合
	IncludeOpposite bool

	// MaxConcurrent 限制并发预测数（0 表示无限制）
	MaxConcurrent int
}

func New(kv core.KeyValueStore, keys *core.KeyBuilder) *Engine {
	return &Engine{kv: kv, keys: keys}
}

// Predict 预测 userID 对 itemID 的亲和度：
//
//	score = (Σ sim(喜欢过它的人) − Σ sim(不喜欢过它的人)) / (喜欢数 + 不喜欢数)
//
// 分母为 0 或结果非有限数时定义为 0.0（中性），不向外传播。
func (e *Engine) Predict(ctx context.Context, userID, itemID string) (float64, error) {
	simKey := e.keys.Similarity(userID)

	likedSum, likedCount, err := e.similaritySum(ctx, simKey, e.keys.ItemLikedBy(itemID))
	if err != nil {
		return 0, err
	}
	dislikedSum, dislikedCount, err := e.similaritySum(ctx, simKey, e.keys.ItemDislikedBy(itemID))
	if err != nil {
		return 0, err
	}

	total := likedCount + dislikedCount
	if total == 0 {
		return 0, nil
	}
	prediction := (likedSum - dislikedSum) / float64(total)
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, nil
	}
	return prediction, nil
}

// similaritySum 返回 (compKey 集合成员在相似度排名中的分数之和, 集合基数)。
// 不在排名中的成员按 0 计。
func (e *Engine) similaritySum(ctx context.Context, simKey, compKey string) (float64, int64, error) {
	members, err := e.kv.SMembers(ctx, compKey)
	if err != nil {
		return 0, 0, err
	}
	if len(members) == 0 {
		return 0, 0, nil
	}
	// 一次批量查询拿齐全部分数，避免逐成员往返
	scores, err := e.kv.ZMScore(ctx, simKey, members...)
	if err != nil {
		return 0, 0, err
	}
	var sum float64
	for _, score := range scores {
		sum += score
	}
	return sum, int64(len(members)), nil
}

// Rebuild 基于当前相似度排名整体重建 userID 的推荐排名。
func (e *Engine) Rebuild(ctx context.Context, userID string) error {
	simKey := e.keys.Similarity(userID)
	recKey := e.keys.Recommendations(userID)
	scratchKey := e.keys.ScratchAllLiked(userID)

	neighbors := e.Neighbors
	if neighbors <= 0 {
		neighbors = 5 // 默认邻域大小
	}

	mostSimilar, err := e.kv.ZRangeDesc(ctx, simKey, 0, int64(neighbors)-1)
	if err != nil {
		return err
	}
	sources := make([]string, 0, len(mostSimilar)*2)
	for _, neighbor := range mostSimilar {
		sources = append(sources, e.keys.UserLiked(neighbor))
	}
	if e.IncludeOpposite {
		leastSimilar, err := e.kv.ZRangeAsc(ctx, simKey, 0, int64(neighbors)-1)
		if err != nil {
			return err
		}
		for _, neighbor := range leastSimilar {
			sources = append(sources, e.keys.UserDisliked(neighbor))
		}
	}
	if len(sources) == 0 {
		return e.kv.Del(ctx, recKey)
	}

	// 候选池在服务端生成：并集落到临时 key，再差掉自己评过的物品。
	// 已评分物品绝不会被推荐。
	if _, err := e.kv.SUnionStore(ctx, scratchKey, sources...); err != nil {
		return err
	}
	candidates, err := e.kv.SDiff(ctx, scratchKey, e.keys.UserLiked(userID), e.keys.UserDisliked(userID))
	if derr := e.kv.Del(ctx, scratchKey); derr != nil && err == nil {
		err = derr
	}
	if err != nil {
		return err
	}
	if len(candidates) == 0 {
		return e.kv.Del(ctx, recKey)
	}

	var (
		mu      sync.Mutex
		members = make([]core.ScoredMember, 0, len(candidates))
	)
	eg, gctx := errgroup.WithContext(ctx)
	if e.MaxConcurrent > 0 {
		eg.SetLimit(e.MaxConcurrent)
	}
	for _, itemID := range candidates {
		itemID := itemID
		eg.Go(func() error {
			score, err := e.Predict(gctx, userID, itemID)
			if err != nil {
				return err
			}
			mu.Lock()
			members = append(members, core.ScoredMember{Member: itemID, Score: score})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	// 全部预测收齐后才替换目标排名，然后截断到 StoreCap 条最高分
	if err := e.kv.ZReplace(ctx, recKey, members); err != nil {
		return err
	}
	return e.trim(ctx, recKey)
}

func (e *Engine) trim(ctx context.Context, recKey string) error {
	if e.StoreCap <= 0 {
		return nil
	}
	count, err := e.kv.ZCard(ctx, recKey)
	if err != nil {
		return err
	}
	if count <= int64(e.StoreCap) {
		return nil
	}
	// 升序排名区间 [0, count-cap-1] 正是分数最低的溢出部分
	return e.kv.ZRemRangeByRank(ctx, recKey, 0, count-int64(e.StoreCap)-1)
}
