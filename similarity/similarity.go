// Package similarity 计算用户两两相似度并维护每个用户的相似度排名。
package similarity

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/procyon-rec/procyon/core"
)

// Engine 是相似度引擎（User-CF 的 u2u 部分）。
//
// 核心思想："兴趣相似的用户，喜欢相似的物品"
//
// 相似度定义（修正 Jaccard）：
//
//	agree    = |L1∩L2| + |D1∩D2|
//	disagree = |L1∩D2| + |D1∩L2|
//	sim      = (agree − disagree) / (agree + disagree) ∈ [-1,1]
//
// -1 表示完全相反，1 表示完全一致。两人没有共同评分物品时相似度
// 定义为 0（中性）：未定义的比值绝不能写进排名。
type Engine struct {
	kv   core.KeyValueStore
	keys *core.KeyBuilder

	// MaxConcurrent 限制并发比较数（0 表示无限制）
	MaxConcurrent int
}

func New(kv core.KeyValueStore, keys *core.KeyBuilder) *Engine {
	return &Engine{kv: kv, keys: keys}
}

// Pairwise 计算两个用户的相似度。结果对称：Pairwise(a,b) == Pairwise(b,a)。
func (e *Engine) Pairwise(ctx context.Context, userID1, userID2 string) (float64, error) {
	liked1 := e.keys.UserLiked(userID1)
	disliked1 := e.keys.UserDisliked(userID1)
	liked2 := e.keys.UserLiked(userID2)
	disliked2 := e.keys.UserDisliked(userID2)

	// 四个交集只需要基数，不需要成员本身
	agreeLiked, err := e.kv.SInterCard(ctx, liked1, liked2)
	if err != nil {
		return 0, err
	}
	agreeDisliked, err := e.kv.SInterCard(ctx, disliked1, disliked2)
	if err != nil {
		return 0, err
	}
	disagree1, err := e.kv.SInterCard(ctx, liked1, disliked2)
	if err != nil {
		return 0, err
	}
	disagree2, err := e.kv.SInterCard(ctx, disliked1, liked2)
	if err != nil {
		return 0, err
	}

	agree := agreeLiked + agreeDisliked
	disagree := disagree1 + disagree2
	overlap := agree + disagree
	if overlap == 0 {
		return 0, nil
	}
	return float64(agree-disagree) / float64(overlap), nil
}

// Rebuild 针对每一个与 userID 至少共同评分过一个物品的其他用户，
// 重算相似度并整体替换 userID 的相似度排名。
//
// 这是全量重建而非增量修补，代价 O(候选数)；候选之间相互独立，
// 并发计算，全部结果收齐后才一次性写入目标排名。
func (e *Engine) Rebuild(ctx context.Context, userID string) error {
	simKey := e.keys.Similarity(userID)

	// 用户评过分的全部物品
	ratedItems, err := e.kv.SUnion(ctx, e.keys.UserLiked(userID), e.keys.UserDisliked(userID))
	if err != nil {
		return err
	}
	if len(ratedItems) == 0 {
		return e.kv.Del(ctx, simKey)
	}

	// 候选 = 这些物品的喜欢者/不喜欢者并集，排除自己
	raterKeys := make([]string, 0, len(ratedItems)*2)
	for _, itemID := range ratedItems {
		raterKeys = append(raterKeys, e.keys.ItemLikedBy(itemID), e.keys.ItemDislikedBy(itemID))
	}
	coRaters, err := e.kv.SUnion(ctx, raterKeys...)
	if err != nil {
		return err
	}
	candidates := coRaters[:0]
	for _, other := range coRaters {
		if other != userID {
			candidates = append(candidates, other)
		}
	}
	if len(candidates) == 0 {
		return e.kv.Del(ctx, simKey)
	}

	var (
		mu      sync.Mutex
		members = make([]core.ScoredMember, 0, len(candidates))
	)
	eg, gctx := errgroup.WithContext(ctx)
	if e.MaxConcurrent > 0 {
		eg.SetLimit(e.MaxConcurrent)
	}
	for _, other := range candidates {
		other := other
		eg.Go(func() error {
			score, err := e.Pairwise(gctx, userID, other)
			if err != nil {
				return err
			}
			mu.Lock()
			members = append(members, core.ScoredMember{Member: other, Score: score})
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	return e.kv.ZReplace(ctx, simKey, members)
}
