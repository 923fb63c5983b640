// Package popularity 用 Wilson 得分下界维护全局"最佳评价"计分板。
package popularity

import (
	"context"
	"math"

	"github.com/procyon-rec/procyon/core"
)

// DefaultZ 对应 95% 置信区间。
const DefaultZ = 1.96

// Engine 是热度排名引擎。
//
// Wilson 下界是"最佳评价"的代理指标：在找出喜欢比例最高的物品的
// 同时修正小样本（样本越少，打的折扣越大）。取值范围 [0,1]。
//
// 两条单调性是它的契约：固定样本数 n 时随喜欢比例严格上升；
// 固定比例时随 n 上升向该比例收紧。
type Engine struct {
	kv   core.KeyValueStore
	keys *core.KeyBuilder

	// Z 是置信系数。零值约定为"未设置"，Rebuild 会改用 DefaultZ；
	// z=0 本身不是有意义的置信系数（区间退化成点估计），所以零值
	// 不会被当作显式配置。
	Z float64
}

func New(kv core.KeyValueStore, keys *core.KeyBuilder) *Engine {
	return &Engine{kv: kv, keys: keys}
}

// Rebuild 重算 itemID 的 Wilson 得分并发布到计分板，覆盖旧分数。
// 物品还没有任何评分时不做任何事（尚不可排名）。
func (e *Engine) Rebuild(ctx context.Context, itemID string) error {
	likes, err := e.kv.SCard(ctx, e.keys.ItemLikedBy(itemID))
	if err != nil {
		return err
	}
	dislikes, err := e.kv.SCard(ctx, e.keys.ItemDislikedBy(itemID))
	if err != nil {
		return err
	}
	if likes+dislikes == 0 {
		return nil
	}

	z := e.Z
	if z == 0 {
		z = DefaultZ
	}
	score := WilsonLowerBound(likes, dislikes, z)
	return e.kv.ZAdd(ctx, e.keys.Scoreboard(), score, itemID)
}

// WilsonLowerBound 计算二项比例的 Wilson 置信区间下界。
// likes+dislikes 必须大于 0。
// 参考: http://www.evanmiller.org/how-not-to-sort-by-average-rating.html
func WilsonLowerBound(likes, dislikes int64, z float64) float64 {
	n := float64(likes + dislikes)
	p := float64(likes) / n
	z2 := z * z
	return (p + z2/(2*n) - z*math.Sqrt((p*(1-p)+z2/(4*n))/n)) / (1 + z2/n)
}
