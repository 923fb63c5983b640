package procyon

import (
	"context"

	"github.com/procyon-rec/procyon/core"
	"github.com/procyon-rec/procyon/pkg/conv"
)

// RecommendFor 返回 userID 当前的推荐物品，预测分最高的在前。
func (p *Procyon) RecommendFor(ctx context.Context, userID any, count int) ([]string, error) {
	if count <= 0 {
		return nil, nil
	}
	return p.kv.ZRangeDesc(ctx, p.keys.Recommendations(conv.ID(userID)), 0, int64(count)-1)
}

// BestRated 返回计分板上的全部物品，Wilson 得分最高的在前。
func (p *Procyon) BestRated(ctx context.Context) ([]string, error) {
	return p.kv.ZRangeDesc(ctx, p.keys.Scoreboard(), 0, -1)
}

// WorstRated 返回计分板上的全部物品，Wilson 得分最低的在前。
func (p *Procyon) WorstRated(ctx context.Context) ([]string, error) {
	return p.kv.ZRangeAsc(ctx, p.keys.Scoreboard(), 0, -1)
}

// BestRatedWithScores 返回计分板前 count 个 (物品, 得分) 对。
func (p *Procyon) BestRatedWithScores(ctx context.Context, count int) ([]core.ScoredMember, error) {
	if count <= 0 {
		return nil, nil
	}
	return p.kv.ZRangeDescWithScores(ctx, p.keys.Scoreboard(), 0, int64(count)-1)
}

// MostLiked 返回被喜欢次数最多的物品，次数多的在前。
func (p *Procyon) MostLiked(ctx context.Context) ([]string, error) {
	return p.kv.ZRangeDesc(ctx, p.keys.MostLiked(), 0, -1)
}

// MostDisliked 返回被不喜欢次数最多的物品，次数多的在前。
func (p *Procyon) MostDisliked(ctx context.Context) ([]string, error) {
	return p.kv.ZRangeDesc(ctx, p.keys.MostDisliked(), 0, -1)
}

// MostSimilarUsers 返回与 userID 最相似的用户，相似度高的在前。
func (p *Procyon) MostSimilarUsers(ctx context.Context, userID any) ([]string, error) {
	return p.kv.ZRangeDesc(ctx, p.keys.Similarity(conv.ID(userID)), 0, -1)
}

// LeastSimilarUsers 返回与 userID 最不相似的用户，相似度低的在前。
func (p *Procyon) LeastSimilarUsers(ctx context.Context, userID any) ([]string, error) {
	return p.kv.ZRangeAsc(ctx, p.keys.Similarity(conv.ID(userID)), 0, -1)
}

// LikedBy 返回喜欢过 itemID 的用户集合。
func (p *Procyon) LikedBy(ctx context.Context, itemID any) ([]string, error) {
	return p.kv.SMembers(ctx, p.keys.ItemLikedBy(conv.ID(itemID)))
}

// LikedCount 返回喜欢过 itemID 的用户数。
func (p *Procyon) LikedCount(ctx context.Context, itemID any) (int64, error) {
	return p.kv.SCard(ctx, p.keys.ItemLikedBy(conv.ID(itemID)))
}

// DislikedBy 返回不喜欢过 itemID 的用户集合。
func (p *Procyon) DislikedBy(ctx context.Context, itemID any) ([]string, error) {
	return p.kv.SMembers(ctx, p.keys.ItemDislikedBy(conv.ID(itemID)))
}

// DislikedCount 返回不喜欢过 itemID 的用户数。
func (p *Procyon) DislikedCount(ctx context.Context, itemID any) (int64, error) {
	return p.kv.SCard(ctx, p.keys.ItemDislikedBy(conv.ID(itemID)))
}

// AllLikedFor 返回 userID 喜欢过的全部物品。
func (p *Procyon) AllLikedFor(ctx context.Context, userID any) ([]string, error) {
	return p.kv.SMembers(ctx, p.keys.UserLiked(conv.ID(userID)))
}

// AllDislikedFor 返回 userID 不喜欢过的全部物品。
func (p *Procyon) AllDislikedFor(ctx context.Context, userID any) ([]string, error) {
	return p.kv.SMembers(ctx, p.keys.UserDisliked(conv.ID(userID)))
}

// AllWatchedFor 返回 userID 评过分（无论喜欢与否）的全部物品。
func (p *Procyon) AllWatchedFor(ctx context.Context, userID any) ([]string, error) {
	uid := conv.ID(userID)
	return p.kv.SUnion(ctx, p.keys.UserLiked(uid), p.keys.UserDisliked(uid))
}
