// Package rating 记录和撤销用户对物品的喜欢/不喜欢，并维护全局热度计数。
package rating

import (
	"context"

	"github.com/procyon-rec/procyon/core"
)

// Store 是评分存储（Rating Store）。
//
// 每条评分体现为四个集合的成员关系：用户侧的喜欢/不喜欢集合，
// 以及物品侧的镜像集合。热度计数（mostLiked / mostDisliked）只在
// 成员关系发生*迁移*时变化：首次添加 +1，真正移除 −1，重复操作不计数。
//
// 迁移判定直接取自 SAdd/SRem 的原子返回值，不存在
// "先查成员、再写计数"的竞态窗口。
type Store struct {
	kv   core.KeyValueStore
	keys *core.KeyBuilder
}

func New(kv core.KeyValueStore, keys *core.KeyBuilder) *Store {
	return &Store{kv: kv, keys: keys}
}

// SetRating 添加或移除一条评分，返回物品侧成员关系是否真的变化。
//
// 返回 false 表示是无效操作（重复添加、移除不存在的评分），
// 调用方据此跳过下游的重算。
//
// 添加喜欢时会先撤销同一 (用户, 物品) 上的不喜欢（反之亦然），
// 保证喜欢/不喜欢集合对同一物品互斥。
func (s *Store) SetRating(ctx context.Context, userID, itemID string, liked, remove bool) (bool, error) {
	if !remove {
		// 互斥：同一对 (用户, 物品) 不能同时出现在两种集合里
		if _, err := s.remove(ctx, userID, itemID, !liked); err != nil {
			return false, err
		}
		return s.add(ctx, userID, itemID, liked)
	}
	return s.remove(ctx, userID, itemID, liked)
}

func (s *Store) add(ctx context.Context, userID, itemID string, liked bool) (bool, error) {
	itemSet, userSet, counter := s.ratingKeys(userID, itemID, liked)

	added, err := s.kv.SAdd(ctx, itemSet, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.kv.SAdd(ctx, userSet, itemID); err != nil {
		return false, err
	}
	if added {
		if _, err := s.kv.ZIncrBy(ctx, counter, 1, itemID); err != nil {
			return false, err
		}
	}
	return added, nil
}

func (s *Store) remove(ctx context.Context, userID, itemID string, liked bool) (bool, error) {
	itemSet, userSet, counter := s.ratingKeys(userID, itemID, liked)

	removed, err := s.kv.SRem(ctx, itemSet, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.kv.SRem(ctx, userSet, itemID); err != nil {
		return false, err
	}
	if removed {
		score, err := s.kv.ZIncrBy(ctx, counter, -1, itemID)
		if err != nil {
			return false, err
		}
		// 计数归零后把成员从计数器里清掉，让"喜欢再撤销"完全还原状态
		if score <= 0 {
			if err := s.kv.ZRem(ctx, counter, itemID); err != nil {
				return false, err
			}
		}
	}
	return removed, nil
}

func (s *Store) ratingKeys(userID, itemID string, liked bool) (itemSet, userSet, counter string) {
	if liked {
		return s.keys.ItemLikedBy(itemID), s.keys.UserLiked(userID), s.keys.MostLiked()
	}
	return s.keys.ItemDislikedBy(itemID), s.keys.UserDisliked(userID), s.keys.MostDisliked()
}
