package core

import "strings"

// KeyBuilder 负责构造所有集合/有序集合的存储 key。
//
// key 结构：<namespace>:<实体类型>:<id>:<后缀>，例如 "movie:user:42:liked"。
// namespace 来自配置（默认目录名），让多个独立推荐域共享同一个存储实例
// 而不发生 key 冲突。KeyBuilder 自身无状态，只做字符串拼接。
type KeyBuilder struct {
	namespace string
}

func NewKeyBuilder(namespace string) *KeyBuilder {
	return &KeyBuilder{namespace: namespace}
}

func (k *KeyBuilder) join(parts ...string) string {
	return k.namespace + ":" + strings.Join(parts, ":")
}

// UserLiked 用户喜欢的物品集合
func (k *KeyBuilder) UserLiked(userID string) string {
	return k.join("user", userID, "liked")
}

// UserDisliked 用户不喜欢的物品集合
func (k *KeyBuilder) UserDisliked(userID string) string {
	return k.join("user", userID, "disliked")
}

// ItemLikedBy 喜欢某物品的用户集合（UserLiked 的镜像）
func (k *KeyBuilder) ItemLikedBy(itemID string) string {
	return k.join("item", itemID, "liked")
}

// ItemDislikedBy 不喜欢某物品的用户集合（UserDisliked 的镜像）
func (k *KeyBuilder) ItemDislikedBy(itemID string) string {
	return k.join("item", itemID, "disliked")
}

// Similarity 用户的相似度排名（成员=其他用户，分数 ∈ [-1,1]）
func (k *KeyBuilder) Similarity(userID string) string {
	return k.join("user", userID, "similarityZSet")
}

// Recommendations 用户的推荐排名（成员=物品，分数=预测亲和度）
func (k *KeyBuilder) Recommendations(userID string) string {
	return k.join("user", userID, "recommendedZSet")
}

// ScratchAllLiked 候选生成用的临时并集集合，重建结束即删除
func (k *KeyBuilder) ScratchAllLiked(userID string) string {
	return k.join("user", userID, "tempAllLikedSet")
}

// MostLiked 全局"最多喜欢"热度计数
func (k *KeyBuilder) MostLiked() string {
	return k.namespace + ":mostLiked"
}

// MostDisliked 全局"最多不喜欢"热度计数
func (k *KeyBuilder) MostDisliked() string {
	return k.namespace + ":mostDisliked"
}

// Scoreboard 全局计分板（成员=物品，分数=Wilson 下界 ∈ [0,1]）
func (k *KeyBuilder) Scoreboard() string {
	return k.namespace + ":scoreboard"
}
