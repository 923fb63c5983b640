package store

import (
	"context"
	"sort"
	"sync"

	"github.com/procyon-rec/procyon/core"
)

// MemoryStore 是内存实现的 KeyValueStore，用于测试/开发/原型。
// 进程重启后数据丢失。所有操作在同一把锁下完成，天然满足单命令原子语义。
type MemoryStore struct {
	mu    sync.RWMutex
	sets  map[string]map[string]struct{}
	zsets map[string]map[string]float64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sets:  make(map[string]map[string]struct{}),
		zsets: make(map[string]map[string]float64),
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) SAdd(ctx context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		set = make(map[string]struct{})
		m.sets[key] = set
	}
	if _, exists := set[member]; exists {
		return false, nil
	}
	set[member] = struct{}{}
	return true, nil
}

func (m *MemoryStore) SRem(ctx context.Context, key, member string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[key]
	if !ok {
		return false, nil
	}
	if _, exists := set[member]; !exists {
		return false, nil
	}
	delete(set, member)
	if len(set) == 0 {
		delete(m.sets, key)
	}
	return true, nil
}

func (m *MemoryStore) SIsMember(ctx context.Context, key, member string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.sets[key][member]
	return ok, nil
}

func (m *MemoryStore) SMembers(ctx context.Context, key string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.sets[key]
	members := make([]string, 0, len(set))
	for member := range set {
		members = append(members, member)
	}
	return members, nil
}

func (m *MemoryStore) SCard(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.sets[key])), nil
}

func (m *MemoryStore) SInterCard(ctx context.Context, keys ...string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(keys) == 0 {
		return 0, nil
	}
	var count int64
	for member := range m.sets[keys[0]] {
		inAll := true
		for _, key := range keys[1:] {
			if _, ok := m.sets[key][member]; !ok {
				inAll = false
				break
			}
		}
		if inAll {
			count++
		}
	}
	return count, nil
}

func (m *MemoryStore) SUnion(ctx context.Context, keys ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.unionLocked(keys), nil
}

func (m *MemoryStore) unionLocked(keys []string) []string {
	seen := make(map[string]struct{})
	for _, key := range keys {
		for member := range m.sets[key] {
			seen[member] = struct{}{}
		}
	}
	members := make([]string, 0, len(seen))
	for member := range seen {
		members = append(members, member)
	}
	return members
}

func (m *MemoryStore) SUnionStore(ctx context.Context, dst string, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	union := m.unionLocked(keys)
	set := make(map[string]struct{}, len(union))
	for _, member := range union {
		set[member] = struct{}{}
	}
	if len(set) == 0 {
		delete(m.sets, dst)
		return 0, nil
	}
	m.sets[dst] = set
	return int64(len(set)), nil
}

func (m *MemoryStore) SDiff(ctx context.Context, keys ...string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(keys) == 0 {
		return nil, nil
	}
	members := make([]string, 0, len(m.sets[keys[0]]))
	for member := range m.sets[keys[0]] {
		excluded := false
		for _, key := range keys[1:] {
			if _, ok := m.sets[key][member]; ok {
				excluded = true
				break
			}
		}
		if !excluded {
			members = append(members, member)
		}
	}
	return members, nil
}

func (m *MemoryStore) ZAdd(ctx context.Context, key string, score float64, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] = score
	return nil
}

func (m *MemoryStore) ZIncrBy(ctx context.Context, key string, increment float64, member string) (float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.zsets[key] == nil {
		m.zsets[key] = make(map[string]float64)
	}
	m.zsets[key][member] += increment
	return m.zsets[key][member], nil
}

func (m *MemoryStore) ZRem(ctx context.Context, key, member string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	zset, ok := m.zsets[key]
	if !ok {
		return nil
	}
	delete(zset, member)
	if len(zset) == 0 {
		delete(m.zsets, key)
	}
	return nil
}

func (m *MemoryStore) ZScore(ctx context.Context, key, member string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	zset, ok := m.zsets[key]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	score, ok := zset[member]
	if !ok {
		return 0, core.ErrStoreNotFound
	}
	return score, nil
}

func (m *MemoryStore) ZMScore(ctx context.Context, key string, members ...string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	scores := make([]float64, len(members))
	zset := m.zsets[key]
	for i, member := range members {
		scores[i] = zset[member] // 缺失成员分数为 0，与接口约定一致
	}
	return scores, nil
}

func (m *MemoryStore) ZCard(ctx context.Context, key string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.zsets[key])), nil
}

// sortedLocked 返回按 (分数, 成员) 升序排列的成员列表，与 Redis 的
// 排序规则一致（同分时按成员字典序）。
func (m *MemoryStore) sortedLocked(key string) []core.ScoredMember {
	zset := m.zsets[key]
	pairs := make([]core.ScoredMember, 0, len(zset))
	for member, score := range zset {
		pairs = append(pairs, core.ScoredMember{Member: member, Score: score})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Score != pairs[j].Score {
			return pairs[i].Score < pairs[j].Score
		}
		return pairs[i].Member < pairs[j].Member
	})
	return pairs
}

// clampRange 将 Redis 风格的区间（支持负索引，-1 表示末尾）归一化。
// 区间为空时返回 (0, -1)。
func clampRange(start, stop, n int64) (int64, int64) {
	if start < 0 {
		start += n
	}
	if stop < 0 {
		stop += n
	}
	if start < 0 {
		start = 0
	}
	if stop >= n {
		stop = n - 1
	}
	if start > stop || n == 0 {
		return 0, -1
	}
	return start, stop
}

func (m *MemoryStore) ZRangeAsc(ctx context.Context, key string, start, stop int64) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pairs := m.sortedLocked(key)
	start, stop = clampRange(start, stop, int64(len(pairs)))
	members := make([]string, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		members = append(members, pairs[i].Member)
	}
	return members, nil
}

func (m *MemoryStore) ZRangeDesc(ctx context.Context, key string, start, stop int64) ([]string, error) {
	pairs, err := m.ZRangeDescWithScores(ctx, key, start, stop)
	if err != nil {
		return nil, err
	}
	members := make([]string, 0, len(pairs))
	for _, p := range pairs {
		members = append(members, p.Member)
	}
	return members, nil
}

func (m *MemoryStore) ZRangeDescWithScores(ctx context.Context, key string, start, stop int64) ([]core.ScoredMember, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pairs := m.sortedLocked(key)
	// 降序视图：反转升序结果
	for i, j := 0, len(pairs)-1; i < j; i, j = i+1, j-1 {
		pairs[i], pairs[j] = pairs[j], pairs[i]
	}
	start, stop = clampRange(start, stop, int64(len(pairs)))
	out := make([]core.ScoredMember, 0, stop-start+1)
	for i := start; i <= stop; i++ {
		out = append(out, pairs[i])
	}
	return out, nil
}

func (m *MemoryStore) ZRemRangeByRank(ctx context.Context, key string, start, stop int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	pairs := m.sortedLocked(key)
	start, stop = clampRange(start, stop, int64(len(pairs)))
	for i := start; i <= stop; i++ {
		delete(m.zsets[key], pairs[i].Member)
	}
	if len(m.zsets[key]) == 0 {
		delete(m.zsets, key)
	}
	return nil
}

func (m *MemoryStore) ZReplace(ctx context.Context, key string, members []core.ScoredMember) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(members) == 0 {
		delete(m.zsets, key)
		return nil
	}
	zset := make(map[string]float64, len(members))
	for _, member := range members {
		zset[member.Member] = member.Score
	}
	m.zsets[key] = zset
	return nil
}

func (m *MemoryStore) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, key := range keys {
		delete(m.sets, key)
		delete(m.zsets, key)
	}
	return nil
}

func (m *MemoryStore) Close() error { return nil }

// 确保 MemoryStore 实现了 core.KeyValueStore 接口
var _ core.KeyValueStore = (*MemoryStore)(nil)
