package procyon

import "sync"

// userLocks 是按用户分键的互斥锁。
//
// 同一用户的两次重建流水线不允许交错：否则较早触发的重建可能在
// 较新的一次完成之后才写入，用过期的排名覆盖新结果。不同用户之间
// 完全并行，没有全局锁。
type userLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	sync.Mutex
	refs int
}

func newUserLocks() *userLocks {
	return &userLocks{locks: make(map[string]*userLock)}
}

// acquire 锁住 userID 对应的互斥锁，返回释放函数。
// 引用计数保证空闲的锁条目被及时回收，locks 不随用户数无界增长。
func (u *userLocks) acquire(userID string) func() {
	u.mu.Lock()
	l, ok := u.locks[userID]
	if !ok {
		l = &userLock{}
		u.locks[userID] = l
	}
	l.refs++
	u.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		u.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.locks, userID)
		}
		u.mu.Unlock()
	}
}
