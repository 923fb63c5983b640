// Package store 只包含实现，接口定义在 core 包。
// 使用 core.KeyValueStore 接口。
//
// 示例：
//
//	var kv core.KeyValueStore = NewMemoryStore()
package store
