package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
//   - 可携带底层错误（Err），支持 errors.Unwrap
//
// 使用场景：
//   - Store 连接错误：CONNECTION（建连/认证失败，调用方应退避重试）
//   - Store 命令错误：COMMAND（单次命令失败或返回形状异常）
//   - Store 查询错误：NOT_FOUND（key 或成员不存在）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "COMMAND"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "engine"）
	Err     error  // 底层错误（可为 nil）
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// IsDomainError 检查错误是否为 DomainError 类型
func IsDomainError(err error) bool {
	if err == nil {
		return false
	}
	_, ok := err.(*DomainError)
	return ok
}

// GetDomainError 获取 DomainError，如果不是则返回 nil
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound   = "NOT_FOUND"  // 资源不存在
	ErrorCodeConnection = "CONNECTION" // 连接/认证失败
	ErrorCodeCommand    = "COMMAND"    // 单次存储命令失败
)

// 模块名称常量
const (
	ModuleStore  = "store"  // 存储模块
	ModuleEngine = "engine" // 评分引擎模块
)

// Store 错误定义（使用统一的 DomainError）
var (
	// ErrStoreNotFound 表示 key 或成员不存在
	ErrStoreNotFound = NewDomainError(ModuleStore, ErrorCodeNotFound, "store: key not found")
)

// NewStoreConnectionError 创建连接错误（建连/认证失败）。
// 对受影响的操作是致命的，调用方应带退避地重试，而不是静默吞掉。
func NewStoreConnectionError(err error) *DomainError {
	return &DomainError{
		Module:  ModuleStore,
		Code:    ErrorCodeConnection,
		Message: "store: connection failed",
		Err:     err,
	}
}

// NewStoreCommandError 创建命令错误（单次往返失败）。
// 触发它的公开操作会失败；同一次重建中已提交的前序副作用不回滚。
func NewStoreCommandError(cmd string, err error) *DomainError {
	return &DomainError{
		Module:  ModuleStore,
		Code:    ErrorCodeCommand,
		Message: "store: " + cmd + " failed",
		Err:     err,
	}
}

// IsStoreNotFound 检查错误是否为 key 不存在
func IsStoreNotFound(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeNotFound
	}
	return false
}

// IsStoreConnectionError 检查错误是否为连接错误
func IsStoreConnectionError(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeConnection
	}
	return false
}

// IsStoreCommandError 检查错误是否为命令错误
func IsStoreCommandError(err error) bool {
	if err == nil {
		return false
	}
	domainErr := GetDomainError(err)
	if domainErr != nil && domainErr.Module == ModuleStore {
		return domainErr.Code == ErrorCodeCommand
	}
	return false
}
