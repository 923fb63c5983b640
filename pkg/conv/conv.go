// Package conv 提供标识符归一化等转换工具，用于简化各模块中的重复逻辑。
package conv

import (
	"fmt"
	"strconv"
)

// ID 将任意标量标识符归一化为 string。
//
// 调用方可能传入数字、布尔等其他标量，但两个"值相等"的标识符必须
// 在存储与比较时碰撞，所以所有标识符在进入引擎前统一转为字符串。
func ID(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(v)
	}
}
