package utils

import (
	"strconv"
)

// StringToIntDefault 解析失败或非正数时返回默认值，用于分页/条数参数
func StringToIntDefault(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return def
	}
	return i
}
