package util

import (
	"strconv"
	"strings"
	"time"
)

// ParseDuration 解析时段，纯数字按秒计算
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(s)
}

// MustParseDuration 将字符串转换成时段
func MustParseDuration(s string) time.Duration {
	value, err := ParseDuration(s)
	if err != nil {
		panic("Can't parse duration `" + s + "`: " + err.Error())
	}
	return value
}
