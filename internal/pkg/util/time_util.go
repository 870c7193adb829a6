package util

import (
	"strconv"
	"time"
)

// DayKey 浏览量桶使用的日期键（UTC）
func DayKey(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}

// ParseDayKey 解析为当天 UTC 零点
func ParseDayKey(key string) (time.Time, error) {
	return time.ParseInLocation(time.DateOnly, key, time.UTC)
}

// FormatRelativeTime 把时间转换成 "2 hours ago" 这样的相对描述
func FormatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	if diff < 0 {
		diff = 0
	}

	minutes := int64(diff / time.Minute)
	hours := minutes / 60
	days := hours / 24
	weeks := days / 7
	months := days / 30

	switch {
	case months > 0:
		return plural(months, "month")
	case weeks > 0:
		return plural(weeks, "week")
	case days > 0:
		if days == 1 {
			return "Yesterday"
		}
		return strconv.FormatInt(days, 10) + " days ago"
	case hours > 0:
		return plural(hours, "hour")
	case minutes > 0:
		return plural(minutes, "minute")
	default:
		return "Just now"
	}
}

func plural(n int64, unit string) string {
	if n == 1 {
		return "1 " + unit + " ago"
	}
	return strconv.FormatInt(n, 10) + " " + unit + "s ago"
}
