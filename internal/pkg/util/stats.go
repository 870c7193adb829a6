package util

import (
	"math"
	"time"
)

// StatsWindowDays 统计窗口长度
const StatsWindowDays = 30

// DateRange 闭区间 [Start, End]
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains 两端都包含
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// DateRanges 当前 30 天与之前 30 天
type DateRanges struct {
	Current  DateRange
	Previous DateRange
}

// GetDateRanges current = [now-30d, now]，previous = [now-60d, now-30d]
func GetDateRanges(now time.Time) DateRanges {
	thirtyDaysAgo := now.AddDate(0, 0, -StatsWindowDays)
	sixtyDaysAgo := now.AddDate(0, 0, -2*StatsWindowDays)
	return DateRanges{
		Current:  DateRange{Start: thirtyDaysAgo, End: now},
		Previous: DateRange{Start: sixtyDaysAgo, End: thirtyDaysAgo},
	}
}

// CalculateTrend 计算环比百分比
// previous 为 0 时：current > 0 记 100，否则 0；其余按半数向上取整
func CalculateTrend(current, previous int64) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	ratio := float64(current-previous) / float64(previous) * 100
	return int(math.Floor(ratio + 0.5))
}
