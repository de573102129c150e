package overtime

import (
	"fmt"
	"time"
)

// 夜间溢价时段为 [21:00,24:00) ∪ [00:00,07:00)，落在其中的分钟按 200% 计。
const (
	nightStartMinute = 21 * 60
	nightEndMinute   = 7 * 60
	minutesPerDay    = 24 * 60
)

// SplitResult 是一个班次的分钟拆分，Minutes150+Minutes200 恒等于 TotalMinutes。
type SplitResult struct {
	Minutes150   int32 `json:"minutes150"`
	Minutes200   int32 `json:"minutes200"`
	TotalMinutes int32 `json:"totalMinutes"`
}

// ParseDate 校验并解析 YYYY-MM-DD 格式的日期。
func ParseDate(value string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: 日期格式应为 YYYY-MM-DD", ErrValidation)
	}
	return d, nil
}

// ParseTimeOfDay 校验 HH:MM 格式的时间并返回当天的分钟数。
func ParseTimeOfDay(value string) (int, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("%w: 时间格式应为 HH:MM", ErrValidation)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ValidMonth 校验 YYYY-MM 格式的月份。
func ValidMonth(value string) bool {
	_, err := time.Parse("2006-01", value)
	return err == nil
}

// MonthRange 返回一个月份的字符串日期范围 [YYYY-MM-01, YYYY-MM-31]。
// 日期按文本存储，字符串区间比较对所有真实日历日期都正确（没有月份超过 31 天）。
func MonthRange(month string) (string, string) {
	return month + "-01", month + "-31"
}

// Split 把一个班次的分钟拆分到 150% 和 200% 两档。
// 公休日、指定休息日或周日的班次整体按 200% 计；
// 其余日期只有落在夜间溢价时段内的分钟按 200% 计，其余按 150% 计。
// 班次不允许跨天，结束时间必须严格晚于开始时间。
func Split(date, startTime, endTime string, isPublicHoliday, isDesignatedDayOff bool) (SplitResult, error) {
	day, err := ParseDate(date)
	if err != nil {
		return SplitResult{}, err
	}

	start, err := ParseTimeOfDay(startTime)
	if err != nil {
		return SplitResult{}, err
	}
	end, err := ParseTimeOfDay(endTime)
	if err != nil {
		return SplitResult{}, err
	}

	if end <= start {
		return SplitResult{}, fmt.Errorf("%w: 结束时间必须晚于开始时间且不能跨天", ErrValidation)
	}

	total := end - start

	if isPublicHoliday || isDesignatedDayOff || day.Weekday() == time.Sunday {
		return SplitResult{
			Minutes150:   0,
			Minutes200:   int32(total),
			TotalMinutes: int32(total),
		}, nil
	}

	night := overlapMinutes(start, end, nightStartMinute, minutesPerDay) + overlapMinutes(start, end, 0, nightEndMinute)
	if night > total {
		night = total
	}

	return SplitResult{
		Minutes150:   int32(total - night),
		Minutes200:   int32(night),
		TotalMinutes: int32(total),
	}, nil
}

func overlapMinutes(aStart, aEnd, bStart, bEnd int) int {
	start := max(aStart, bStart)
	end := min(aEnd, bEnd)
	if end < start {
		return 0
	}
	return end - start
}
