package overtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-06-01 是周日，2025-06-03 是周二，2025-06-07 是周六
func TestSplit(t *testing.T) {
	tests := []struct {
		name               string
		date               string
		startTime          string
		endTime            string
		isPublicHoliday    bool
		isDesignatedDayOff bool
		want150            int32
		want200            int32
	}{
		{
			name:      "工作日纯日间班次全部按 150% 计",
			date:      "2025-06-03",
			startTime: "18:00",
			endTime:   "20:00",
			want150:   120,
			want200:   0,
		},
		{
			name:      "跨 21:00 的班次按分钟拆到两档",
			date:      "2025-06-03",
			startTime: "20:00",
			endTime:   "22:00",
			want150:   60,
			want200:   60,
		},
		{
			name:      "清晨班次只有 07:00 前的分钟按 200% 计",
			date:      "2025-06-03",
			startTime: "06:00",
			endTime:   "10:00",
			want150:   180,
			want200:   60,
		},
		{
			name:      "完全落在夜间时段的班次全部按 200% 计",
			date:      "2025-06-03",
			startTime: "21:00",
			endTime:   "23:30",
			want150:   0,
			want200:   150,
		},
		{
			name:      "周六按普通工作日拆分",
			date:      "2025-06-07",
			startTime: "20:00",
			endTime:   "22:00",
			want150:   60,
			want200:   60,
		},
		{
			name:      "周日班次整体按 200% 计",
			date:      "2025-06-01",
			startTime: "10:00",
			endTime:   "12:00",
			want150:   0,
			want200:   120,
		},
		{
			name:            "公休日的日间班次整体按 200% 计",
			date:            "2025-06-03",
			startTime:       "09:00",
			endTime:         "12:00",
			isPublicHoliday: true,
			want150:         0,
			want200:         180,
		},
		{
			name:               "指定休息日的清晨班次整体按 200% 计",
			date:               "2025-06-03",
			startTime:          "06:00",
			endTime:            "10:00",
			isDesignatedDayOff: true,
			want150:            0,
			want200:            240,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Split(tt.date, tt.startTime, tt.endTime, tt.isPublicHoliday, tt.isDesignatedDayOff)
			require.NoError(t, err)
			assert.Equal(t, tt.want150, got.Minutes150)
			assert.Equal(t, tt.want200, got.Minutes200)
			// 两档相加必须等于班次总分钟数
			assert.Equal(t, got.TotalMinutes, got.Minutes150+got.Minutes200)
		})
	}
}

func TestSplit_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		startTime string
		endTime   string
	}{
		{name: "跨天班次被拒绝", date: "2025-06-03", startTime: "23:00", endTime: "01:00"},
		{name: "结束等于开始被拒绝", date: "2025-06-03", startTime: "10:00", endTime: "10:00"},
		{name: "日期格式错误", date: "2025/06/03", startTime: "10:00", endTime: "11:00"},
		{name: "时间格式错误", date: "2025-06-03", startTime: "10点", endTime: "11:00"},
		{name: "不存在的时间", date: "2025-06-03", startTime: "10:00", endTime: "24:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Split(tt.date, tt.startTime, tt.endTime, false, false)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestMonthRange(t *testing.T) {
	start, end := MonthRange("2025-06")
	assert.Equal(t, "2025-06-01", start)
	assert.Equal(t, "2025-06-31", end)

	// 字符串区间比较对真实日历日期都成立
	assert.True(t, start <= "2025-06-15" && "2025-06-15" <= end)
	assert.False(t, "2025-05-31" >= start)
	assert.False(t, "2025-07-01" <= end)
}

func TestValidMonth(t *testing.T) {
	assert.True(t, ValidMonth("2025-06"))
	assert.False(t, ValidMonth("2025-13"))
	assert.False(t, ValidMonth("2025-6"))
	assert.False(t, ValidMonth("202506"))
}
