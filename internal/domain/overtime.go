package domain

import "time"

type EntryStatus string

const (
	EntryStatusPending  EntryStatus = "pending"
	EntryStatusApproved EntryStatus = "approved"
	EntryStatusRejected EntryStatus = "rejected"
)

// OvertimePeriod 是主管为某个成员开放的加班申报窗口，日期为闭区间。
type OvertimePeriod struct {
	ID                int64     `json:"id"`
	UserID            int64     `json:"userID"`
	StartDate         string    `json:"startDate"` // YYYY-MM-DD
	EndDate           string    `json:"endDate"`   // YYYY-MM-DD
	OpenedByManagerID int64     `json:"openedByManagerID"`
	Reason            string    `json:"reason"`
	CreatedAt         time.Time `json:"createdAt"`
}

// OvertimeEntry 是某个成员某一天的加班记录，分钟拆分在创建时算好并随记录一起落库。
type OvertimeEntry struct {
	ID                 int64       `json:"id"`
	UserID             int64       `json:"userID"`
	Date               string      `json:"date"`      // YYYY-MM-DD
	StartTime          string      `json:"startTime"` // HH:MM
	EndTime            string      `json:"endTime"`   // HH:MM
	Minutes150         int32       `json:"minutes150"`
	Minutes200         int32       `json:"minutes200"`
	IsPublicHoliday    bool        `json:"isPublicHoliday"`
	IsDesignatedDayOff bool        `json:"isDesignatedDayOff"`
	Note               string      `json:"note"`
	Status             EntryStatus `json:"status"`
	CreatedAt          time.Time   `json:"createdAt"`
}

// TeamEntry 在加班记录上附带归属人姓名，供审批列表使用。
type TeamEntry struct {
	OvertimeEntry
	UserName string `json:"userName"`
}

// MonthlyTotal 是某个成员在一个月内按状态拆分的加班分钟汇总。
// 没有任何记录的成员也会出现，各项合计为零。
type MonthlyTotal struct {
	UserID      int64  `json:"userID"`
	UserName    string `json:"userName"`
	Approved150 int32  `json:"approved150"`
	Approved200 int32  `json:"approved200"`
	Pending150  int32  `json:"pending150"`
	Pending200  int32  `json:"pending200"`
}
