package domain

import "time"

// Team 是一个主管的审批范围，每个主管有且只有一个团队。
// 主管本人也可以作为成员加入更资深主管的团队，从而形成上卷层级。
type Team struct {
	ID        int64     `json:"id"`
	ManagerID int64     `json:"managerID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}
