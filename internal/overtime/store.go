package overtime

import (
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

// Store 是引擎对持久化层的全部要求。repository 包基于 PostgreSQL 实现它，
// 并把约束冲突（唯一索引、窗口重叠、序列化失败）映射成本包的错误。
//
// 三个先检查后写入的不变量必须由存储层自己兜底，而不能只靠上层逻辑：
//   - 同一用户同一天至多一条加班记录（(user_id, entry_date) 唯一索引）；
//   - 每个主管至多一个团队（manager_id 唯一索引，get-or-create 幂等收敛）；
//   - 同一用户的申报窗口两两不相交（可序列化事务内检查）。
type Store interface {
	// 用户
	GetUserByID(id int64) (*domain.User, error)

	// 团队与成员关系
	UpsertTeam(team *domain.Team) error
	GetMembershipTeam(userID int64) (*domain.Team, error)
	AddTeamMember(teamID, userID int64) error
	IsTeamMember(teamID, userID int64) (bool, error)
	ListTeamMembers(teamID int64) ([]*domain.User, error)

	// 申报窗口
	CreatePeriodIfDisjoint(period *domain.OvertimePeriod) error
	GetPeriod(id int64) (*domain.OvertimePeriod, error)
	DeletePeriod(id int64) error
	ListPeriodsByUser(userID int64) ([]*domain.OvertimePeriod, error)
	HasOpenPeriod(userID int64, date string) (bool, error)

	// 加班记录
	CreateEntry(entry *domain.OvertimeEntry) error
	GetEntry(id int64) (*domain.OvertimeEntry, error)
	DeleteEntry(id int64) error
	UpdateEntryStatus(id int64, status domain.EntryStatus) error
	ListEntriesByUserMonth(userID int64, startDate, endDate string) ([]*domain.OvertimeEntry, error)
	ListEntriesByTeamMonth(teamID int64, startDate, endDate string) ([]*domain.TeamEntry, error)
	DeleteEntriesByTeam(teamID int64) error
	MonthlyTotalsByTeam(teamID int64, startDate, endDate string) ([]*domain.MonthlyTotal, error)
}
