package overtime

import (
	"fmt"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

// Service 是加班核算与审批引擎的入口，路由层只做解码和错误映射。
// 所有操作同步完成，失败直接返回，不在内部重试。
type Service struct {
	store    Store
	policy   *Policy
	teamName string
}

func NewService(store Store, defaultTeamName string) *Service {
	return &Service{
		store:    store,
		policy:   NewPolicy(store),
		teamName: defaultTeamName,
	}
}

/**********************************************
 * 团队与层级
 **********************************************/

// GetOrCreateTeam 返回主管的团队，不存在时懒创建。幂等，并发调用收敛到同一行。
func (s *Service) GetOrCreateTeam(actor Actor) (*domain.Team, error) {
	if err := s.policy.Can(actor, ActionViewTeam); err != nil {
		return nil, err
	}

	team := &domain.Team{
		ManagerID: actor.ID,
		Name:      s.teamName,
	}
	if err := s.store.UpsertTeam(team); err != nil {
		return nil, err
	}
	return team, nil
}

// AddMember 把用户加入操作者自己的团队。
// 用户已经属于某个团队，或者加入后会在主管链上形成环时，返回冲突。
func (s *Service) AddMember(actor Actor, userID int64) error {
	if err := s.policy.Can(actor, ActionManageTeam); err != nil {
		return err
	}

	team, err := s.GetOrCreateTeam(actor)
	if err != nil {
		return err
	}

	if err := s.checkNoCycle(actor.ID, userID); err != nil {
		return err
	}

	return s.store.AddTeamMember(team.ID, userID)
}

// checkNoCycle 沿操作者的主管链向上走，途中遇到待加入的用户说明会成环。
// 上卷层级（主管加入更资深主管的团队）是允许的，只有环被拒绝。
// 存量数据中已经存在环时，重复访问同一个主管会被当作冲突报出来，
// 而不是在请求里无限循环。
func (s *Service) checkNoCycle(managerID, userID int64) error {
	cur := managerID
	visited := make(map[int64]bool)
	for {
		if cur == userID {
			return fmt.Errorf("%w: 加入后会在团队层级中形成环", ErrConflict)
		}
		if visited[cur] {
			return fmt.Errorf("%w: 团队层级中已存在环", ErrConflict)
		}
		visited[cur] = true

		team, err := s.store.GetMembershipTeam(cur)
		if err != nil {
			if isNotFound(err) {
				return nil
			}
			return err
		}
		cur = team.ManagerID
	}
}

// IsMember 查询用户是否属于指定团队。
func (s *Service) IsMember(teamID, userID int64) (bool, error) {
	return s.store.IsTeamMember(teamID, userID)
}

// ManagerTeamOf 返回用户所属的团队，用于判定谁对谁有管辖权。
func (s *Service) ManagerTeamOf(userID int64) (*domain.Team, error) {
	return s.store.GetMembershipTeam(userID)
}

// TeamMembers 列出操作者团队的所有成员。
func (s *Service) TeamMembers(actor Actor) ([]*domain.User, error) {
	team, err := s.GetOrCreateTeam(actor)
	if err != nil {
		return nil, err
	}
	return s.store.ListTeamMembers(team.ID)
}

/**********************************************
 * 申报窗口
 **********************************************/

// OpenPeriod 为团队成员开放一个申报窗口，日期为闭区间。
// 与该成员任何已有窗口相交（含端点）都会被拒绝，不做合并。
func (s *Service) OpenPeriod(actor Actor, targetUserID int64, startDate, endDate, reason string) (*domain.OvertimePeriod, error) {
	if err := s.policy.Can(actor, ActionOpenPeriod); err != nil {
		return nil, err
	}

	if _, err := ParseDate(startDate); err != nil {
		return nil, err
	}
	if _, err := ParseDate(endDate); err != nil {
		return nil, err
	}
	if endDate < startDate {
		return nil, fmt.Errorf("%w: 结束日期不能早于开始日期", ErrValidation)
	}

	ok, err := s.policy.HasAuthorityOver(actor, targetUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: 对方不是您团队的成员", ErrPermission)
	}

	period := &domain.OvertimePeriod{
		UserID:            targetUserID,
		StartDate:         startDate,
		EndDate:           endDate,
		OpenedByManagerID: actor.ID,
		Reason:            reason,
	}
	if err := s.store.CreatePeriodIfDisjoint(period); err != nil {
		return nil, err
	}
	return period, nil
}

// ClosePeriod 删除一个申报窗口。窗口不属于操作者团队成员时按不存在处理。
func (s *Service) ClosePeriod(actor Actor, periodID int64) error {
	if err := s.policy.Can(actor, ActionClosePeriod); err != nil {
		return err
	}

	period, err := s.store.GetPeriod(periodID)
	if err != nil {
		return err
	}

	ok, err := s.policy.HasAuthorityOver(actor, period.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: 申报窗口不存在", ErrNotFound)
	}

	return s.store.DeletePeriod(periodID)
}

// ListPeriods 列出某个团队成员的全部申报窗口，按开始日期倒序。
func (s *Service) ListPeriods(actor Actor, targetUserID int64) ([]*domain.OvertimePeriod, error) {
	if err := s.policy.Can(actor, ActionViewTeam); err != nil {
		return nil, err
	}

	ok, err := s.policy.HasAuthorityOver(actor, targetUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: 对方不是您团队的成员", ErrNotFound)
	}

	return s.store.ListPeriodsByUser(targetUserID)
}

// IsOpen 判断某天是否落在该用户至少一个申报窗口内，是创建记录的唯一闸门。
func (s *Service) IsOpen(userID int64, date string) (bool, error) {
	if _, err := ParseDate(date); err != nil {
		return false, err
	}
	return s.store.HasOpenPeriod(userID, date)
}

/**********************************************
 * 加班记录
 **********************************************/

// CreateEntry 为操作者本人创建一条加班记录。
// 拆分在这里算好，与记录一起在一条原子写入中落库，初始状态为待审批。
func (s *Service) CreateEntry(actor Actor, date, startTime, endTime string, isPublicHoliday, isDesignatedDayOff bool, note string) (*domain.OvertimeEntry, error) {
	if err := s.policy.Can(actor, ActionLogOvertime); err != nil {
		return nil, err
	}

	split, err := Split(date, startTime, endTime, isPublicHoliday, isDesignatedDayOff)
	if err != nil {
		return nil, err
	}

	open, err := s.IsOpen(actor.ID, date)
	if err != nil {
		return nil, err
	}
	if !open {
		return nil, fmt.Errorf("%w: %s 不在任何申报窗口内", ErrPeriodClosed, date)
	}

	entry := &domain.OvertimeEntry{
		UserID:             actor.ID,
		Date:               date,
		StartTime:          startTime,
		EndTime:            endTime,
		Minutes150:         split.Minutes150,
		Minutes200:         split.Minutes200,
		IsPublicHoliday:    isPublicHoliday,
		IsDesignatedDayOff: isDesignatedDayOff,
		Note:               note,
		Status:             domain.EntryStatusPending,
	}
	if err := s.store.CreateEntry(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// SetEntryStatus 审批或驳回一条记录。
// 状态是直接覆盖而不是单向流转，主管可以反复改判，最后一次操作生效。
func (s *Service) SetEntryStatus(actor Actor, entryID int64, action string) (*domain.OvertimeEntry, error) {
	if err := s.policy.Can(actor, ActionApproveOvertime); err != nil {
		return nil, err
	}

	var status domain.EntryStatus
	switch action {
	case "approve":
		status = domain.EntryStatusApproved
	case "reject":
		status = domain.EntryStatusRejected
	default:
		return nil, fmt.Errorf("%w: 未知的审批动作 %s", ErrValidation, action)
	}

	entry, err := s.store.GetEntry(entryID)
	if err != nil {
		return nil, err
	}

	ok, err := s.policy.HasAuthorityOver(actor, entry.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: 加班记录不存在", ErrNotFound)
	}

	if err := s.store.UpdateEntryStatus(entryID, status); err != nil {
		return nil, err
	}
	entry.Status = status
	return entry, nil
}

// DeleteEntry 删除操作者本人的一条记录，别人的记录按不存在处理。
func (s *Service) DeleteEntry(actor Actor, entryID int64) error {
	entry, err := s.store.GetEntry(entryID)
	if err != nil {
		return err
	}
	if entry.UserID != actor.ID {
		return fmt.Errorf("%w: 加班记录不存在", ErrNotFound)
	}
	return s.store.DeleteEntry(entryID)
}

// ClearEntries 清空操作者自己团队所有成员的加班记录。
// 只作用于本团队，不会波及其他主管的数据。
func (s *Service) ClearEntries(actor Actor) error {
	if err := s.policy.Can(actor, ActionClearOvertime); err != nil {
		return err
	}

	team, err := s.GetOrCreateTeam(actor)
	if err != nil {
		return err
	}
	return s.store.DeleteEntriesByTeam(team.ID)
}

// ListEntries 列出操作者本人某个月的记录，按日期升序。
func (s *Service) ListEntries(actor Actor, month string) ([]*domain.OvertimeEntry, error) {
	if !ValidMonth(month) {
		return nil, fmt.Errorf("%w: 月份格式应为 YYYY-MM", ErrValidation)
	}
	start, end := MonthRange(month)
	return s.store.ListEntriesByUserMonth(actor.ID, start, end)
}

// ListTeamEntries 列出操作者团队所有成员某个月的记录，供审批列表使用。
func (s *Service) ListTeamEntries(actor Actor, month string) ([]*domain.TeamEntry, error) {
	if err := s.policy.Can(actor, ActionApproveOvertime); err != nil {
		return nil, err
	}
	if !ValidMonth(month) {
		return nil, fmt.Errorf("%w: 月份格式应为 YYYY-MM", ErrValidation)
	}

	team, err := s.GetOrCreateTeam(actor)
	if err != nil {
		return nil, err
	}

	start, end := MonthRange(month)
	return s.store.ListEntriesByTeamMonth(team.ID, start, end)
}

/**********************************************
 * 月度汇总
 **********************************************/

// MonthlyTotals 汇总操作者团队每个成员在某个月的分钟数，按状态拆分。
// 当月没有记录的成员也会出现在结果中，各项为零。
func (s *Service) MonthlyTotals(actor Actor, month string) ([]*domain.MonthlyTotal, error) {
	if err := s.policy.Can(actor, ActionViewTeam); err != nil {
		return nil, err
	}
	if !ValidMonth(month) {
		return nil, fmt.Errorf("%w: 月份格式应为 YYYY-MM", ErrValidation)
	}

	team, err := s.GetOrCreateTeam(actor)
	if err != nil {
		return nil, err
	}

	start, end := MonthRange(month)
	return s.store.MonthlyTotalsByTeam(team.ID, start, end)
}
