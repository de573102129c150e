package overtime

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

/**********************************************
 * 内存版 Store，行为对齐 repository 的约束映射
 **********************************************/

type fakeStore struct {
	nextID  int64
	users   map[int64]*domain.User
	teams   map[int64]*domain.Team
	members map[int64]int64 // userID -> teamID
	periods map[int64]*domain.OvertimePeriod
	entries map[int64]*domain.OvertimeEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:   make(map[int64]*domain.User),
		teams:   make(map[int64]*domain.Team),
		members: make(map[int64]int64),
		periods: make(map[int64]*domain.OvertimePeriod),
		entries: make(map[int64]*domain.OvertimeEntry),
	}
}

func (s *fakeStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *fakeStore) addUser(fullName string, role domain.Role) *domain.User {
	user := &domain.User{
		ID:       s.id(),
		Username: fmt.Sprintf("user%d", s.nextID),
		FullName: fullName,
		Role:     role,
		IsActive: true,
	}
	s.users[user.ID] = user
	return user
}

func (s *fakeStore) GetUserByID(id int64) (*domain.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *fakeStore) UpsertTeam(team *domain.Team) error {
	for _, t := range s.teams {
		if t.ManagerID == team.ManagerID {
			*team = *t
			return nil
		}
	}
	team.ID = s.id()
	clone := *team
	s.teams[team.ID] = &clone
	return nil
}

func (s *fakeStore) GetMembershipTeam(userID int64) (*domain.Team, error) {
	teamID, ok := s.members[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return s.teams[teamID], nil
}

func (s *fakeStore) AddTeamMember(teamID, userID int64) error {
	if _, ok := s.members[userID]; ok {
		return fmt.Errorf("%w: 该用户已属于某个团队", ErrConflict)
	}
	s.members[userID] = teamID
	return nil
}

func (s *fakeStore) IsTeamMember(teamID, userID int64) (bool, error) {
	return s.members[userID] == teamID, nil
}

func (s *fakeStore) ListTeamMembers(teamID int64) ([]*domain.User, error) {
	users := make([]*domain.User, 0)
	for userID, tid := range s.members {
		if tid == teamID {
			users = append(users, s.users[userID])
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].FullName < users[j].FullName })
	return users, nil
}

func (s *fakeStore) CreatePeriodIfDisjoint(period *domain.OvertimePeriod) error {
	for _, p := range s.periods {
		if p.UserID == period.UserID && !(p.EndDate < period.StartDate || p.StartDate > period.EndDate) {
			return fmt.Errorf("%w: 与已有申报窗口重叠", ErrConflict)
		}
	}
	period.ID = s.id()
	clone := *period
	s.periods[period.ID] = &clone
	return nil
}

func (s *fakeStore) GetPeriod(id int64) (*domain.OvertimePeriod, error) {
	period, ok := s.periods[id]
	if !ok {
		return nil, ErrNotFound
	}
	return period, nil
}

func (s *fakeStore) DeletePeriod(id int64) error {
	delete(s.periods, id)
	return nil
}

func (s *fakeStore) ListPeriodsByUser(userID int64) ([]*domain.OvertimePeriod, error) {
	periods := make([]*domain.OvertimePeriod, 0)
	for _, p := range s.periods {
		if p.UserID == userID {
			periods = append(periods, p)
		}
	}
	sort.Slice(periods, func(i, j int) bool { return periods[i].StartDate > periods[j].StartDate })
	return periods, nil
}

func (s *fakeStore) HasOpenPeriod(userID int64, date string) (bool, error) {
	for _, p := range s.periods {
		if p.UserID == userID && p.StartDate <= date && date <= p.EndDate {
			return true, nil
		}
	}
	return false, nil
}

func (s *fakeStore) CreateEntry(entry *domain.OvertimeEntry) error {
	for _, e := range s.entries {
		if e.UserID == entry.UserID && e.Date == entry.Date {
			return fmt.Errorf("%w: 当天已存在加班记录", ErrConflict)
		}
	}
	entry.ID = s.id()
	clone := *entry
	s.entries[entry.ID] = &clone
	return nil
}

func (s *fakeStore) GetEntry(id int64) (*domain.OvertimeEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *entry
	return &clone, nil
}

func (s *fakeStore) DeleteEntry(id int64) error {
	delete(s.entries, id)
	return nil
}

func (s *fakeStore) UpdateEntryStatus(id int64, status domain.EntryStatus) error {
	entry, ok := s.entries[id]
	if !ok {
		return ErrNotFound
	}
	entry.Status = status
	return nil
}

func (s *fakeStore) ListEntriesByUserMonth(userID int64, startDate, endDate string) ([]*domain.OvertimeEntry, error) {
	entries := make([]*domain.OvertimeEntry, 0)
	for _, e := range s.entries {
		if e.UserID == userID && startDate <= e.Date && e.Date <= endDate {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries, nil
}

func (s *fakeStore) ListEntriesByTeamMonth(teamID int64, startDate, endDate string) ([]*domain.TeamEntry, error) {
	entries := make([]*domain.TeamEntry, 0)
	for _, e := range s.entries {
		if s.members[e.UserID] != teamID || e.Date < startDate || e.Date > endDate {
			continue
		}
		entries = append(entries, &domain.TeamEntry{
			OvertimeEntry: *e,
			UserName:      s.users[e.UserID].FullName,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (s *fakeStore) DeleteEntriesByTeam(teamID int64) error {
	for id, e := range s.entries {
		if s.members[e.UserID] == teamID {
			delete(s.entries, id)
		}
	}
	return nil
}

func (s *fakeStore) MonthlyTotalsByTeam(teamID int64, startDate, endDate string) ([]*domain.MonthlyTotal, error) {
	totals := make([]*domain.MonthlyTotal, 0)
	for userID, tid := range s.members {
		if tid != teamID {
			continue
		}
		total := &domain.MonthlyTotal{
			UserID:   userID,
			UserName: s.users[userID].FullName,
		}
		for _, e := range s.entries {
			if e.UserID != userID || e.Date < startDate || e.Date > endDate {
				continue
			}
			switch e.Status {
			case domain.EntryStatusApproved:
				total.Approved150 += e.Minutes150
				total.Approved200 += e.Minutes200
			case domain.EntryStatusPending:
				total.Pending150 += e.Minutes150
				total.Pending200 += e.Minutes200
			}
		}
		totals = append(totals, total)
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].UserName < totals[j].UserName })
	return totals, nil
}

/**********************************************
 * 测试辅助
 **********************************************/

func actorOf(user *domain.User) Actor {
	return Actor{ID: user.ID, Role: user.Role}
}

// 建一个主管和 n 个已入队的成员
func setupTeam(t *testing.T, store *fakeStore, svc *Service, n int) (*domain.User, []*domain.User) {
	t.Helper()

	manager := store.addUser("主管甲", domain.RoleManager)
	members := make([]*domain.User, 0, n)
	for i := 0; i < n; i++ {
		member := store.addUser(fmt.Sprintf("成员%d", i+1), domain.RoleMember)
		require.NoError(t, svc.AddMember(actorOf(manager), member.ID))
		members = append(members, member)
	}
	return manager, members
}

/**********************************************
 * 团队与层级
 **********************************************/

func TestService_GetOrCreateTeam(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager := store.addUser("主管甲", domain.RoleManager)

	team1, err := svc.GetOrCreateTeam(actorOf(manager))
	require.NoError(t, err)
	assert.Equal(t, "我的团队", team1.Name)

	// 再次调用收敛到同一个团队
	team2, err := svc.GetOrCreateTeam(actorOf(manager))
	require.NoError(t, err)
	assert.Equal(t, team1.ID, team2.ID)

	// 成员角色没有团队
	member := store.addUser("成员乙", domain.RoleMember)
	_, err = svc.GetOrCreateTeam(actorOf(member))
	assert.ErrorIs(t, err, ErrPermission)
}

func TestService_AddMember(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)

	users, err := svc.TeamMembers(actorOf(manager))
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, members[0].ID, users[0].ID)

	// 一个用户只能属于一个团队
	other := store.addUser("主管乙", domain.RoleManager)
	err = svc.AddMember(actorOf(other), members[0].ID)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestService_AddMember_CycleRejected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")

	// 主管乙的团队里有主管甲
	managerA := store.addUser("主管甲", domain.RoleManager)
	managerB := store.addUser("主管乙", domain.RoleManager)
	require.NoError(t, svc.AddMember(actorOf(managerB), managerA.ID))

	// 主管甲再把主管乙收进自己的团队会形成环
	err := svc.AddMember(actorOf(managerA), managerB.ID)
	assert.ErrorIs(t, err, ErrConflict)

	// 向上卷层级是允许的：主管丙把主管乙收进团队
	managerC := store.addUser("主管丙", domain.RoleManager)
	assert.NoError(t, svc.AddMember(actorOf(managerC), managerB.ID))
}

// 层级数据已经被破坏成环时，后续的 AddMember 要报冲突而不是在主管链上无限循环
func TestService_AddMember_CorruptedHierarchyDetected(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")

	managerA := store.addUser("主管甲", domain.RoleManager)
	managerB := store.addUser("主管乙", domain.RoleManager)

	teamA := &domain.Team{ManagerID: managerA.ID, Name: "我的团队"}
	require.NoError(t, store.UpsertTeam(teamA))
	teamB := &domain.Team{ManagerID: managerB.ID, Name: "我的团队"}
	require.NoError(t, store.UpsertTeam(teamB))

	// 绕过 AddMember 直接写入互为成员的归属，模拟并发写入留下的环
	store.members[managerA.ID] = teamB.ID
	store.members[managerB.ID] = teamA.ID

	member := store.addUser("成员丙", domain.RoleMember)
	err := svc.AddMember(actorOf(managerA), member.ID)
	assert.ErrorIs(t, err, ErrConflict)
}

/**********************************************
 * 申报窗口
 **********************************************/

func TestService_OpenPeriod(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)
	member := members[0]

	period, err := svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-01", "2025-06-15", "月初加班")
	require.NoError(t, err)
	assert.Equal(t, manager.ID, period.OpenedByManagerID)

	// 与已有窗口相交（含端点）被拒绝
	_, err = svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-15", "2025-06-20", "")
	assert.ErrorIs(t, err, ErrConflict)

	// 不相交的窗口可以再开
	_, err = svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-16", "2025-06-30", "")
	assert.NoError(t, err)

	// 结束早于开始
	_, err = svc.OpenPeriod(actorOf(manager), member.ID, "2025-07-10", "2025-07-01", "")
	assert.ErrorIs(t, err, ErrValidation)

	// 不是自己团队的成员
	outsider := store.addUser("路人丁", domain.RoleMember)
	_, err = svc.OpenPeriod(actorOf(manager), outsider.ID, "2025-06-01", "2025-06-15", "")
	assert.ErrorIs(t, err, ErrPermission)

	// 成员角色不能开窗口
	_, err = svc.OpenPeriod(actorOf(member), member.ID, "2025-06-01", "2025-06-15", "")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestService_ClosePeriod(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)

	period, err := svc.OpenPeriod(actorOf(manager), members[0].ID, "2025-06-01", "2025-06-15", "")
	require.NoError(t, err)

	// 别的主管看不到这个窗口
	other := store.addUser("主管乙", domain.RoleManager)
	err = svc.ClosePeriod(actorOf(other), period.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.ClosePeriod(actorOf(manager), period.ID))

	open, err := svc.IsOpen(members[0].ID, "2025-06-10")
	require.NoError(t, err)
	assert.False(t, open)
}

func TestService_ListPeriods(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)

	_, err := svc.OpenPeriod(actorOf(manager), members[0].ID, "2025-06-01", "2025-06-15", "")
	require.NoError(t, err)
	_, err = svc.OpenPeriod(actorOf(manager), members[0].ID, "2025-07-01", "2025-07-15", "")
	require.NoError(t, err)

	periods, err := svc.ListPeriods(actorOf(manager), members[0].ID)
	require.NoError(t, err)
	require.Len(t, periods, 2)
	// 按开始日期倒序
	assert.Equal(t, "2025-07-01", periods[0].StartDate)

	outsider := store.addUser("路人丁", domain.RoleMember)
	_, err = svc.ListPeriods(actorOf(manager), outsider.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

/**********************************************
 * 加班记录
 **********************************************/

func TestService_CreateEntry(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)
	member := members[0]

	_, err := svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-01", "2025-06-15", "")
	require.NoError(t, err)

	// 窗口内创建成功，拆分随记录落库，初始状态为待审批
	entry, err := svc.CreateEntry(actorOf(member), "2025-06-03", "20:00", "22:00", false, false, "发布上线")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusPending, entry.Status)
	assert.Equal(t, int32(60), entry.Minutes150)
	assert.Equal(t, int32(60), entry.Minutes200)

	// 同一天第二条被拒绝
	_, err = svc.CreateEntry(actorOf(member), "2025-06-03", "09:00", "10:00", false, false, "")
	assert.ErrorIs(t, err, ErrConflict)

	// 窗口外被拒绝
	_, err = svc.CreateEntry(actorOf(member), "2025-06-20", "20:00", "22:00", false, false, "")
	assert.ErrorIs(t, err, ErrPeriodClosed)

	// 非法班次在窗口检查之前就被拒绝
	_, err = svc.CreateEntry(actorOf(member), "2025-06-05", "23:00", "01:00", false, false, "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestService_SetEntryStatus(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 1)
	member := members[0]

	_, err := svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-01", "2025-06-15", "")
	require.NoError(t, err)
	entry, err := svc.CreateEntry(actorOf(member), "2025-06-03", "20:00", "22:00", false, false, "")
	require.NoError(t, err)

	// 审批通过
	updated, err := svc.SetEntryStatus(actorOf(manager), entry.ID, "approve")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusApproved, updated.Status)

	// 主管可以改判，最后一次操作生效
	updated, err = svc.SetEntryStatus(actorOf(manager), entry.ID, "reject")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryStatusRejected, updated.Status)

	// 未知动作
	_, err = svc.SetEntryStatus(actorOf(manager), entry.ID, "archive")
	assert.ErrorIs(t, err, ErrValidation)

	// 别的主管看不到这条记录
	other := store.addUser("主管乙", domain.RoleManager)
	_, err = svc.SetEntryStatus(actorOf(other), entry.ID, "approve")
	assert.ErrorIs(t, err, ErrNotFound)

	// 成员不能审批
	_, err = svc.SetEntryStatus(actorOf(member), entry.ID, "approve")
	assert.ErrorIs(t, err, ErrPermission)
}

func TestService_DeleteEntry(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 2)

	_, err := svc.OpenPeriod(actorOf(manager), members[0].ID, "2025-06-01", "2025-06-15", "")
	require.NoError(t, err)
	entry, err := svc.CreateEntry(actorOf(members[0]), "2025-06-03", "18:00", "20:00", false, false, "")
	require.NoError(t, err)

	// 别人的记录按不存在处理
	err = svc.DeleteEntry(actorOf(members[1]), entry.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.DeleteEntry(actorOf(members[0]), entry.ID))

	entries, err := svc.ListEntries(actorOf(members[0]), "2025-06")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestService_ClearEntries_OnlyOwnTeam(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")

	managerA, membersA := setupTeam(t, store, svc, 1)
	managerB := store.addUser("主管乙", domain.RoleManager)
	memberB := store.addUser("成员乙", domain.RoleMember)
	require.NoError(t, svc.AddMember(actorOf(managerB), memberB.ID))

	_, err := svc.OpenPeriod(actorOf(managerA), membersA[0].ID, "2025-06-01", "2025-06-30", "")
	require.NoError(t, err)
	_, err = svc.OpenPeriod(actorOf(managerB), memberB.ID, "2025-06-01", "2025-06-30", "")
	require.NoError(t, err)

	_, err = svc.CreateEntry(actorOf(membersA[0]), "2025-06-03", "18:00", "20:00", false, false, "")
	require.NoError(t, err)
	_, err = svc.CreateEntry(actorOf(memberB), "2025-06-03", "18:00", "20:00", false, false, "")
	require.NoError(t, err)

	// 清空只作用于主管甲自己的团队
	require.NoError(t, svc.ClearEntries(actorOf(managerA)))

	entriesA, err := svc.ListEntries(actorOf(membersA[0]), "2025-06")
	require.NoError(t, err)
	assert.Empty(t, entriesA)

	entriesB, err := svc.ListEntries(actorOf(memberB), "2025-06")
	require.NoError(t, err)
	assert.Len(t, entriesB, 1)
}

func TestService_ListTeamEntries(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 2)

	for _, member := range members {
		_, err := svc.OpenPeriod(actorOf(manager), member.ID, "2025-06-01", "2025-06-30", "")
		require.NoError(t, err)
	}
	_, err := svc.CreateEntry(actorOf(members[1]), "2025-06-05", "18:00", "20:00", false, false, "")
	require.NoError(t, err)
	_, err = svc.CreateEntry(actorOf(members[0]), "2025-06-03", "18:00", "20:00", false, false, "")
	require.NoError(t, err)

	entries, err := svc.ListTeamEntries(actorOf(manager), "2025-06")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	// 按日期升序，并带上归属人姓名
	assert.Equal(t, "2025-06-03", entries[0].Date)
	assert.Equal(t, members[0].FullName, entries[0].UserName)

	_, err = svc.ListTeamEntries(actorOf(manager), "2025-6")
	assert.ErrorIs(t, err, ErrValidation)
}

/**********************************************
 * 月度汇总
 **********************************************/

func TestService_MonthlyTotals(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "我的团队")
	manager, members := setupTeam(t, store, svc, 2)
	active, idle := members[0], members[1]

	_, err := svc.OpenPeriod(actorOf(manager), active.ID, "2025-06-01", "2025-06-30", "")
	require.NoError(t, err)

	first, err := svc.CreateEntry(actorOf(active), "2025-06-03", "20:00", "22:00", false, false, "")
	require.NoError(t, err)
	_, err = svc.SetEntryStatus(actorOf(manager), first.ID, "approve")
	require.NoError(t, err)

	_, err = svc.CreateEntry(actorOf(active), "2025-06-04", "18:00", "20:00", false, false, "")
	require.NoError(t, err)

	totals, err := svc.MonthlyTotals(actorOf(manager), "2025-06")
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byUser := make(map[int64]*domain.MonthlyTotal)
	for _, total := range totals {
		byUser[total.UserID] = total
	}

	assert.Equal(t, int32(60), byUser[active.ID].Approved150)
	assert.Equal(t, int32(60), byUser[active.ID].Approved200)
	assert.Equal(t, int32(120), byUser[active.ID].Pending150)
	assert.Equal(t, int32(0), byUser[active.ID].Pending200)

	// 当月没有记录的成员也出现在结果中，各项为零
	require.Contains(t, byUser, idle.ID)
	assert.Equal(t, int32(0), byUser[idle.ID].Approved150+byUser[idle.ID].Approved200+byUser[idle.ID].Pending150+byUser[idle.ID].Pending200)
}
