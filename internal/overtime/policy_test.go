package overtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

func TestPolicy_Can(t *testing.T) {
	policy := NewPolicy(newFakeStore())

	tests := []struct {
		name    string
		role    domain.Role
		action  Action
		allowed bool
	}{
		{name: "成员可以记加班", role: domain.RoleMember, action: ActionLogOvertime, allowed: true},
		{name: "主管可以记加班", role: domain.RoleManager, action: ActionLogOvertime, allowed: true},
		{name: "管理员可以记加班", role: domain.RoleAdmin, action: ActionLogOvertime, allowed: true},
		{name: "成员不能审批", role: domain.RoleMember, action: ActionApproveOvertime, allowed: false},
		{name: "主管可以审批", role: domain.RoleManager, action: ActionApproveOvertime, allowed: true},
		{name: "管理员不直接审批团队记录", role: domain.RoleAdmin, action: ActionApproveOvertime, allowed: false},
		{name: "成员不能开申报窗口", role: domain.RoleMember, action: ActionOpenPeriod, allowed: false},
		{name: "主管可以清空团队记录", role: domain.RoleManager, action: ActionClearOvertime, allowed: true},
		{name: "只有管理员能管理用户", role: domain.RoleManager, action: ActionAdministerUsers, allowed: false},
		{name: "管理员管理用户", role: domain.RoleAdmin, action: ActionAdministerUsers, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.Can(Actor{ID: 1, Role: tt.role}, tt.action)
			if tt.allowed {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrPermission)
			}
		})
	}
}

func TestPolicy_Can_UnknownAction(t *testing.T) {
	policy := NewPolicy(newFakeStore())
	err := policy.Can(Actor{ID: 1, Role: domain.RoleAdmin}, Action("unknown"))
	assert.ErrorIs(t, err, ErrPermission)
}

func TestPolicy_HasAuthorityOver(t *testing.T) {
	store := newFakeStore()
	policy := NewPolicy(store)

	manager := store.addUser("主管甲", domain.RoleManager)
	member := store.addUser("成员乙", domain.RoleMember)

	team := &domain.Team{ManagerID: manager.ID, Name: "我的团队"}
	require.NoError(t, store.UpsertTeam(team))
	require.NoError(t, store.AddTeamMember(team.ID, member.ID))

	ok, err := policy.HasAuthorityOver(Actor{ID: manager.ID, Role: domain.RoleManager}, member.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	// 别的主管没有管辖权
	other := store.addUser("主管乙", domain.RoleManager)
	ok, err = policy.HasAuthorityOver(Actor{ID: other.ID, Role: domain.RoleManager}, member.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	// 不属于任何团队的用户视为没有管辖权，而不是报错
	loner := store.addUser("路人丁", domain.RoleMember)
	ok, err = policy.HasAuthorityOver(Actor{ID: manager.ID, Role: domain.RoleManager}, loner.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
