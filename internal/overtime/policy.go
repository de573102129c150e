package overtime

import (
	"fmt"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

// Actor 是一次调用中已经通过认证的操作者，认证本身由外层完成。
type Actor struct {
	ID   int64
	Role domain.Role
}

type Action string

const (
	ActionLogOvertime     Action = "overtime:log"
	ActionApproveOvertime Action = "overtime:approve"
	ActionClearOvertime   Action = "overtime:clear"
	ActionOpenPeriod      Action = "period:open"
	ActionClosePeriod     Action = "period:close"
	ActionViewTeam        Action = "team:view"
	ActionManageTeam      Action = "team:manage"
	ActionAdministerUsers Action = "users:administer"
)

// 角色与操作的对应关系。原来散落在各个路由里的角色判断统一收拢到这张表。
var actionRoles = map[Action][]domain.Role{
	ActionLogOvertime:     {domain.RoleAdmin, domain.RoleManager, domain.RoleMember},
	ActionApproveOvertime: {domain.RoleManager},
	ActionClearOvertime:   {domain.RoleManager},
	ActionOpenPeriod:      {domain.RoleManager},
	ActionClosePeriod:     {domain.RoleManager},
	ActionViewTeam:        {domain.RoleManager},
	ActionManageTeam:      {domain.RoleManager},
	ActionAdministerUsers: {domain.RoleAdmin},
}

// Policy 集中回答“这个操作者能否执行这个操作、能否处置这个目标用户”。
type Policy struct {
	store Store
}

func NewPolicy(store Store) *Policy {
	return &Policy{store: store}
}

// Can 只做角色层面的判定。
func (p *Policy) Can(actor Actor, action Action) error {
	roles, ok := actionRoles[action]
	if !ok {
		return fmt.Errorf("%w: 未知操作 %s", ErrPermission, action)
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return fmt.Errorf("%w: 角色 %s 不允许执行 %s", ErrPermission, actor.Role, action)
}

// HasAuthorityOver 判断目标用户是否在操作者自己团队的管辖范围内。
// 操作者还没有团队时视为没有管辖权，而不是报错。
func (p *Policy) HasAuthorityOver(actor Actor, targetUserID int64) (bool, error) {
	team, err := p.store.GetMembershipTeam(targetUserID)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return team.ManagerID == actor.ID, nil
}
