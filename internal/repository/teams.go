package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

// UpsertTeam 取出主管的团队，不存在时创建。
// 靠 manager_id 唯一索引做到幂等，ON CONFLICT 的空更新让并发调用都拿到同一行。
func (r *Repository) UpsertTeam(team *domain.Team) error {
	query := `
		INSERT INTO teams (manager_id, name)
		VALUES ($1, $2)
		ON CONFLICT (manager_id) DO UPDATE SET name = teams.name
		RETURNING id, name, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if err := r.dbpool.QueryRowContext(ctx, query, team.ManagerID, team.Name).Scan(&team.ID, &team.Name, &team.CreatedAt); err != nil {
		return storeErr(err)
	}

	return nil
}

// GetMembershipTeam 返回用户作为成员所属的团队，没有归属时返回未找到。
func (r *Repository) GetMembershipTeam(userID int64) (*domain.Team, error) {
	query := `
		SELECT t.id, t.manager_id, t.name, t.created_at
		FROM team_members tm
		JOIN teams t ON t.id = tm.team_id
		WHERE tm.user_id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	team := &domain.Team{}

	if err := r.dbpool.QueryRowContext(ctx, query, userID).Scan(&team.ID, &team.ManagerID, &team.Name, &team.CreatedAt); err != nil {
		return nil, storeErr(err)
	}

	return team, nil
}

func (r *Repository) AddTeamMember(teamID, userID int64) error {
	query := `
		INSERT INTO team_members (team_id, user_id) VALUES ($1, $2)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, teamID, userID); err != nil {
		return storeErr(err)
	}

	return nil
}

func (r *Repository) IsTeamMember(teamID, userID int64) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	isMember := false
	if err := r.dbpool.QueryRowContext(ctx, query, teamID, userID).Scan(&isMember); err != nil {
		return false, err
	}

	return isMember, nil
}

func (r *Repository) ListTeamMembers(teamID int64) ([]*domain.User, error) {
	query := `
		SELECT u.id, u.username, u.full_name, u.email, u.role, u.is_active, u.created_at
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		WHERE tm.team_id = $1
		ORDER BY u.full_name ASC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		dst := []any{&user.ID, &user.Username, &user.FullName, &user.Email, &user.Role, &user.IsActive, &user.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		members = append(members, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return members, nil
}
