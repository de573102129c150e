package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
)

// CreateEntry 用一条原子写入落库加班记录，分钟拆分随记录一起写入。
// (user_id, entry_date) 唯一索引兜底同一天不重复的不变量。
func (r *Repository) CreateEntry(entry *domain.OvertimeEntry) error {
	query := `
		INSERT INTO overtime_entries
			(user_id, entry_date, start_time, end_time, minutes_150, minutes_200, is_public_holiday, is_designated_day_off, note, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{
		entry.UserID,
		entry.Date,
		entry.StartTime,
		entry.EndTime,
		entry.Minutes150,
		entry.Minutes200,
		entry.IsPublicHoliday,
		entry.IsDesignatedDayOff,
		entry.Note,
		entry.Status,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&entry.ID, &entry.CreatedAt); err != nil {
		return storeErr(err)
	}

	return nil
}

func (r *Repository) GetEntry(id int64) (*domain.OvertimeEntry, error) {
	query := `
		SELECT user_id, entry_date, start_time, end_time, minutes_150, minutes_200,
			is_public_holiday, is_designated_day_off, note, status, created_at
		FROM overtime_entries WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	entry := &domain.OvertimeEntry{
		ID: id,
	}

	dst := []any{
		&entry.UserID,
		&entry.Date,
		&entry.StartTime,
		&entry.EndTime,
		&entry.Minutes150,
		&entry.Minutes200,
		&entry.IsPublicHoliday,
		&entry.IsDesignatedDayOff,
		&entry.Note,
		&entry.Status,
		&entry.CreatedAt,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, storeErr(err)
	}

	return entry, nil
}

func (r *Repository) DeleteEntry(id int64) error {
	query := `
		DELETE FROM overtime_entries WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

// UpdateEntryStatus 直接覆盖审批状态，不做单向流转限制，最后一次操作生效。
func (r *Repository) UpdateEntryStatus(id int64, status domain.EntryStatus) error {
	query := `
		UPDATE overtime_entries SET status = $1 WHERE id = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, status, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListEntriesByUserMonth(userID int64, startDate, endDate string) ([]*domain.OvertimeEntry, error) {
	query := `
		SELECT id, user_id, entry_date, start_time, end_time, minutes_150, minutes_200,
			is_public_holiday, is_designated_day_off, note, status, created_at
		FROM overtime_entries
		WHERE user_id = $1 AND entry_date BETWEEN $2 AND $3
		ORDER BY entry_date ASC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.OvertimeEntry, 0)
	for rows.Next() {
		entry := &domain.OvertimeEntry{}
		dst := []any{
			&entry.ID,
			&entry.UserID,
			&entry.Date,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Minutes150,
			&entry.Minutes200,
			&entry.IsPublicHoliday,
			&entry.IsDesignatedDayOff,
			&entry.Note,
			&entry.Status,
			&entry.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

func (r *Repository) ListEntriesByTeamMonth(teamID int64, startDate, endDate string) ([]*domain.TeamEntry, error) {
	query := `
		SELECT e.id, e.user_id, u.full_name, e.entry_date, e.start_time, e.end_time,
			e.minutes_150, e.minutes_200, e.is_public_holiday, e.is_designated_day_off,
			e.note, e.status, e.created_at
		FROM overtime_entries e
		JOIN team_members tm ON tm.user_id = e.user_id
		JOIN users u ON u.id = e.user_id
		WHERE tm.team_id = $1 AND e.entry_date BETWEEN $2 AND $3
		ORDER BY e.entry_date ASC, e.id ASC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, teamID, startDate, endDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.TeamEntry, 0)
	for rows.Next() {
		entry := &domain.TeamEntry{}
		dst := []any{
			&entry.ID,
			&entry.UserID,
			&entry.UserName,
			&entry.Date,
			&entry.StartTime,
			&entry.EndTime,
			&entry.Minutes150,
			&entry.Minutes200,
			&entry.IsPublicHoliday,
			&entry.IsDesignatedDayOff,
			&entry.Note,
			&entry.Status,
			&entry.CreatedAt,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

// DeleteEntriesByTeam 清空一个团队全部成员的加班记录，只影响该团队。
func (r *Repository) DeleteEntriesByTeam(teamID int64) error {
	query := `
		DELETE FROM overtime_entries
		WHERE user_id IN (SELECT user_id FROM team_members WHERE team_id = $1)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, teamID); err != nil {
		return err
	}

	return nil
}

// MonthlyTotalsByTeam 汇总团队每个成员在字符串日期区间内的分钟数。
// LEFT JOIN 保证当月没有记录的成员也出现在结果中，各项合计为零。
func (r *Repository) MonthlyTotalsByTeam(teamID int64, startDate, endDate string) ([]*domain.MonthlyTotal, error) {
	query := `
		SELECT u.id, u.full_name,
			COALESCE(SUM(CASE WHEN e.status = 'approved' THEN e.minutes_150 ELSE 0 END), 0) AS approved_150,
			COALESCE(SUM(CASE WHEN e.status = 'approved' THEN e.minutes_200 ELSE 0 END), 0) AS approved_200,
			COALESCE(SUM(CASE WHEN e.status = 'pending' THEN e.minutes_150 ELSE 0 END), 0) AS pending_150,
			COALESCE(SUM(CASE WHEN e.status = 'pending' THEN e.minutes_200 ELSE 0 END), 0) AS pending_200
		FROM team_members tm
		JOIN users u ON u.id = tm.user_id
		LEFT JOIN overtime_entries e ON e.user_id = u.id AND e.entry_date BETWEEN $1 AND $2
		WHERE tm.team_id = $3
		GROUP BY u.id, u.full_name
		ORDER BY u.full_name ASC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, startDate, endDate, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make([]*domain.MonthlyTotal, 0)
	for rows.Next() {
		total := &domain.MonthlyTotal{}
		dst := []any{&total.UserID, &total.UserName, &total.Approved150, &total.Approved200, &total.Pending150, &total.Pending200}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		totals = append(totals, total)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return totals, nil
}
