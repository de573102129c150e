package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/domain"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/overtime"
)

// CreatePeriodIfDisjoint 在可序列化事务内检查重叠后写入申报窗口。
// 检查和写入发生在同一个事务里，两个并发的重叠窗口写入者会有一个
// 因序列化失败被中止并映射成冲突错误，由调用方决定是否重新提交。
func (r *Repository) CreatePeriodIfDisjoint(period *domain.OvertimePeriod) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// 闭区间相交判定：并非（已有窗口完全在前或完全在后）即为重叠
	query := `
		SELECT EXISTS (
			SELECT 1 FROM overtime_periods
			WHERE user_id = $1 AND NOT (end_date < $2 OR start_date > $3)
		)
	`

	overlap := false
	if err := tx.QueryRowContext(ctx, query, period.UserID, period.StartDate, period.EndDate).Scan(&overlap); err != nil {
		return storeErr(err)
	}
	if overlap {
		return fmt.Errorf("%w: 与已有申报窗口重叠", overtime.ErrConflict)
	}

	query = `
		INSERT INTO overtime_periods (user_id, start_date, end_date, opened_by_manager_id, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	args := []any{period.UserID, period.StartDate, period.EndDate, period.OpenedByManagerID, period.Reason}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&period.ID, &period.CreatedAt); err != nil {
		return storeErr(err)
	}

	if err := tx.Commit(); err != nil {
		return storeErr(err)
	}

	return nil
}

func (r *Repository) GetPeriod(id int64) (*domain.OvertimePeriod, error) {
	query := `
		SELECT user_id, start_date, end_date, opened_by_manager_id, reason, created_at
		FROM overtime_periods WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	period := &domain.OvertimePeriod{
		ID: id,
	}

	dst := []any{&period.UserID, &period.StartDate, &period.EndDate, &period.OpenedByManagerID, &period.Reason, &period.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, storeErr(err)
	}

	return period, nil
}

func (r *Repository) DeletePeriod(id int64) error {
	query := `
		DELETE FROM overtime_periods WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}

func (r *Repository) ListPeriodsByUser(userID int64) ([]*domain.OvertimePeriod, error) {
	query := `
		SELECT id, user_id, start_date, end_date, opened_by_manager_id, reason, created_at
		FROM overtime_periods
		WHERE user_id = $1
		ORDER BY start_date DESC, id DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	periods := make([]*domain.OvertimePeriod, 0)
	for rows.Next() {
		period := &domain.OvertimePeriod{}
		dst := []any{&period.ID, &period.UserID, &period.StartDate, &period.EndDate, &period.OpenedByManagerID, &period.Reason, &period.CreatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		periods = append(periods, period)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return periods, nil
}

func (r *Repository) HasOpenPeriod(userID int64, date string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM overtime_periods
			WHERE user_id = $1 AND start_date <= $2 AND end_date >= $2
		)
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	isOpen := false
	if err := r.dbpool.QueryRowContext(ctx, query, userID, date).Scan(&isOpen); err != nil {
		return false, err
	}

	return isOpen, nil
}
