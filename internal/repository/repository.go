package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/config"
	"github.com/sysu-ecnc-dev/overtime-tracker/backend/internal/overtime"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// storeErr 把存储层错误映射成引擎错误，唯一索引和序列化失败都归为冲突。
// 引擎的不变量由这些约束兜底，两个并发的冲突写入者中会有一个在这里被拒绝。
func storeErr(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w", overtime.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "40001":
			// 可序列化事务被中止，冲突的写入者需要自行重新提交
			return fmt.Errorf("%w: 并发写入冲突，请重试", overtime.ErrConflict)
		case pgErr.ConstraintName == "overtime_entries_user_id_entry_date_key":
			return fmt.Errorf("%w: 当天已存在加班记录", overtime.ErrConflict)
		case pgErr.ConstraintName == "team_members_user_id_key":
			return fmt.Errorf("%w: 该用户已属于某个团队", overtime.ErrConflict)
		case pgErr.ConstraintName == "teams_manager_id_key":
			return fmt.Errorf("%w: 该主管已拥有团队", overtime.ErrConflict)
		case pgErr.ConstraintName == "overtime_periods_date_order_check":
			return fmt.Errorf("%w: 结束日期不能早于开始日期", overtime.ErrValidation)
		}
	}

	return err
}
