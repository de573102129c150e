package repository

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrate 在启动时把数据库结构推进到最新版本，已是最新时直接返回。
// 版本化的迁移序列由持久化层统一持有，业务代码不再探测列、临时改表。
func (r *Repository) Migrate() error {
	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("无法创建迁移源: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, r.cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("无法创建迁移器: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("执行迁移失败: %w", err)
	}

	return nil
}
