package models

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DBPoolConfig 数据库连接池配置
type DBPoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// OpenDB 打开数据库连接
func OpenDB(driver, dsn string, pool DBPoolConfig, debug bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	applyDBPool(sqlDB, pool)
	return db, nil
}

func applyDBPool(sqlDB *sql.DB, pool DBPoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}

// AutoMigrate 自动迁移所有数据库表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&Profile{},
		&OTPCode{},
		&LeaveRequest{},
		&Setting{},
		&NotificationLog{},
	); err != nil {
		return err
	}
	return ensureActiveOTPIndex(db)
}

// ensureActiveOTPIndex 同一 (identifier, type) 最多一条未使用验证码
func ensureActiveOTPIndex(db *gorm.DB) error {
	switch db.Dialector.Name() {
	case "postgres", "sqlite":
		return db.Exec(
			"CREATE UNIQUE INDEX IF NOT EXISTS uniq_otp_codes_active ON otp_codes (identifier, type) WHERE used = false",
		).Error
	default:
		// MySQL 不支持部分索引，由发放事务保证
		return nil
	}
}
