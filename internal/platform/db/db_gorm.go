// Package db はGORMによるデータベース接続（PostgreSQL/SQLite）を提供します。
package db

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Driver は接続先のデータベース種別です。
type Driver string

const (
	DriverPostgres Driver = "postgres"
	DriverSQLite   Driver = "sqlite"
)

// ErrUnsupportedURL はDATABASE_URLのスキームが未対応の場合に返されます。
var ErrUnsupportedURL = errors.New("unsupported DATABASE_URL scheme")

// Config はデータベース接続の設定です。
type Config struct {
	URL            string
	ConnectTimeout time.Duration
	LogLevel       logger.LogLevel
}

// Opener はDSNからgorm.DBを開く関数です。テストで差し替えられます。
type Opener func(dsn string) (*gorm.DB, error)

// ParseURL はDATABASE_URLを解析し、ドライバーとDSNを返します。
//   - postgres://... / postgresql://... はそのままPostgreSQLのDSNとして扱う
//   - sqlite://<path> / sqlite::memory: はSQLiteのファイルパスに変換し、外部キー制約を有効にする
func ParseURL(raw string) (Driver, string, error) {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "postgres://"), strings.HasPrefix(raw, "postgresql://"):
		return DriverPostgres, raw, nil
	case raw == "sqlite::memory:":
		return DriverSQLite, "file::memory:?cache=shared&_foreign_keys=on", nil
	case strings.HasPrefix(raw, "sqlite://"):
		path := strings.TrimPrefix(raw, "sqlite://")
		if path == "" {
			return "", "", fmt.Errorf("%w: empty sqlite path", ErrUnsupportedURL)
		}
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		return DriverSQLite, path + sep + "_foreign_keys=on", nil
	}
	return "", "", fmt.Errorf("%w: %q", ErrUnsupportedURL, redact(raw))
}

// Open はcfgに従って接続し、接続できるまでConnectTimeoutの間リトライします。
func Open(cfg Config) (*gorm.DB, error) {
	driver, dsn, err := ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}
	gormCfg := &gorm.Config{
		// 一意制約違反などをgorm.ErrDuplicatedKeyに変換させる
		TranslateError: true,
		Logger:         logger.Default.LogMode(cfg.LogLevel),
	}
	opener := func(dsn string) (*gorm.DB, error) {
		switch driver {
		case DriverPostgres:
			return gorm.Open(postgres.Open(dsn), gormCfg)
		default:
			return gorm.Open(sqlite.Open(dsn), gormCfg)
		}
	}

	db, err := ConnectWithRetry(dsn, cfg.ConnectTimeout, opener)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// SQLiteは同時書き込みに弱いため接続を1本に絞る
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}
	slog.Info("database connected", "driver", driver)
	return db, nil
}

// ConnectWithRetry はopenerが成功するかtimeoutを過ぎるまでリトライします。
func ConnectWithRetry(dsn string, timeout time.Duration, opener Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().Add(retryInterval).After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %s: %w", timeout, err)
		}
		slog.Warn("DB connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(retryInterval)
	}
}

// Migrate は指定されたモデルのテーブルを作成・更新します。
func Migrate(db *gorm.DB, models ...any) error {
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

// redact はURL中のパスワードを伏せ字にします。
func redact(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return raw
	}
	user, _, _ := strings.Cut(creds, ":")
	return scheme + "://" + user + ":***@" + host
}
