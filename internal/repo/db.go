package repo

import (
	"fmt"
	"strings"

	"LendIt/internal/model"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// IsPostgresDSN сообщает, что DSN указывает на Postgres, а не на файл SQLite.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// InitDB открывает хранилище и выполняет миграции всех таблиц.
// Postgres выбирается по схеме DSN, иначе DSN трактуется как путь к файлу SQLite
// (драйвер modernc.org/sqlite, без cgo).
func InitDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("empty database dsn")
	}
	cfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)}

	var (
		db  *gorm.DB
		err error
	)
	if IsPostgresDSN(dsn) {
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	} else {
		db, err = gorm.Open(gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}, cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open database: %v", model.ErrStoreFailure, err)
	}

	if !IsPostgresDSN(dsn) {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("%w: sql handle: %v", model.ErrStoreFailure, err)
		}
		// SQLite сериализует запись; одно соединение — и PRAGMA действуют на все запросы.
		sqlDB.SetMaxOpenConns(1)
		for _, p := range []string{
			"PRAGMA journal_mode=WAL",
			"PRAGMA busy_timeout=5000",
			"PRAGMA synchronous=NORMAL",
		} {
			if err := db.Exec(p).Error; err != nil {
				_ = sqlDB.Close()
				return nil, fmt.Errorf("%w: pragma %q: %v", model.ErrStoreFailure, p, err)
			}
		}
	}

	if err := db.AutoMigrate(&itemRow{}, &reminderRow{}); err != nil {
		return nil, fmt.Errorf("%w: migrate: %v", model.ErrStoreFailure, err)
	}
	return db, nil
}

// Close закрывает соединение с БД.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", model.ErrStoreFailure, op, err)
}
