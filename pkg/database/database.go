package database

import (
	"context"
	"errors"
	"fmt"
	"interrogator/internal/config"
	"interrogator/internal/model"
	"interrogator/internal/util"
	"log"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig, migrate bool) (*gorm.DB, error) {
	dialector, err := dialectorFor(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logLevel(cfg.LogLevel)),
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Database connection established (%s)", cfg.Driver)

	if !migrate {
		return db, nil
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")
	return db, nil
}

func dialectorFor(cfg *config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "", util.DatabaseMySQL:
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
			cfg.User,
			cfg.Password,
			cfg.Host,
			cfg.Port,
			cfg.DBName,
			cfg.Charset,
			cfg.ParseTime,
		)
		return mysql.Open(dsn), nil
	case util.DatabaseSQLite:
		path := cfg.Path
		if path == "" {
			path = "interrogator.db"
		}
		return sqlite.Open(sqliteDSN(path)), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
}

// sqliteDSN turns on foreign keys for every pooled connection, not just
// the first one opened.
func sqliteDSN(path string) string {
	if strings.Contains(path, "_foreign_keys=") || strings.Contains(path, "_fk=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=1"
}

func logLevel(name string) logger.LogLevel {
	switch name {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	}
	return logger.Warn
}

// Migrate creates the interrogator tables plus the bundled host tables and
// seeds the fixed question types.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.Hosts()...); err != nil {
		return err
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		return err
	}
	return SeedQuestionTypes(context.Background(), db)
}

// SeedQuestionTypes inserts any missing reference question types.
func SeedQuestionTypes(ctx context.Context, db *gorm.DB) error {
	for _, qt := range model.DefaultQuestionTypes() {
		var existing model.QuestionType
		err := db.WithContext(ctx).Where("slug = ?", qt.Slug).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		row := qt
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
