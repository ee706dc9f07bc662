package testutil

import (
	"context"
	"interrogator/internal/model"
	"interrogator/pkg/database"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// DB opens a private in-memory sqlite database with every table migrated and
// the question types seeded. It is closed when the test ends.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=1"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql db: %v", err)
	}
	// one connection keeps the shared in-memory database alive and
	// serializes writers
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func Team(id uint) *uint {
	return &id
}

func SeedUser(tb testing.TB, db *gorm.DB, name string, team *uint) *model.User {
	tb.Helper()
	u := &model.User{Name: name, Email: uuid.NewString() + "@example.com", CurrentTeamID: team}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedClient(tb testing.TB, db *gorm.DB, name string, team *uint) *model.Client {
	tb.Helper()
	c := &model.Client{Name: name, Email: uuid.NewString() + "@example.com", CurrentTeamID: team}
	if err := db.Create(c).Error; err != nil {
		tb.Fatalf("seed client: %v", err)
	}
	return c
}

func QuestionType(tb testing.TB, db *gorm.DB, slug string) *model.QuestionType {
	tb.Helper()
	var qt model.QuestionType
	if err := db.Where("slug = ?", slug).First(&qt).Error; err != nil {
		tb.Fatalf("question type %s: %v", slug, err)
	}
	return &qt
}

// Count counts rows of m matching the query, soft-deleted rows included
// when unscoped is set.
func Count(tb testing.TB, db *gorm.DB, m interface{}, unscoped bool, query string, args ...interface{}) int64 {
	tb.Helper()
	q := db.Model(m)
	if unscoped {
		q = q.Unscoped()
	}
	if query != "" {
		q = q.Where(query, args...)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}

func Ctx() context.Context {
	return context.Background()
}
