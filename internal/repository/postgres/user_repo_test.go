package postgres

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pgdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/yourusername/classroom-api/internal/domain/entity"
)

// newDryRunDB открывает gorm в режиме DryRun без подключения к базе:
// SQL собирается, но не выполняется.
func newDryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(pgdriver.New(pgdriver.Config{
		DSN: "host=localhost user=test dbname=test",
	}), &gorm.Config{
		DryRun:                 true,
		SkipDefaultTransaction: true,
		DisableAutomaticPing:   true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

// Цель ON CONFLICT должна совпадать с полным уникальным индексом по google_id.
// Частичный индекс (WHERE google_id IS NOT NULL) Postgres для этой цели не
// выводит, и upsert падал бы с 42P10 на каждом входе через Google.
func TestUserRepo_UpsertByGoogleID_ConflictTargetMatchesIndex(t *testing.T) {
	db := newDryRunDB(t)

	googleID := "google-sub-1"
	user := &entity.User{
		GoogleID: &googleID,
		Email:    "student@example.com",
		Name:     "Student",
		Role:     entity.RoleStudent,
	}

	tx := db.Clauses(googleIDConflict).Create(user)
	require.NoError(t, tx.Error)

	sql := tx.Statement.SQL.String()
	assert.Contains(t, sql, `ON CONFLICT ("google_id") DO UPDATE`)
	assert.NotContains(t, sql, `ON CONFLICT ("google_id") WHERE`,
		"цель конфликта не должна нести предикат частичного индекса")

	// Сам индекс в миграции обязан быть полным, иначе цель не выведется
	migration, err := os.ReadFile("../../../migrations/000001_init_schema.up.sql")
	require.NoError(t, err)

	var indexLine string
	for _, line := range strings.Split(string(migration), "\n") {
		if strings.Contains(line, "idx_users_google_id") {
			indexLine = line
			break
		}
	}
	require.NotEmpty(t, indexLine, "миграция должна создавать idx_users_google_id")
	assert.Contains(t, indexLine, "CREATE UNIQUE INDEX idx_users_google_id ON users (google_id)")
	assert.NotContains(t, indexLine, "WHERE")
}
