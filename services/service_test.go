package services

import (
	"testing"
	"time"

	"arenahub/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema. A
// single connection is enforced so every goroutine in a test sees the same
// in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Notification{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.PlatformRole) *models.User {
	t.Helper()

	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "hashed",
		Role:      role,
		CreatedAt: time.Now(),
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createTeamWith creates a team led by a fresh captain and returns both.
func createTeamWith(t *testing.T, roster *RosterService, db *gorm.DB, name string) (*models.Team, *models.User) {
	t.Helper()

	captain := createUser(t, db, name+"-captain", models.PlatformRolePlayer)
	team, err := roster.CreateTeam(captain.ID, captain.Role, name, models.TeamRoleCaptain, "")
	require.NoError(t, err)
	return team, captain
}
