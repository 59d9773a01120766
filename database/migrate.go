// database/migrate.go - Database Migration Runner
package database

import (
	"log"

	"arenahub/models"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations.
func RunMigrations(db *gorm.DB) {
	log.Println("🔄 Running database migrations...")

	if err := db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.Membership{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("❌ Failed to run migrations: %v", err)
	}

	createIndexes(db)

	log.Println("✅ Migrations completed")
}

// createIndexes creates indexes the roster and notification queries depend on.
func createIndexes(db *gorm.DB) {
	db.Exec("CREATE INDEX IF NOT EXISTS idx_memberships_team_active ON memberships(team_id, is_active)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_memberships_user_active ON memberships(user_id, is_active)")
	// Partial unique index: at most one active membership per user, enforced
	// at the database even if a code path skips the service-level check.
	db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_memberships_single_active ON memberships(user_id) WHERE is_active")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_target_status ON notifications(target_user_id, status)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_notifications_team_target ON notifications(team_id, target_user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_code ON teams(team_code)")
}
