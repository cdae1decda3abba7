package migrations

import (
	"github.com/NeuralTrust/XSSGuard/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250101_create_attack_logs_table",
		Name: "Create attack_logs table for flagged submissions",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS attack_logs (
					id            VARCHAR(36) PRIMARY KEY,
					payload       TEXT NOT NULL,
					attack_type   VARCHAR(50) NOT NULL,
					risk_score    INTEGER NOT NULL,
					matched_rules TEXT NOT NULL,
					ip_address    VARCHAR(45),
					user_agent    TEXT,
					created_at    TIMESTAMP NOT NULL
				);
			`).Error; err != nil {
				return err
			}

			// Recent and high risk listings order by time
			if err := db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_attack_logs_created_at
				ON attack_logs (created_at);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_attack_logs_risk_score
				ON attack_logs (risk_score);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS attack_logs;`).Error
		},
	})
}
