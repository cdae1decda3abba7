package migrations

import (
	"github.com/NeuralTrust/XSSGuard/pkg/infra/database"
	"gorm.io/gorm"
)

func init() {
	database.RegisterMigration(database.Migration{
		ID:   "20250102_create_comments_table",
		Name: "Create comments table",

		Up: func(db *gorm.DB) error {
			if err := db.Exec(`
				CREATE TABLE IF NOT EXISTS comments (
					id             VARCHAR(36) PRIMARY KEY,
					raw_text       TEXT NOT NULL,
					sanitized_text TEXT NOT NULL,
					context        VARCHAR(50) NOT NULL,
					is_flagged     BOOLEAN NOT NULL DEFAULT FALSE,
					created_at     TIMESTAMP NOT NULL
				);
			`).Error; err != nil {
				return err
			}

			return db.Exec(`
				CREATE INDEX IF NOT EXISTS idx_comments_created_at
				ON comments (created_at);
			`).Error
		},

		Down: func(db *gorm.DB) error {
			return db.Exec(`DROP TABLE IF EXISTS comments;`).Error
		},
	})
}
