package comment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is a user submission together with the rendering that was served back.
// RawText is kept for analysis and never leaves the service.
type Comment struct {
	ID            uuid.UUID `json:"id" gorm:"type:varchar(36);primaryKey"`
	RawText       string    `json:"-" gorm:"type:text;not null"`
	SanitizedText string    `json:"sanitized_text" gorm:"type:text;not null"`
	Context       string    `json:"context" gorm:"type:varchar(50);not null"`
	IsFlagged     bool      `json:"is_flagged" gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
}

func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	return nil
}

func (c *Comment) TableName() string {
	return "comments"
}
