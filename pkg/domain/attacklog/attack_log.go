package attacklog

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AttackLog records one submission that the detector flagged.
type AttackLog struct {
	ID           uuid.UUID    `json:"id" gorm:"type:varchar(36);primaryKey"`
	Payload      string       `json:"payload" gorm:"type:text;not null"`
	AttackType   string       `json:"attack_type" gorm:"type:varchar(50);not null"`
	RiskScore    int          `json:"risk_score" gorm:"not null"`
	MatchedRules MatchedRules `json:"matched_rules" gorm:"type:text;not null"`
	IPAddress    string       `json:"ip_address" gorm:"type:varchar(45)"`
	UserAgent    string       `json:"user_agent" gorm:"type:text"`
	Timestamp    time.Time    `json:"timestamp" gorm:"column:created_at;not null"`
}

func (a *AttackLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now().UTC()
	}
	return nil
}

func (a *AttackLog) TableName() string {
	return "attack_logs"
}

// MatchedRules is persisted as a JSON array string.
type MatchedRules []string

func (m MatchedRules) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(m))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *MatchedRules) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*m = MatchedRules{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("expected []byte or string, got %T", value)
	}
	if len(raw) == 0 {
		*m = MatchedRules{}
		return nil
	}
	return json.Unmarshal(raw, m)
}
