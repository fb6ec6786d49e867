package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Translation records one run of the pipeline over an uploaded source
type Translation struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceName   string    `json:"source_name"`
	Source       string    `json:"source" gorm:"type:text"`
	SourceDigest string    `json:"source_digest" gorm:"index"`
	Output       string    `json:"output" gorm:"type:text"`
	Checked      bool      `json:"checked"`
	Status       string    `json:"status" gorm:"index"`
	ErrorStage   string    `json:"error_stage,omitempty"`
	ErrorKind    string    `json:"error_kind,omitempty"`
	ErrorLine    int       `json:"error_line,omitempty"`
	ErrorMessage string    `json:"error_message,omitempty"`
	Stats        JSONMap   `json:"stats" gorm:"type:jsonb"`
	RequestID    string    `json:"request_id"`
	ClientIP     string    `json:"client_ip"`
	UserAgent    string    `json:"user_agent"`
	CreatedAt    time.Time `json:"created_at" gorm:"default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for Translation
func (Translation) TableName() string {
	return "translations"
}

// Succeeded reports whether the pipeline produced output
func (t *Translation) Succeeded() bool {
	return t.Status == StatusSuccess
}

// Constants for Translation status
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// JSONMap represents a generic map stored as JSONB in the database
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface for JSONMap
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface for JSONMap
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("type assertion failed: failed to decode JSONB")
	}

	return json.Unmarshal(bytes, m)
}
