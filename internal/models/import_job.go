package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Import job states. "completed" and "failed" are terminal; there are no
// transitions out of either.
const (
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// ImportError is one recorded failure inside an import job. Row is the
// 1-based data row index; it is 0 for job-level errors, and Field is
// empty when the error is not tied to a single column.
type ImportError struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Message string `json:"error"`
	Code    string `json:"code"`
}

// ImportErrorList is persisted as a JSON text column.
type ImportErrorList []ImportError

func (l ImportErrorList) Value() (driver.Value, error) {
	if len(l) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *ImportErrorList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type %T for ImportErrorList", value)
	}
}

// ImportJob tracks one CSV upload through its lifecycle. It is created
// in the processing state before any parsing begins so its status stays
// queryable even when the import fails, and only the import service may
// transition its Status field.
type ImportJob struct {
	gorm.Model
	ImportID string `gorm:"uniqueIndex;not null" json:"import_id"`
	UserID   string `gorm:"index;not null" json:"user_id"`
	FileName string `json:"file_name"`

	TotalRows     int `json:"total_rows"`
	ImportedRows  int `json:"imported_rows"`
	DuplicateRows int `json:"duplicate_rows"`

	Errors ImportErrorList `gorm:"type:text" json:"errors"`
	Status string          `gorm:"index" json:"status"`

	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	FileSize         int64      `json:"file_size"`
	ProcessingTimeMs int64      `json:"processing_time_ms"`
	CSVFormat        string     `json:"csv_format"`
}
