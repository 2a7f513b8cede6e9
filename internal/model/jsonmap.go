package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap is a flat string-keyed map persisted as jsonb. Used for the
// immutable form_response snapshot on Application.
type JSONMap map[string]string

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}

	return json.Unmarshal(raw, m)
}

// GormDataType tells gorm which column type to migrate to.
func (JSONMap) GormDataType() string {
	return "jsonb"
}
