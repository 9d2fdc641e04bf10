package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/jyokotori/neko-words/internal/entity"
)

// Examples stores a word's example sentences as a JSON array.
type Examples []entity.Example

// History stores a review's grading history as a JSON array.
type History []entity.HistoryEntry

// Scan implements sql.Scanner
func (e *Examples) Scan(src any) error {
	return scanJSON("Examples", src, e)
}

// Value implements driver.Valuer
func (e Examples) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]entity.Example(e))
}

// Scan implements sql.Scanner
func (h *History) Scan(src any) error {
	return scanJSON("History", src, h)
}

// Value implements driver.Valuer
func (h History) Value() (driver.Value, error) {
	if h == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]entity.HistoryEntry(h))
}

func scanJSON(name string, src any, dst any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported src type %T", name, src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
