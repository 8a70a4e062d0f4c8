package models

import (
	"database/sql/driver"
	"fmt"

	"github.com/goccy/go-json"
)

type CommandUsage struct {
	Name string `json:"name"`
	Uses int    `json:"uses"`
}

// CommandUsageList is stored as a jsonb array.
type CommandUsageList []CommandUsage

func (l CommandUsageList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CommandUsage(l))
}

func (l *CommandUsageList) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = CommandUsageList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("command usage scan: unsupported type %T", value)
	}
	var out []CommandUsage
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("command usage scan: %w", err)
	}
	*l = out
	return nil
}

// Top returns at most limit entries in stored order.
func (l CommandUsageList) Top(limit int) CommandUsageList {
	if limit <= 0 || limit >= len(l) {
		return l
	}
	return l[:limit]
}
