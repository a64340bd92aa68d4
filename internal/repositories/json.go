package repositories

import (
	"encoding/json"
	"fmt"
)

// jsonColumn marshals a value for a serializer:json column updated
// through a map, which bypasses GORM's field serializer.
func jsonColumn(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal json column: %w", err)
	}
	return string(b), nil
}
