package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// jsonValue / jsonScan back the custom jsonb column types below.
func jsonValue(v interface{}) (driver.Value, error) {
	return json.Marshal(v)
}

func jsonScan(dst interface{}, value interface{}) error {
	switch b := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(b, dst)
	case string:
		return json.Unmarshal([]byte(b), dst)
	}
	return errors.New("unsupported source type for jsonb column")
}
