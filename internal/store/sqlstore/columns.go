package sqlstore

import (
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/tidwall/gjson"
)

// productsColumn scans ai_companies.products: a Postgres text[] or, in
// SQLite, a JSON array stored as text.
type productsColumn struct{ dst *[]string }

func (p productsColumn) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*p.dst = nil
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("products: unsupported type %T", src)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		*p.dst = nil
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		if !gjson.Valid(raw) {
			return fmt.Errorf("products: invalid JSON array")
		}
		var names []string
		for _, r := range gjson.Parse(raw).Array() {
			names = append(names, r.String())
		}
		*p.dst = names
		return nil
	}

	var arr pq.StringArray
	if err := arr.Scan(raw); err != nil {
		return fmt.Errorf("products: %w", err)
	}
	*p.dst = []string(arr)
	return nil
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
}

// timeColumn scans a nullable timestamp that the driver may hand back as a
// time.Time or as text.
type timeColumn struct{ dst **time.Time }

func (c timeColumn) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*c.dst = nil
		return nil
	case time.Time:
		t := v
		*c.dst = &t
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("timestamp: unsupported type %T", src)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			*c.dst = &t
			return nil
		}
	}
	return fmt.Errorf("timestamp: cannot parse %q", raw)
}
