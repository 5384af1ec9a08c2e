package temporal

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Every value type serializes as its ISO-8601 string: JSON strings, YAML
// scalars and SQL TEXT columns all carry the same text that String returns
// and the matching Parse function accepts.

var jsonNull = []byte("null")

func unmarshalJSONString(data []byte, parse func(string) error) error {
	if bytes.Equal(data, jsonNull) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("expected a JSON string: %w", err)
	}
	return parse(s)
}

func unmarshalYAMLScalar(node *yaml.Node, parse func(string) error) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar", node.Line)
	}
	if err := parse(node.Value); err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	return nil
}

// Duration

func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Duration) MarshalJSON() ([]byte, error) { return json.Marshal(d.String()) }

func (d *Duration) UnmarshalJSON(data []byte) error {
	return unmarshalJSONString(data, func(s string) error { return d.UnmarshalText([]byte(s)) })
}

func (d Duration) MarshalYAML() (any, error) { return d.String(), nil }

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalYAMLScalar(node, func(s string) error { return d.UnmarshalText([]byte(s)) })
}

// Value stores the duration as its ISO text.
func (d Duration) Value() (driver.Value, error) { return d.String(), nil }

// Scan reads ISO text, or an integer count of microseconds.
func (d *Duration) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return d.UnmarshalText([]byte(v))
	case []byte:
		return d.UnmarshalText(v)
	case int64:
		*d = OfMicros(v)
		return nil
	case nil:
		*d = Duration{}
		return nil
	}
	return fmt.Errorf("cannot scan %T into Duration", src)
}

// DateTime

func (dt DateTime) MarshalText() ([]byte, error) { return []byte(dt.String()), nil }

func (dt *DateTime) UnmarshalText(text []byte) error {
	parsed, err := ParseDateTime(string(text))
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

func (dt DateTime) MarshalJSON() ([]byte, error) { return json.Marshal(dt.String()) }

func (dt *DateTime) UnmarshalJSON(data []byte) error {
	return unmarshalJSONString(data, func(s string) error { return dt.UnmarshalText([]byte(s)) })
}

func (dt DateTime) MarshalYAML() (any, error) { return dt.String(), nil }

// UnmarshalYAML also accepts the timestamps YAML resolves natively, such as
// an unquoted 2008-02-29, by reading the scalar's raw text.
func (dt *DateTime) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalYAMLScalar(node, func(s string) error { return dt.UnmarshalText([]byte(s)) })
}

// Value stores the date-time as its ISO text, keeping the offset.
func (dt DateTime) Value() (driver.Value, error) { return dt.String(), nil }

// Scan reads ISO text or a time.Time returned by the driver.
func (dt *DateTime) Scan(src any) error {
	switch v := src.(type) {
	case string:
		return dt.UnmarshalText([]byte(v))
	case []byte:
		return dt.UnmarshalText(v)
	case time.Time:
		parsed, err := FromTime(v)
		if err != nil {
			return err
		}
		*dt = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into DateTime", src)
}

// Interval

func (iv Interval) MarshalText() ([]byte, error) { return []byte(iv.String()), nil }

func (iv *Interval) UnmarshalText(text []byte) error {
	parsed, err := ParseInterval(string(text))
	if err != nil {
		return err
	}
	*iv = parsed
	return nil
}

func (iv Interval) MarshalJSON() ([]byte, error) { return json.Marshal(iv.String()) }

func (iv *Interval) UnmarshalJSON(data []byte) error {
	return unmarshalJSONString(data, func(s string) error { return iv.UnmarshalText([]byte(s)) })
}

func (iv Interval) MarshalYAML() (any, error) { return iv.String(), nil }

func (iv *Interval) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalYAMLScalar(node, func(s string) error { return iv.UnmarshalText([]byte(s)) })
}

// DayOfWeek

func (d DayOfWeek) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fieldOutOfRange(FieldDayOfWeek, int64(d))
	}
	return []byte(d.String()), nil
}

func (d *DayOfWeek) UnmarshalText(text []byte) error {
	parsed, err := ParseDayOfWeek(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d DayOfWeek) MarshalJSON() ([]byte, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

func (d *DayOfWeek) UnmarshalJSON(data []byte) error {
	return unmarshalJSONString(data, func(s string) error { return d.UnmarshalText([]byte(s)) })
}

func (d DayOfWeek) MarshalYAML() (any, error) {
	text, err := d.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

func (d *DayOfWeek) UnmarshalYAML(node *yaml.Node) error {
	return unmarshalYAMLScalar(node, func(s string) error { return d.UnmarshalText([]byte(s)) })
}
