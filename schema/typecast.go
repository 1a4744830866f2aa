package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/now"
	"github.com/pkg/errors"
)

// ErrInvalidValue value can't be converted to the column type
var ErrInvalidValue = errors.New("invalid value")

// Typecast converts value to the Go type matching the column's data type.
// Empty strings become nil for non-string columns.
func Typecast(column *Column, value interface{}) (interface{}, error) {
	if column == nil || column.Type == "" || value == nil {
		return value, nil
	}

	if s, ok := value.(string); ok && s == "" && column.Type != String && column.Type != Bytes {
		return nil, nil
	}

	var (
		result interface{}
		err    error
	)

	switch column.Type {
	case Int:
		result, err = toInt(value)
	case Float, Decimal:
		result, err = toFloat(value)
	case Bool:
		result, err = toBool(value)
	case String:
		result = toString(value)
	case Time:
		result, err = toTime(value)
	case Date:
		var t time.Time
		if t, err = toTime(value); err == nil {
			result = now.With(t).BeginningOfDay()
		}
	case Bytes:
		switch v := value.(type) {
		case []byte:
			result = v
		case string:
			result = []byte(v)
		default:
			err = fmt.Errorf("unsupported type %T", value)
		}
	default:
		return value, nil
	}

	if err != nil {
		return nil, errors.Wrapf(ErrInvalidValue, "%#v for column %s (%s): %v", value, column.Name, column.Type, err)
	}
	return result, nil
}

func toInt(value interface{}) (int64, error) {
	switch v := value.(type) {
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case int64:
		return v, nil
	case uint:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		if v > math.MaxInt64 {
			return 0, fmt.Errorf("%d overflows int64", v)
		}
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case []byte:
		return toInt(string(v))
	case string:
		return strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	}
	return 0, fmt.Errorf("unsupported type %T", value)
}

func toFloat(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float32:
		return float64(v), nil
	case float64:
		return v, nil
	case []byte:
		return toFloat(string(v))
	case string:
		return strconv.ParseFloat(strings.TrimSpace(v), 64)
	}

	i, err := toInt(value)
	return float64(i), err
}

func toBool(value interface{}) (bool, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case []byte:
		return toBool(string(v))
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "t", "true", "y", "yes", "on", "1":
			return true, nil
		case "f", "false", "n", "no", "off", "0":
			return false, nil
		}
		return false, fmt.Errorf("can't parse %q as boolean", v)
	}

	i, err := toInt(value)
	return i != 0, err
}

func toString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case time.Time:
		return v.Format(time.RFC3339Nano)
	}
	return fmt.Sprint(value)
}

func toTime(value interface{}) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case *time.Time:
		if v != nil {
			return *v, nil
		}
	case []byte:
		return now.Parse(string(v))
	case string:
		return now.Parse(strings.TrimSpace(v))
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	}
	return time.Time{}, fmt.Errorf("unsupported type %T", value)
}
