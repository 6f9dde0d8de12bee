package reader

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shrek82/oramap/dialect"
)

var errNotConvertible = errors.New("incompatible value")

// dateLayout is how DATE values are rendered when read into string fields.
const dateLayout = "2006-01-02 15:04:05"

// timeLayouts lists the textual timestamp formats drivers are known to return.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	dateLayout,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

func toString(v any, dbType dialect.DbType) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case bool:
		if dbType == dialect.Char || dbType == dialect.NChar {
			if x {
				return "Y", nil
			}
			return "N", nil
		}
		return strconv.FormatBool(x), nil
	case time.Time:
		if dbType == dialect.Date {
			return x.Format(dateLayout), nil
		}
		return x.Format(time.RFC3339Nano), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", errNotConvertible
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case int64:
		return x, nil
	case int:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return 0, ErrOverflow
		}
		return int64(x), nil
	case float64:
		if x != math.Trunc(x) || x < math.MinInt64 || x >= 1<<63 {
			return 0, ErrOverflow
		}
		return int64(x), nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	case []byte:
		return parseInt(string(x))
	case string:
		return parseInt(x)
	}
	return 0, errNotConvertible
}

// parseInt accepts integral decimal strings such as "42" or "42.000" (Oracle NUMBER text).
func parseInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsInteger() {
		return 0, ErrOverflow
	}
	return d.IntPart(), nil
}

func toUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case uint64:
		return x, nil
	case uint:
		return uint64(x), nil
	case uint32:
		return uint64(x), nil
	case uint16:
		return uint64(x), nil
	case uint8:
		return uint64(x), nil
	case []byte:
		return strconv.ParseUint(strings.TrimSpace(string(x)), 10, 64)
	case string:
		return strconv.ParseUint(strings.TrimSpace(x), 10, 64)
	}
	n, err := toInt64(v)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, ErrOverflow
	}
	return uint64(n), nil
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int64:
		return float64(x), nil
	case uint64:
		return float64(x), nil
	case []byte:
		return strconv.ParseFloat(strings.TrimSpace(string(x)), 64)
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return 0, errNotConvertible
}

func toBool(v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case int64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case []byte:
		return parseBool(string(x))
	case string:
		return parseBool(x)
	}
	return false, errNotConvertible
}

// parseBool extends strconv.ParseBool with the Y/N flags common in CHAR(1) columns.
func parseBool(s string) (bool, error) {
	switch strings.TrimSpace(s) {
	case "Y", "y":
		return true, nil
	case "N", "n":
		return false, nil
	}
	return strconv.ParseBool(strings.TrimSpace(s))
}

// toTime converts v to a time. ok is false for zero dates such as
// "0000-00-00 00:00:00", which nullable columns read as NULL.
func toTime(v any) (t time.Time, ok bool, err error) {
	switch x := v.(type) {
	case time.Time:
		return x, !x.IsZero(), nil
	case []byte:
		return parseTime(string(x))
	case string:
		return parseTime(x)
	}
	return time.Time{}, false, errNotConvertible
}

func parseTime(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.HasPrefix(s, "0000-00-00") {
		return time.Time{}, false, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("unrecognised time format %q", s)
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		out := make([]byte, len(x))
		copy(out, x)
		return out, nil
	case string:
		return []byte(x), nil
	}
	return nil, errNotConvertible
}

func toDecimal(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case uint64:
		return decimal.NewFromString(strconv.FormatUint(x, 10))
	case float64:
		return decimal.NewFromFloat(x), nil
	case []byte:
		return decimal.NewFromString(strings.TrimSpace(string(x)))
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	}
	return decimal.Decimal{}, errNotConvertible
}

func toUUID(v any) (uuid.UUID, error) {
	switch x := v.(type) {
	case uuid.UUID:
		return x, nil
	case []byte:
		if len(x) == 16 {
			return uuid.FromBytes(x)
		}
		return uuid.ParseBytes(x)
	case string:
		return uuid.Parse(x)
	}
	return uuid.Nil, errNotConvertible
}
