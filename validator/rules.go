package validator

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rule checks one column value.
type Rule interface {
	Validate(value any) error
	// Msg replaces the rule's error text.
	Msg(msg string) Rule
	// Optional skips the rule for zero values.
	Optional() Rule
	// When runs the rule only if fn reports true for the value.
	When(fn func(value any) bool) Rule
}

type rule struct {
	check    func(v any) error
	msg      string
	optional bool
	when     func(v any) bool
}

func newRule(check func(v any) error) Rule {
	return &rule{check: check}
}

func (r *rule) Validate(v any) error {
	if r.when != nil && !r.when(v) {
		return nil
	}
	if r.optional && isZero(v) {
		return nil
	}
	err := r.check(v)
	if err != nil && r.msg != "" {
		return errors.New(r.msg)
	}
	return err
}

func (r *rule) Msg(msg string) Rule {
	c := *r
	c.msg = msg
	return &c
}

func (r *rule) Optional() Rule {
	c := *r
	c.optional = true
	return &c
}

func (r *rule) When(fn func(any) bool) Rule {
	c := *r
	c.when = fn
	return &c
}

// Required rejects nil and zero values.
var Required = newRule(func(v any) error {
	if isZero(v) {
		return errors.New("is required")
	}
	return nil
})

// MinLen requires strings of at least min bytes.
func MinLen(min int) Rule {
	return newRule(func(v any) error {
		if s, ok := v.(string); ok && len(s) < min {
			return fmt.Errorf("length must be at least %d", min)
		}
		return nil
	})
}

// MaxLen limits strings and byte slices by byte length, matching
// VARCHAR2(n BYTE) and RAW(n) columns.
func MaxLen(max int) Rule {
	return newRule(func(v any) error {
		var n int
		switch x := v.(type) {
		case string:
			n = len(x)
		case []byte:
			n = len(x)
		default:
			return nil
		}
		if n > max {
			return fmt.Errorf("length must be at most %d", max)
		}
		return nil
	})
}

// MaxChars limits strings by character count, matching NVARCHAR2(n).
func MaxChars(max int) Rule {
	return newRule(func(v any) error {
		if s, ok := v.(string); ok && utf8.RuneCountInString(s) > max {
			return fmt.Errorf("must be at most %d characters", max)
		}
		return nil
	})
}

// Range bounds numeric values, decimals included.
func Range(min, max float64) Rule {
	return newRule(func(v any) error {
		f, ok := toFloat(v)
		if !ok {
			return nil
		}
		if f < min || f > max {
			return fmt.Errorf("value must be between %v and %v", min, max)
		}
		return nil
	})
}

// In accepts only the listed values. Numbers compare by value, so In(1, 2)
// accepts the int64 a column of type int binds as.
func In(values ...any) Rule {
	return newRule(func(v any) error {
		for _, want := range values {
			if equal(want, v) {
				return nil
			}
		}
		return errors.New("value is not in the allowed list")
	})
}

// Regexp requires strings matching pattern. It panics on a bad pattern.
func Regexp(pattern string) Rule {
	re := regexp.MustCompile(pattern)
	return newRule(func(v any) error {
		if s, ok := v.(string); !ok || !re.MatchString(s) {
			return errors.New("does not match pattern")
		}
		return nil
	})
}

// UUID requires strings in any form uuid.Parse accepts.
var UUID = newRule(func(v any) error {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	if _, err := uuid.Parse(s); err != nil {
		return errors.New("must be a valid UUID")
	}
	return nil
})

func toFloat(v any) (float64, bool) {
	if d, ok := v.(decimal.Decimal); ok {
		return d.InexactFloat64(), true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	return ta == tb && ta.Comparable() && a == b
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return rv.IsZero()
}
