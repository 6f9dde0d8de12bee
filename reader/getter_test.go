package reader

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrek82/oramap/dialect"
)

type code string

func TestForScalars(t *testing.T) {
	row := Values{"abc", int64(42), 2.5, int64(1), []byte("12.50"), nil}

	t.Run("String", func(t *testing.T) {
		g, err := For(reflect.TypeOf(""), dialect.Varchar2, false)
		require.NoError(t, err)
		v, err := g(row, 0)
		require.NoError(t, err)
		assert.Equal(t, "abc", v)
	})

	t.Run("NamedString", func(t *testing.T) {
		g, err := For(reflect.TypeOf(code("")), dialect.Varchar2, false)
		require.NoError(t, err)
		v, err := g(row, 1)
		require.NoError(t, err)
		assert.Equal(t, "42", v)
	})

	t.Run("Int", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int32(0)), dialect.Int32, false)
		require.NoError(t, err)
		v, err := g(row, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(42), v)
	})

	t.Run("Float", func(t *testing.T) {
		g, err := For(reflect.TypeOf(float64(0)), dialect.Double, false)
		require.NoError(t, err)
		v, err := g(row, 2)
		require.NoError(t, err)
		assert.Equal(t, 2.5, v)
	})

	t.Run("BoolFromInt", func(t *testing.T) {
		g, err := For(reflect.TypeOf(false), dialect.Boolean, false)
		require.NoError(t, err)
		v, err := g(row, 3)
		require.NoError(t, err)
		assert.Equal(t, true, v)
	})

	t.Run("Decimal", func(t *testing.T) {
		g, err := For(reflect.TypeOf(decimal.Decimal{}), dialect.Decimal, false)
		require.NoError(t, err)
		v, err := g(row, 4)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("12.5").Equal(v.(decimal.Decimal)))
	})
}

func TestForNulls(t *testing.T) {
	row := Values{nil}

	t.Run("NonNullableFails", func(t *testing.T) {
		g, err := For(reflect.TypeOf(""), dialect.Varchar2, false)
		require.NoError(t, err)
		_, err = g(row, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNull))

		var cerr *ConversionError
		require.True(t, errors.As(err, &cerr))
		assert.Equal(t, 0, cerr.Index)
	})

	t.Run("NullableZero", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int64(0)), dialect.Int64, true)
		require.NoError(t, err)
		v, err := g(row, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(0), v)
	})

	t.Run("PointerNil", func(t *testing.T) {
		g, err := For(reflect.TypeOf((*time.Time)(nil)), dialect.TimeStamp, false)
		require.NoError(t, err)
		v, err := g(row, 0)
		require.NoError(t, err)
		assert.Nil(t, v)
	})

	t.Run("ZeroDateIsNull", func(t *testing.T) {
		g, err := For(reflect.TypeOf((*time.Time)(nil)), dialect.Date, true)
		require.NoError(t, err)
		v, err := g(Values{"0000-00-00 00:00:00"}, 0)
		require.NoError(t, err)
		assert.Nil(t, v)
	})
}

func TestForTime(t *testing.T) {
	g, err := For(reflect.TypeOf(time.Time{}), dialect.Date, false)
	require.NoError(t, err)

	want, _ := time.ParseInLocation("2006-01-02 15:04:05", "2026-01-15 16:08:38", time.Local)
	for _, raw := range []any{"2026-01-15 16:08:38", []byte("2026-01-15 16:08:38"), want} {
		v, err := g(Values{raw}, 0)
		require.NoError(t, err)
		assert.True(t, want.Equal(v.(time.Time)), "raw %T", raw)
	}

	_, err = g(Values{"yesterday"}, 0)
	assert.Error(t, err)
}

func TestForUUID(t *testing.T) {
	id := uuid.New()
	g, err := For(reflect.TypeOf(uuid.UUID{}), dialect.Raw, false)
	require.NoError(t, err)

	v, err := g(Values{id[:]}, 0)
	require.NoError(t, err)
	assert.Equal(t, id, v)

	v, err = g(Values{id.String()}, 0)
	require.NoError(t, err)
	assert.Equal(t, id, v)
}

func TestForConversionFailures(t *testing.T) {
	t.Run("Overflow", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int8(0)), dialect.Int16, false)
		require.NoError(t, err)
		_, err = g(Values{int64(300)}, 0)
		assert.True(t, errors.Is(err, ErrOverflow))
	})

	t.Run("FloatBoundary", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int64(0)), dialect.Int64, false)
		require.NoError(t, err)
		_, err = g(Values{float64(math.MaxInt64)}, 0)
		assert.True(t, errors.Is(err, ErrOverflow))

		v, err := g(Values{float64(math.MinInt64)}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(math.MinInt64), v)

		v, err = g(Values{float64(1 << 62)}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(1<<62), v)
	})

	t.Run("NotNumeric", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int64(0)), dialect.Int64, false)
		require.NoError(t, err)
		_, err = g(Values{"forty-two"}, 0)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "column 0")
	})

	t.Run("Fractional", func(t *testing.T) {
		g, err := For(reflect.TypeOf(int64(0)), dialect.Decimal, false)
		require.NoError(t, err)
		_, err = g(Values{"12.5"}, 0)
		assert.True(t, errors.Is(err, ErrOverflow))

		v, err := g(Values{"12.000"}, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(12), v)
	})

	t.Run("Unsupported", func(t *testing.T) {
		_, err := For(reflect.TypeOf(map[string]int{}), dialect.Clob, false)
		assert.True(t, errors.Is(err, ErrUnsupportedType))
	})
}

func TestBoolFlags(t *testing.T) {
	g, err := For(reflect.TypeOf(false), dialect.Char, false)
	require.NoError(t, err)
	v, err := g(Values{"Y"}, 0)
	require.NoError(t, err)
	assert.Equal(t, true, v)

	s, err := For(reflect.TypeOf(""), dialect.Char, false)
	require.NoError(t, err)
	v, err = s(Values{false}, 0)
	require.NoError(t, err)
	assert.Equal(t, "N", v)
}
