package cache

import (
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/shrek82/oramap/reader"
)

const (
	cellNil uint8 = iota
	cellInt
	cellUint
	cellFloat
	cellBool
	cellBytes
	cellString
	cellTime
)

// rowSet encodes every cell with a type marker so values come back with the
// types the driver produced.
type rowSet []reader.Values

// EncodeRows serialises raw driver rows.
func EncodeRows(rows []reader.Values) ([]byte, error) {
	return msgpack.Marshal(rowSet(rows))
}

// DecodeRows is the inverse of EncodeRows.
func DecodeRows(b []byte) ([]reader.Values, error) {
	var rs rowSet
	if err := msgpack.Unmarshal(b, &rs); err != nil {
		return nil, err
	}
	return rs, nil
}

func (rs rowSet) EncodeMsgpack(enc *msgpack.Encoder) error {
	if err := enc.EncodeArrayLen(len(rs)); err != nil {
		return err
	}
	for _, row := range rs {
		if err := enc.EncodeArrayLen(len(row)); err != nil {
			return err
		}
		for _, v := range row {
			if err := encodeCell(enc, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (rs *rowSet) DecodeMsgpack(dec *msgpack.Decoder) error {
	n, err := dec.DecodeArrayLen()
	if err != nil {
		return err
	}
	if n < 0 {
		*rs = nil
		return nil
	}
	out := make(rowSet, n)
	for i := range out {
		width, err := dec.DecodeArrayLen()
		if err != nil {
			return err
		}
		row := make(reader.Values, max(width, 0))
		for j := range row {
			if row[j], err = decodeCell(dec); err != nil {
				return err
			}
		}
		out[i] = row
	}
	*rs = out
	return nil
}

func encodeCell(enc *msgpack.Encoder, v any) error {
	var err error
	switch x := v.(type) {
	case nil:
		return enc.EncodeUint8(cellNil)
	case int64:
		if err = enc.EncodeUint8(cellInt); err == nil {
			err = enc.EncodeInt(x)
		}
	case int:
		if err = enc.EncodeUint8(cellInt); err == nil {
			err = enc.EncodeInt(int64(x))
		}
	case int32:
		if err = enc.EncodeUint8(cellInt); err == nil {
			err = enc.EncodeInt(int64(x))
		}
	case uint64:
		if err = enc.EncodeUint8(cellUint); err == nil {
			err = enc.EncodeUint(x)
		}
	case float64:
		if err = enc.EncodeUint8(cellFloat); err == nil {
			err = enc.EncodeFloat64(x)
		}
	case float32:
		if err = enc.EncodeUint8(cellFloat); err == nil {
			err = enc.EncodeFloat64(float64(x))
		}
	case bool:
		if err = enc.EncodeUint8(cellBool); err == nil {
			err = enc.EncodeBool(x)
		}
	case []byte:
		if err = enc.EncodeUint8(cellBytes); err == nil {
			err = enc.EncodeBytes(x)
		}
	case string:
		if err = enc.EncodeUint8(cellString); err == nil {
			err = enc.EncodeString(x)
		}
	case time.Time:
		if err = enc.EncodeUint8(cellTime); err == nil {
			err = enc.EncodeTime(x)
		}
	default:
		return fmt.Errorf("cache: cannot encode %T", v)
	}
	return err
}

func decodeCell(dec *msgpack.Decoder) (any, error) {
	marker, err := dec.DecodeUint8()
	if err != nil {
		return nil, err
	}
	switch marker {
	case cellNil:
		return nil, nil
	case cellInt:
		return dec.DecodeInt64()
	case cellUint:
		return dec.DecodeUint64()
	case cellFloat:
		return dec.DecodeFloat64()
	case cellBool:
		return dec.DecodeBool()
	case cellBytes:
		return dec.DecodeBytes()
	case cellString:
		return dec.DecodeString()
	case cellTime:
		return dec.DecodeTime()
	}
	return nil, fmt.Errorf("cache: unknown cell marker %d", marker)
}
