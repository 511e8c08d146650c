package index

import (
	"reflect"
	"sort"
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// encoder writes store values as MessagePack. Time values are written as
// ISO-8601 strings instead of the msgpack timestamp extension: a date with no
// clock part becomes "2006-01-02", anything else RFC 3339.
type encoder struct {
	*msgpack.Encoder
}

func init() {
	// Covers time values reached through struct fields and interfaces.
	msgpack.Register(time.Time{}, func(e *msgpack.Encoder, v reflect.Value) error {
		return e.EncodeString(isoTime(v.Interface().(time.Time)))
	}, nil)
}

func (e encoder) encode(v any) error {
	switch v := v.(type) {
	case time.Time:
		return e.EncodeString(isoTime(v))
	case *time.Time:
		if v == nil {
			return e.EncodeNil()
		}
		return e.EncodeString(isoTime(*v))
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		if err := e.EncodeMapLen(len(keys)); err != nil {
			return err
		}
		for _, k := range keys {
			if err := e.EncodeString(k); err != nil {
				return err
			}
			if err := e.encode(v[k]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := e.EncodeArrayLen(len(v)); err != nil {
			return err
		}
		for _, x := range v {
			if err := e.encode(x); err != nil {
				return err
			}
		}
		return nil
	default:
		return e.Encode(v)
	}
}

func isoTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && t.Location() == time.UTC {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339Nano)
}
