package sqldb

import (
	"database/sql"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

const timeLayout = "2006-01-02 15:04:05.999999"

var timeLayouts = []string{
	timeLayout,
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02",
	"15:04:05.999999",
}

// deref follows pointers. isNil is true for nil or a nil pointer.
func deref(v any) (any, bool) {
	if v == nil {
		return nil, true
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, true
		}
		rv = rv.Elem()
	}
	return rv.Interface(), false
}

func toInt64(v any) (int64, error) {
	switch x := v.(type) {
	case []byte:
		return strconv.ParseInt(string(x), 10, 64)
	case string:
		return strconv.ParseInt(x, 10, 64)
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, fmt.Errorf("value %d overflows int64", u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, fmt.Errorf("value %g is not an int64", f)
		}
		return int64(f), nil
	}
	return 0, fmt.Errorf("cannot convert %T to integer", v)
}

func toFloat64(v any) (float64, error) {
	switch x := v.(type) {
	case []byte:
		return strconv.ParseFloat(string(x), 64)
	case string:
		return strconv.ParseFloat(x, 64)
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return 0, fmt.Errorf("cannot convert %T to float", v)
}

func toBytes(v any) ([]byte, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	case time.Time:
		return []byte(x.Format(timeLayout)), nil
	case bool:
		if x {
			return []byte("1"), nil
		}
		return []byte("0"), nil
	case fmt.Stringer:
		return []byte(x.String()), nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.AppendInt(nil, rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.AppendUint(nil, rv.Uint(), 10), nil
	case reflect.Float32:
		return strconv.AppendFloat(nil, rv.Float(), 'g', -1, 32), nil
	case reflect.Float64:
		return strconv.AppendFloat(nil, rv.Float(), 'g', -1, 64), nil
	case reflect.String:
		return []byte(rv.String()), nil
	}
	return nil, fmt.Errorf("cannot convert %T to string", v)
}

func toTime(v any) (time.Time, error) {
	var s string
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case []byte:
		s = string(x)
	case string:
		s = x
	default:
		return time.Time{}, fmt.Errorf("cannot convert %T to time", v)
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse %q as time", s)
}

// assignResult copies a driver value into the destination of a result slot.
// It reports whether the value was truncated to b.BufLen.
func assignResult(b *Bind, v any) (truncated bool, err error) {
	isNull := v == nil
	if b.IsNull != nil {
		*b.IsNull = isNull
	}
	if isNull {
		if b.Length != nil {
			*b.Length = 0
		}
		// destination keeps its previous contents
		if s, ok := b.Buffer.(sql.Scanner); ok {
			return false, s.Scan(nil)
		}
		return false, nil
	}

	if s, ok := b.Buffer.(sql.Scanner); ok {
		return false, s.Scan(v)
	}

	switch d := b.Buffer.(type) {
	case *string:
		raw, err := toBytes(v)
		if err != nil {
			return false, err
		}
		raw, truncated = clip(b, raw)
		*d = string(raw)
		return truncated, nil
	case *[]byte:
		raw, err := toBytes(v)
		if err != nil {
			return false, err
		}
		raw, truncated = clip(b, raw)
		*d = append((*d)[:0], raw...)
		return truncated, nil
	case *time.Time:
		t, err := toTime(v)
		if err != nil {
			return false, err
		}
		*d = t
		setLength(b, v)
		return false, nil
	case *bool:
		n, err := toInt64(v)
		if err != nil {
			return false, err
		}
		*d = n != 0
		setLength(b, v)
		return false, nil
	case *any:
		if raw, ok := v.([]byte); ok {
			v = append([]byte(nil), raw...)
		}
		*d = v
		setLength(b, v)
		return false, nil
	}

	rv := reflect.ValueOf(b.Buffer)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return false, fmt.Errorf("destination must be a non-nil pointer, got %T", b.Buffer)
	}
	dv := rv.Elem()
	switch dv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := toInt64(v)
		if err != nil {
			return false, err
		}
		if dv.OverflowInt(n) {
			return false, fmt.Errorf("value %d overflows %s", n, dv.Type())
		}
		dv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		n, err := toInt64(v)
		if err != nil {
			u, uerr := toUint64(v)
			if uerr != nil {
				return false, err
			}
			if dv.OverflowUint(u) {
				return false, fmt.Errorf("value %d overflows %s", u, dv.Type())
			}
			dv.SetUint(u)
			break
		}
		if n < 0 || dv.OverflowUint(uint64(n)) {
			return false, fmt.Errorf("value %d overflows %s", n, dv.Type())
		}
		dv.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		f, err := toFloat64(v)
		if err != nil {
			return false, err
		}
		dv.SetFloat(f)
	default:
		return false, fmt.Errorf("unsupported destination type %T", b.Buffer)
	}
	if b.Length != nil {
		*b.Length = int(dv.Type().Size())
	}
	return false, nil
}

// setLength reports the size of v: bytes for text, the in-memory size otherwise.
func setLength(b *Bind, v any) {
	if b.Length == nil {
		return
	}
	switch x := v.(type) {
	case []byte:
		*b.Length = len(x)
	case string:
		*b.Length = len(x)
	case time.Time:
		*b.Length = len(x.Format(timeLayout))
	default:
		*b.Length = int(reflect.TypeOf(v).Size())
	}
}

// toUint64 handles unsigned text values above the int64 range.
func toUint64(v any) (uint64, error) {
	switch x := v.(type) {
	case []byte:
		return strconv.ParseUint(string(x), 10, 64)
	case string:
		return strconv.ParseUint(x, 10, 64)
	case uint64:
		return x, nil
	}
	return 0, fmt.Errorf("cannot convert %T to unsigned integer", v)
}

func clip(b *Bind, raw []byte) ([]byte, bool) {
	if b.Length != nil {
		*b.Length = len(raw)
	}
	if b.BufLen > 0 && len(raw) > b.BufLen {
		return raw[:b.BufLen], true
	}
	return raw, false
}
