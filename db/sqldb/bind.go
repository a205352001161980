package sqldb

import "fmt"

// FieldType is the buffer type of a Bind slot.
type FieldType int

const (
	FieldTypeUnset FieldType = iota // slot never bound
	FieldTypeNull
	FieldTypeTiny     // int8
	FieldTypeShort    // int16
	FieldTypeLong     // int32
	FieldTypeLongLong // int64
	FieldTypeFloat
	FieldTypeDouble
	FieldTypeString
	FieldTypeVarString
	FieldTypeBlob
	FieldTypeDatetime
	FieldTypeDate
	FieldTypeTime
	FieldTypeTimestamp
)

var fieldTypeNames = [...]string{
	"UNSET", "NULL", "TINY", "SHORT", "LONG", "LONGLONG", "FLOAT", "DOUBLE",
	"STRING", "VAR_STRING", "BLOB", "DATETIME", "DATE", "TIME", "TIMESTAMP",
}

func (t FieldType) String() string {
	if t < 0 || int(t) >= len(fieldTypeNames) {
		return fmt.Sprintf("FieldType(%d)", int(t))
	}
	return fieldTypeNames[t]
}

func (t FieldType) isInteger() bool {
	return t >= FieldTypeTiny && t <= FieldTypeLongLong
}

func (t FieldType) isFloat() bool {
	return t == FieldTypeFloat || t == FieldTypeDouble
}

func (t FieldType) isBytes() bool {
	return t >= FieldTypeString && t <= FieldTypeBlob
}

func (t FieldType) isTime() bool {
	return t >= FieldTypeDatetime && t <= FieldTypeTimestamp
}

// Bind is one parameter or result slot.
//
// As a parameter, Buffer holds the value or a pointer to it; pointers are
// read when the statement is executed, so the caller may fill them after
// BindStmt.
// As a result slot, Buffer is the destination pointer written by Fetch. The
// destination's Go type decides the conversion there; Type is advisory.
type Bind struct {
	Type   FieldType
	Buffer any
	BufLen int   // result slots: max bytes copied for string/blob, 0 = no limit
	IsNull *bool // result slots: set by Fetch
	Length *int  // result slots: full value length, set by Fetch
}

func (b *Bind) set(typ FieldType, buf any, bufLen int) *Bind {
	b.Type = typ
	b.Buffer = buf
	b.BufLen = bufLen
	return b
}

// param converts a parameter slot into a driver argument.
func (b *Bind) param() (any, error) {
	if b.Type == FieldTypeUnset {
		return nil, ErrParamNotBound
	}
	if b.Type == FieldTypeNull {
		return nil, nil
	}
	v, isNil := deref(b.Buffer)
	if isNil {
		return nil, nil
	}
	switch {
	case b.Type.isInteger():
		return toInt64(v)
	case b.Type.isFloat():
		return toFloat64(v)
	case b.Type.isBytes():
		s, err := toBytes(v)
		if err != nil {
			return nil, err
		}
		if b.BufLen > 0 && len(s) > b.BufLen {
			s = s[:b.BufLen]
		}
		if b.Type == FieldTypeBlob {
			return s, nil
		}
		return string(s), nil
	case b.Type.isTime():
		return toTime(v)
	}
	return nil, fmt.Errorf("unsupported parameter type %s", b.Type)
}
