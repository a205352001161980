package sqldb

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindParam(t *testing.T) {
	id := uint32(3)
	var nilPtr *int64
	ts := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	tests := []struct {
		name string
		bind Bind
		want any
	}{
		{"string", Bind{Type: FieldTypeString, Buffer: "abc"}, "abc"},
		{"string truncated to buflen", Bind{Type: FieldTypeString, Buffer: "abcdef", BufLen: 3}, "abc"},
		{"blob keeps bytes", Bind{Type: FieldTypeBlob, Buffer: []byte{1, 2}}, []byte{1, 2}},
		{"longlong from uint32 pointer", Bind{Type: FieldTypeLongLong, Buffer: &id}, int64(3)},
		{"long from text", Bind{Type: FieldTypeLong, Buffer: "42"}, int64(42)},
		{"double", Bind{Type: FieldTypeDouble, Buffer: float32(1.5)}, float64(1.5)},
		{"null type", Bind{Type: FieldTypeNull}, nil},
		{"nil pointer is null", Bind{Type: FieldTypeLongLong, Buffer: nilPtr}, nil},
		{"datetime", Bind{Type: FieldTypeDatetime, Buffer: "2024-05-06 07:08:09"}, ts},
		{"string from int", Bind{Type: FieldTypeVarString, Buffer: 12}, "12"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.bind.param()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBindParamErrors(t *testing.T) {
	_, err := (&Bind{}).param()
	require.ErrorIs(t, err, ErrParamNotBound)

	_, err = (&Bind{Type: FieldTypeLongLong, Buffer: "x"}).param()
	require.Error(t, err)

	_, err = (&Bind{Type: FieldTypeLongLong, Buffer: uint64(1 << 63)}).param()
	require.Error(t, err)
}

func TestAssignResult(t *testing.T) {
	t.Run("string with length and truncation", func(t *testing.T) {
		var s string
		var n int
		var null bool
		b := &Bind{Type: FieldTypeString, Buffer: &s, BufLen: 4, IsNull: &null, Length: &n}

		truncated, err := assignResult(b, []byte("abcdef"))
		require.NoError(t, err)
		assert.True(t, truncated)
		assert.Equal(t, "abcd", s)
		assert.Equal(t, 6, n)
		assert.False(t, null)
	})

	t.Run("null keeps destination", func(t *testing.T) {
		s := "previous"
		null := false
		b := &Bind{Type: FieldTypeString, Buffer: &s, IsNull: &null}

		truncated, err := assignResult(b, nil)
		require.NoError(t, err)
		assert.False(t, truncated)
		assert.True(t, null)
		assert.Equal(t, "previous", s)
	})

	t.Run("integers", func(t *testing.T) {
		var u uint64
		var i8 int8
		var n int

		_, err := assignResult(&Bind{Buffer: &u, Length: &n}, []byte("18446744073709551615"))
		require.NoError(t, err)
		assert.Equal(t, uint64(18446744073709551615), u)
		assert.Equal(t, 8, n)

		_, err = assignResult(&Bind{Buffer: &u}, int64(7))
		require.NoError(t, err)
		assert.Equal(t, uint64(7), u)

		_, err = assignResult(&Bind{Buffer: &u}, int64(-1))
		require.Error(t, err)

		_, err = assignResult(&Bind{Buffer: &i8}, int64(300))
		require.Error(t, err)
	})

	t.Run("bytes reuse destination", func(t *testing.T) {
		buf := make([]byte, 0, 8)
		_, err := assignResult(&Bind{Buffer: &buf}, "xyz")
		require.NoError(t, err)
		assert.Equal(t, []byte("xyz"), buf)
	})

	t.Run("scanner", func(t *testing.T) {
		var ns sql.NullString
		_, err := assignResult(&Bind{Buffer: &ns}, []byte("v"))
		require.NoError(t, err)
		assert.Equal(t, sql.NullString{String: "v", Valid: true}, ns)

		_, err = assignResult(&Bind{Buffer: &ns}, nil)
		require.NoError(t, err)
		assert.False(t, ns.Valid)
	})

	t.Run("float bool time any", func(t *testing.T) {
		var f float64
		var b bool
		var ts time.Time
		var a any

		_, err := assignResult(&Bind{Buffer: &f}, []byte("2.25"))
		require.NoError(t, err)
		assert.Equal(t, 2.25, f)

		_, err = assignResult(&Bind{Buffer: &b}, int64(1))
		require.NoError(t, err)
		assert.True(t, b)

		_, err = assignResult(&Bind{Buffer: &ts}, "2024-01-02")
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), ts)

		raw := []byte("q")
		_, err = assignResult(&Bind{Buffer: &a}, raw)
		require.NoError(t, err)
		raw[0] = 'z'
		assert.Equal(t, []byte("q"), a)
	})

	t.Run("bad destination", func(t *testing.T) {
		_, err := assignResult(&Bind{Buffer: 5}, int64(1))
		require.Error(t, err)

		var m map[string]int
		_, err = assignResult(&Bind{Buffer: &m}, int64(1))
		require.Error(t, err)
	})
}

func TestFractionalFloatIsNotAnInteger(t *testing.T) {
	_, err := (&Bind{Type: FieldTypeLongLong, Buffer: 3.7}).param()
	require.Error(t, err)

	v, err := (&Bind{Type: FieldTypeLongLong, Buffer: 3.0}).param()
	require.NoError(t, err)
	assert.Equal(t, int64(3), v)

	var i int64
	_, err = assignResult(&Bind{Buffer: &i}, 2.5)
	require.Error(t, err)

	var u uint32
	_, err = assignResult(&Bind{Buffer: &u}, float64(1e20))
	require.Error(t, err)
}

func TestAssignResultLength(t *testing.T) {
	var (
		ts time.Time
		b  bool
		a  any
		n  int
	)

	_, err := assignResult(&Bind{Buffer: &ts, Length: &n}, []byte("2024-01-02"))
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	n = -1
	_, err = assignResult(&Bind{Buffer: &ts, Length: &n}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, len("2024-01-02 03:04:05"), n)

	n = -1
	_, err = assignResult(&Bind{Buffer: &b, Length: &n}, int64(1))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	n = -1
	_, err = assignResult(&Bind{Buffer: &a, Length: &n}, []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n = -1
	_, err = assignResult(&Bind{Buffer: &a, Length: &n}, int64(9))
	require.NoError(t, err)
	assert.Equal(t, 8, n)
}

func TestFieldTypeString(t *testing.T) {
	assert.Equal(t, "LONGLONG", FieldTypeLongLong.String())
	assert.Equal(t, "NULL", FieldTypeNull.String())
	assert.Equal(t, "FieldType(99)", FieldType(99).String())
}
