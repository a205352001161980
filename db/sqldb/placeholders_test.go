package sqldb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceStaticPlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		prefix byte
		want   string
	}{
		{"anonymous unchanged", "a = ? AND b = ?", '?', "a = ? AND b = ?"},
		{"zero prefix unchanged", "a = ?", 0, "a = ?"},
		{"ordinal", "a = ? AND b = ?", '$', "a = $1 AND b = $2"},
		{"skips literals", "a = '?' AND b = ?", '$', "a = '?' AND b = $1"},
		{"skips quoted identifiers", "SELECT `?x` FROM t WHERE c = ?", '$', "SELECT `?x` FROM t WHERE c = $1"},
		{"escaped quote", "a = 'it''s ?' AND b = ?", '$', "a = 'it''s ?' AND b = $1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ReplaceStaticPlaceholders(tt.sql, tt.prefix))
		})
	}
}

func TestCountPlaceholders(t *testing.T) {
	assert.Equal(t, 0, CountPlaceholders("SELECT 1"))
	assert.Equal(t, 9, CountPlaceholders("INSERT INTO `aaa` (id, name, nullable_string) VALUES (?, ?, ?), (?, ?, ?), (?, ?, ?)"))
	assert.Equal(t, 1, CountPlaceholders(`SELECT "?" , '?', ?`))
}
