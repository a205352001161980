package sqldb

import (
	"strconv"
	"strings"
)

// ReplaceStaticPlaceholders numbers every '?' outside string literals and
// quoted identifiers with the given prefix: "a = ? AND b = ?" -> "a = $1 AND b = $2".
// Anonymous prefixes ('?' or 0) return sql unchanged.
func ReplaceStaticPlaceholders(sql string, prefix byte) string {
	if prefix == '?' || prefix == 0 {
		return sql
	}
	var builder strings.Builder
	builder.Grow(len(sql) + 8)
	cnt := 1
	var quote byte // current quote char, 0 = none
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
			builder.WriteByte(ch)
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
			builder.WriteByte(ch)
		case ch == '?':
			builder.WriteByte(prefix)
			builder.WriteString(strconv.Itoa(cnt))
			cnt++
		default:
			builder.WriteByte(ch)
		}
	}
	return builder.String()
}

// CountPlaceholders counts '?' outside string literals and quoted identifiers.
func CountPlaceholders(sql string) int {
	n := 0
	var quote byte
	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"' || ch == '`':
			quote = ch
		case ch == '?':
			n++
		}
	}
	return n
}
