package logger

import (
	"database/sql/driver"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

const tmFmtWithMS = "2006-01-02 15:04:05.999"

func isPrintable(s []byte) bool {
	for _, r := range string(s) {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}

// ExplainSQL generate SQL string with given parameters, the generated SQL is expected to be used in logger, execute it might introduce a SQL injection vulnerability
func ExplainSQL(sql string, numericPlaceholder *regexp.Regexp, escaper string, vars ...interface{}) string {
	formatted := make([]string, len(vars))
	for idx, v := range vars {
		formatted[idx] = formatVar(v, escaper)
	}

	if numericPlaceholder == nil {
		var (
			buf strings.Builder
			idx int
		)
		for _, c := range []byte(sql) {
			if c == '?' && idx < len(formatted) {
				buf.WriteString(formatted[idx])
				idx++
			} else {
				buf.WriteByte(c)
			}
		}
		return buf.String()
	}

	return numericPlaceholder.ReplaceAllStringFunc(sql, func(m string) string {
		sub := numericPlaceholder.FindStringSubmatch(m)
		if len(sub) > 1 {
			if n, err := strconv.Atoi(sub[1]); err == nil && n >= 1 && n <= len(formatted) {
				return formatted[n-1]
			}
		}
		return m
	})
}

func formatVar(v interface{}, escaper string) string {
	if valuer, ok := v.(driver.Valuer); ok {
		v, _ = valuer.Value()
	}

	quote := func(s string) string {
		return escaper + strings.ReplaceAll(s, escaper, "\\"+escaper) + escaper
	}

	switch v := v.(type) {
	case nil:
		return "NULL"
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		if v.IsZero() {
			return quote("0000-00-00 00:00:00")
		}
		return quote(v.Format(tmFmtWithMS))
	case *time.Time:
		if v == nil {
			return "NULL"
		}
		return formatVar(*v, escaper)
	case []byte:
		if isPrintable(v) {
			return quote(string(v))
		}
		return quote("<binary>")
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return quote(v)
	default:
		return quote(fmt.Sprint(v))
	}
}
