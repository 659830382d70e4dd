package snapshot

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// FormatValue converts a driver value to the text shown in a grid cell.
// Numbers use SQLite's own text form, so an integral REAL keeps its ".0".
func FormatValue(v any, nullText string) string {
	switch val := v.(type) {
	case nil:
		return nullText
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return formatFloat(val)
	case string:
		return val
	case []byte:
		if utf8.Valid(val) {
			return string(val)
		}
		return fmt.Sprintf("X'%X'", val)
	case bool:
		if val {
			return "1"
		}
		return "0"
	case time.Time:
		return formatTime(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func formatFloat(f float64) string {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && math.Abs(f) < 1e15 && !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// formatTime renders timestamps the way they are usually stored in SQLite
// text columns. Drivers parse DATETIME-declared columns into time.Time.
func formatTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".999999999"
	}
	if t.Location() != time.UTC {
		layout += "-07:00"
	}
	return t.Format(layout)
}
