package utils

import (
	"database/sql/driver"
	"fmt"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"
)

var modelkitSourceDir string

func init() {
	_, file, _, _ := runtime.Caller(0)
	// compatible solution to get modelkit source directory with various operating systems
	modelkitSourceDir = sourceDir(file)
}

func sourceDir(file string) string {
	dir := filepath.Dir(file)
	dir = filepath.Dir(dir)

	s := filepath.Dir(dir)
	if filepath.Base(s) != "gorm.io" {
		s = dir
	}
	return filepath.ToSlash(s) + "/"
}

// FileWithLineNum return the file name and line number of the current file
func FileWithLineNum() string {
	// the second caller usually from modelkit internal, so set i start from 2
	for i := 2; i < 15; i++ {
		_, file, line, ok := runtime.Caller(i)
		if ok && (!strings.HasPrefix(file, modelkitSourceDir) || strings.HasSuffix(file, "_test.go")) {
			return file + ":" + strconv.FormatInt(int64(line), 10)
		}
	}

	return ""
}

// ToStringKey joins values into a single string, used as identity cache key
func ToStringKey(values ...interface{}) string {
	results := make([]string, len(values))

	for idx, value := range values {
		if valuer, ok := value.(driver.Valuer); ok {
			value, _ = valuer.Value()
		}

		switch v := value.(type) {
		case nil:
			results[idx] = "<nil>"
		case string:
			results[idx] = v
		case []byte:
			results[idx] = string(v)
		case int:
			results[idx] = strconv.Itoa(v)
		case int64:
			results[idx] = strconv.FormatInt(v, 10)
		case uint:
			results[idx] = strconv.FormatUint(uint64(v), 10)
		case uint64:
			results[idx] = strconv.FormatUint(v, 10)
		default:
			results[idx] = fmt.Sprint(reflect.Indirect(reflect.ValueOf(v)).Interface())
		}
	}

	return strings.Join(results, "_")
}

// Contains reports whether elem is in elems
func Contains(elems []string, elem string) bool {
	for _, e := range elems {
		if elem == e {
			return true
		}
	}
	return false
}

// Intersect returns the elements of a that are also in b, keeping a's order
func Intersect(a, b []string) []string {
	results := make([]string, 0, len(a))
	for _, v := range a {
		if Contains(b, v) {
			results = append(results, v)
		}
	}
	return results
}
