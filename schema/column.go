package schema

import (
	"sort"
	"strings"
)

// DataType normalized column data type
type DataType string

const (
	Bool    DataType = "boolean"
	Int     DataType = "integer"
	Float   DataType = "float"
	Decimal DataType = "decimal"
	String  DataType = "string"
	Time    DataType = "datetime"
	Date    DataType = "date"
	Bytes   DataType = "blob"
)

// Column column metadata reported by a database collaborator
type Column struct {
	Name          string
	Type          DataType
	DBType        string
	PrimaryKey    bool
	AutoIncrement bool
	AllowNull     bool
	Default       interface{}
}

// Map column name -> metadata, entries may be empty when only the name is known
type Map map[string]*Column

// Names returns column names sorted alphabetically
func (m Map) Names() []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PrimaryKeys returns primary key columns in the given column order
func (m Map) PrimaryKeys(order []string) []string {
	var keys []string
	for _, name := range order {
		if c, ok := m[name]; ok && c != nil && c.PrimaryKey {
			keys = append(keys, name)
		}
	}
	return keys
}

// TypeOf returns the data type of column, empty if unknown
func (m Map) TypeOf(name string) DataType {
	if c, ok := m[name]; ok && c != nil {
		return c.Type
	}
	return ""
}

// ParseDataType maps a database column type to a DataType
func ParseDataType(dbType string) DataType {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if idx := strings.IndexByte(t, '('); idx >= 0 {
		t = strings.TrimSpace(t[:idx])
	}

	switch {
	case t == "":
		return ""
	case t == "bool" || t == "boolean" || t == "bit":
		return Bool
	case strings.Contains(t, "int") || t == "serial" || t == "bigserial":
		return Int
	case t == "real" || strings.HasPrefix(t, "float") || strings.HasPrefix(t, "double"):
		return Float
	case t == "numeric" || t == "decimal" || t == "money":
		return Decimal
	case t == "date":
		return Date
	case strings.HasPrefix(t, "timestamp") || t == "datetime" || t == "time":
		return Time
	case strings.Contains(t, "blob") || t == "bytea" || strings.Contains(t, "binary"):
		return Bytes
	case strings.Contains(t, "char") || strings.Contains(t, "text") || t == "clob" ||
		t == "json" || t == "jsonb" || t == "uuid" || t == "enum":
		return String
	}
	return DataType(t)
}
