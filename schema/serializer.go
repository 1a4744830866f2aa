package schema

import (
	"bytes"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

var serializerMap = sync.Map{}

// RegisterSerializer register serializer
func RegisterSerializer(name string, serializer SerializerInterface) {
	serializerMap.Store(strings.ToLower(name), serializer)
}

// GetSerializer get serializer
func GetSerializer(name string) (serializer SerializerInterface, ok bool) {
	v, ok := serializerMap.Load(strings.ToLower(name))
	if ok {
		serializer, ok = v.(SerializerInterface)
	}
	return serializer, ok
}

func init() {
	gob.Register(map[string]interface{}{})
	gob.Register([]interface{}{})

	RegisterSerializer("json", JSONSerializer{})
	RegisterSerializer("unixtime", UnixSecondSerializer{})
	RegisterSerializer("gob", GobSerializer{})
}

// SerializerInterface converts a column value to its stored form and back
type SerializerInterface interface {
	Dump(value interface{}) (interface{}, error)
	Load(dbValue interface{}) (interface{}, error)
}

// JSONSerializer json serializer, stores structured values as text
type JSONSerializer struct {
}

// Dump implements serializer interface
func (JSONSerializer) Dump(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	result, err := json.Marshal(value)
	return string(result), err
}

// Load implements serializer interface
func (JSONSerializer) Load(dbValue interface{}) (interface{}, error) {
	var data []byte
	switch v := dbValue.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, fmt.Errorf("failed to unmarshal JSON value: %#v", dbValue)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var value interface{}
	err := json.Unmarshal(data, &value)
	return value, err
}

// GobSerializer gob serializer, stores values as opaque binary
type GobSerializer struct {
}

// Dump implements serializer interface
func (GobSerializer) Dump(value interface{}) (interface{}, error) {
	if value == nil {
		return nil, nil
	}
	buf := new(bytes.Buffer)
	err := gob.NewEncoder(buf).Encode(&value)
	return buf.Bytes(), err
}

// Load implements serializer interface
func (GobSerializer) Load(dbValue interface{}) (interface{}, error) {
	var data []byte
	switch v := dbValue.(type) {
	case nil:
		return nil, nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return nil, fmt.Errorf("failed to decode gob value: %#v", dbValue)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var value interface{}
	err := gob.NewDecoder(bytes.NewBuffer(data)).Decode(&value)
	return value, err
}

// UnixSecondSerializer stores time values as unix seconds
type UnixSecondSerializer struct {
}

// Dump implements serializer interface
func (UnixSecondSerializer) Dump(value interface{}) (interface{}, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return v.Unix(), nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		return v.Unix(), nil
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	}
	return nil, fmt.Errorf("invalid field type %#v for UnixSecondSerializer, only time.Time is supported", value)
}

// Load implements serializer interface
func (UnixSecondSerializer) Load(dbValue interface{}) (interface{}, error) {
	switch v := dbValue.(type) {
	case nil:
		return nil, nil
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	case []byte:
		return UnixSecondSerializer{}.Load(string(v))
	case string:
		sec, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, err
		}
		return time.Unix(sec, 0), nil
	case time.Time:
		return v, nil
	}
	return nil, fmt.Errorf("failed to load unix time value: %#v", dbValue)
}
