package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSerializer(t *testing.T) {
	for _, name := range []string{"json", "JSON", "gob", "unixtime"} {
		_, ok := GetSerializer(name)
		assert.True(t, ok, name)
	}

	_, ok := GetSerializer("yaml")
	assert.False(t, ok)
}

func TestJSONSerializer(t *testing.T) {
	s := JSONSerializer{}

	dumped, err := s.Dump(map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}})
	require.NoError(t, err)
	assert.Equal(t, `{"a":1,"b":["x"]}`, dumped)

	loaded, err := s.Load([]byte(`{"a":1,"b":["x"]}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": 1.0, "b": []interface{}{"x"}}, loaded)

	loaded, err = s.Load(nil)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	_, err = s.Load(42)
	assert.Error(t, err)
}

func TestGobSerializer(t *testing.T) {
	s := GobSerializer{}

	for _, value := range []interface{}{"opaque", 42, map[string]interface{}{"k": "v"}} {
		dumped, err := s.Dump(value)
		require.NoError(t, err)
		assert.IsType(t, []byte{}, dumped)

		loaded, err := s.Load(dumped)
		require.NoError(t, err)
		assert.Equal(t, value, loaded)
	}
}

func TestUnixSecondSerializer(t *testing.T) {
	s := UnixSecondSerializer{}
	ts := time.Unix(1700000000, 0)

	dumped, err := s.Dump(ts)
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), dumped)

	loaded, err := s.Load("1700000000")
	require.NoError(t, err)
	assert.True(t, ts.Equal(loaded.(time.Time)))

	_, err = s.Dump("now")
	assert.Error(t, err)
}
