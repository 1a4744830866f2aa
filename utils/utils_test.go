package utils

import (
	"reflect"
	"testing"
)

func TestFileWithLineNum(t *testing.T) {
	t.Log("file line with num: ", FileWithLineNum())
}

func TestToStringKey(t *testing.T) {
	cases := []struct {
		values []interface{}
		key    string
	}{
		{[]interface{}{1}, "1"},
		{[]interface{}{int64(12), "a"}, "12_a"},
		{[]interface{}{uint(3), []byte("b")}, "3_b"},
		{[]interface{}{nil, 2.5}, "<nil>_2.5"},
	}

	for _, c := range cases {
		if got := ToStringKey(c.values...); got != c.key {
			t.Errorf("ToStringKey(%v) = %q, want %q", c.values, got, c.key)
		}
	}
}

func TestIntersect(t *testing.T) {
	got := Intersect([]string{"id", "x", "y"}, []string{"y", "id"})
	if !reflect.DeepEqual(got, []string{"id", "y"}) {
		t.Fatalf("Intersect = %v, want [id y]", got)
	}

	if !Contains([]string{"a", "b"}, "b") || Contains(nil, "a") {
		t.Fatalf("Contains returned wrong result")
	}
}
