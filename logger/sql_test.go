package logger_test

import (
	"regexp"
	"testing"

	"github.com/jinzhu/now"
	"gorm.io/modelkit/logger"
)

func TestExplainSQL(t *testing.T) {
	tt := now.MustParse("2020-02-23 11:10:10")

	results := []struct {
		SQL           string
		NumericRegexp *regexp.Regexp
		Vars          []interface{}
		Result        string
	}{
		{
			SQL:    `SELECT * FROM "widgets" WHERE "name" = ? AND "size" = ? AND "active" = ?`,
			Vars:   []interface{}{"bolt?", 3, true},
			Result: `SELECT * FROM "widgets" WHERE "name" = 'bolt?' AND "size" = 3 AND "active" = true`,
		},
		{
			SQL:    `INSERT INTO "widgets" ("name","price","created_at","deleted_at","data") VALUES (?,?,?,?,?)`,
			Vars:   []interface{}{"it's", 9.5, tt, nil, []byte("raw")},
			Result: `INSERT INTO "widgets" ("name","price","created_at","deleted_at","data") VALUES ('it\'s',9.5,'2020-02-23 11:10:10',NULL,'raw')`,
		},
		{
			SQL:           `UPDATE "widgets" SET "name" = $2 WHERE "id" = $1`,
			NumericRegexp: regexp.MustCompile(`\$(\d+)`),
			Vars:          []interface{}{7, "nut"},
			Result:        `UPDATE "widgets" SET "name" = 'nut' WHERE "id" = 7`,
		},
		{
			SQL:           `DELETE FROM "widgets" WHERE "id" = $1 AND "kind" = $3`,
			NumericRegexp: regexp.MustCompile(`\$(\d+)`),
			Vars:          []interface{}{1, []byte{0xff, 0x00}},
			Result:        `DELETE FROM "widgets" WHERE "id" = 1 AND "kind" = $3`,
		},
	}

	for idx, r := range results {
		if result := logger.ExplainSQL(r.SQL, r.NumericRegexp, `'`, r.Vars...); result != r.Result {
			t.Errorf("Explain SQL #%v expects %v, but got %v", idx, r.Result, result)
		}
	}
}
