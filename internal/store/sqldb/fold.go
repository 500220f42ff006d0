package sqldb

import (
	"database/sql/driver"
	"strings"

	"modernc.org/sqlite"
)

// sqliteFold names the SQLite function that lowercases text with Unicode
// rules. The built-in LOWER only folds ASCII, so "Été" would never match "été".
const sqliteFold = "penwell_fold"

func init() {
	sqlite.MustRegisterDeterministicScalarFunction(sqliteFold, 1, func(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		return foldValue(args[0]), nil
	})
}

// foldValue lowercases text values and passes everything else through.
func foldValue(v driver.Value) driver.Value {
	switch s := v.(type) {
	case string:
		return strings.ToLower(s)
	case []byte:
		return strings.ToLower(string(s))
	default:
		return v
	}
}
