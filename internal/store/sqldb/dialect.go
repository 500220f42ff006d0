package sqldb

import (
	_ "embed"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

//go:embed schema_postgres.sql
var postgresSchema string

// dialect captures what differs between the SQL backends. Queries are written
// once with ? placeholders and rebound per dialect.
type dialect struct {
	name       string
	driverName string
	schema     string
	dollar     bool   // PostgreSQL numbers its placeholders
	lower      string // Unicode-aware lowercase function
	lockUsers  string // serializes first-user registration; empty when writes already are

	isUniqueViolation     func(error) bool
	isForeignKeyViolation func(error) bool
}

var sqliteDialect = dialect{
	name:       "sqlite",
	driverName: "sqlite",
	schema:     sqliteSchema,
	lower:      sqliteFold,
	isUniqueViolation: func(err error) bool {
		return strings.Contains(err.Error(), "UNIQUE constraint failed")
	},
	isForeignKeyViolation: func(err error) bool {
		return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
	},
}

var postgresDialect = dialect{
	name:                  "postgres",
	driverName:            "postgres",
	schema:                postgresSchema,
	dollar:                true,
	lower:                 "LOWER",
	lockUsers:             "LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE",
	isUniqueViolation:     pqCode("23505"),
	isForeignKeyViolation: pqCode("23503"),
}

func pqCode(code pq.ErrorCode) func(error) bool {
	return func(err error) bool {
		var pqErr *pq.Error
		return errors.As(err, &pqErr) && pqErr.Code == code
	}
}

// rebind rewrites ? placeholders to $1, $2, ... for PostgreSQL.
// Queries in this package never contain a literal question mark.
func (d dialect) rebind(query string) string {
	if !d.dollar {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
