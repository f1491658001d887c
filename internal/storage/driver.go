package storage

import (
	"database/sql"
	"strings"

	"github.com/mattn/go-sqlite3"
	"golang.org/x/text/cases"
)

// driverName is go-sqlite3 with the contains_fold function registered on
// every connection. SQLite's own LIKE only folds ASCII.
const driverName = "sqlite3_credvault"

func init() {
	sql.Register(driverName, &sqlite3.SQLiteDriver{
		ConnectHook: func(conn *sqlite3.SQLiteConn) error {
			return conn.RegisterFunc("contains_fold", containsFold, true)
		},
	})
}

// containsFold reports (as 0/1) whether substr occurs in s under Unicode
// case folding. An empty substr matches everything.
func containsFold(s, substr string) int64 {
	// a Caser must not be shared between connections
	fold := cases.Fold()
	if strings.Contains(fold.String(s), fold.String(substr)) {
		return 1
	}
	return 0
}
