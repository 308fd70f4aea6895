package sqlite

import (
	"time"

	"github.com/Masterminds/squirrel"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// dateKey is the canonical YYYY-MM-DD form used for streak dates and
// per-day aggregates.
func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
