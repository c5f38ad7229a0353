package storage

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

func wrapDBError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern returns a LIKE pattern matching s anywhere, with LIKE
// metacharacters in s escaped by backslash.
func ContainsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
