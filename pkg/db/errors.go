package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique-constraint failure. When
// targets are given, at least one must match the postgres constraint name or
// appear in the driver message (sqlite reports "table.column" instead of a
// constraint name).
func IsUniqueViolation(err error, targets ...string) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return false
		}
		return matchesAny(pgErr.ConstraintName+" "+pgErr.Message, targets)
	}

	msg := err.Error()
	if !strings.Contains(msg, "duplicate key value") && !strings.Contains(msg, "UNIQUE constraint failed") {
		return false
	}
	return matchesAny(msg, targets)
}

func matchesAny(haystack string, targets []string) bool {
	if len(targets) == 0 {
		return true
	}
	for _, target := range targets {
		if target != "" && strings.Contains(haystack, target) {
			return true
		}
	}
	return false
}
