package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned by updates and deletes that matched no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an admin email is already taken
	ErrDuplicateEmail = errors.New("email already registered")
)

// nullStringOrValue returns nil for empty strings, otherwise the string
func nullStringOrValue(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// parseDecimal reads a numeric column selected as text
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// pageOffset converts a 1-based page into an OFFSET
func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern turns user input into an ILIKE ... ESCAPE '\' substring pattern
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}
