package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/lib/pq"
)

const (
	pgForeignKeyViolation   = "23503"
	pgInvalidStatementName  = "26000"
	pgProtocolViolation     = "08P01"
	bindMismatchMessagePart = "bind message supplies"
)

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// isBindParameterMismatch matches the protocol error poolers in transaction
// mode raise when a cached unnamed statement is reused with different args.
func isBindParameterMismatch(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgProtocolViolation {
		return strings.Contains(pqErr.Message, bindMismatchMessagePart)
	}
	return strings.Contains(err.Error(), bindMismatchMessagePart)
}

func isUnnamedPreparedStatementMissing(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgInvalidStatementName
	}
	msg := err.Error()
	return strings.Contains(msg, "unnamed prepared statement does not exist") ||
		strings.Contains(msg, "("+pgInvalidStatementName+")")
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}

func nullInt64ToInt(v sql.NullInt64) int {
	if !v.Valid {
		return 0
	}
	return int(v.Int64)
}

func positiveNullInt64(v int) sql.NullInt64 {
	if v <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(v), Valid: true}
}

// combineDateTime merges a DATE column with an optional TIME column, which
// lib/pq returns as "15:04:05" text.
func combineDateTime(day time.Time, rawTime sql.NullString) time.Time {
	day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	if !rawTime.Valid {
		return day
	}
	value := strings.TrimSpace(rawTime.String)
	if idx := strings.IndexByte(value, '.'); idx >= 0 {
		value = value[:idx]
	}
	for _, layout := range []string{"15:04:05", "15:04"} {
		if clock, err := time.Parse(layout, value); err == nil {
			return day.Add(time.Duration(clock.Hour())*time.Hour +
				time.Duration(clock.Minute())*time.Minute +
				time.Duration(clock.Second())*time.Second)
		}
	}
	return day
}
