package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrStatusConflict is returned by Transition when the stored status no
	// longer equals the status the caller observed.
	ErrStatusConflict = errors.New("work order status changed")
	// ErrDuplicateBadge is returned when a badge UID is already assigned to
	// another employee.
	ErrDuplicateBadge = errors.New("badge already assigned")
)

const uniqueViolation = "23505"

func normalize(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == "employees_badge_uid_key" {
		return ErrDuplicateBadge
	}
	return err
}
