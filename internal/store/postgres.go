// Package store persists accounts and site records in PostgreSQL.
package store

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/ayush/photo-portfolio/backend/internal/apperr"
	"github.com/ayush/photo-portfolio/backend/internal/models"
)

// DB is the subset of *pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

var (
	ErrUserNotFound  = apperr.NotFound("User not found")
	ErrUsernameTaken = apperr.Validation("Username already exists")
	ErrEmailTaken    = apperr.Validation("Email already exists")
	ErrValueTooLong  = apperr.Validation("Value too long")
	ErrValueRange    = apperr.Validation("Value out of range")
)

// PostgresStore handles all record CRUD against PostgreSQL.
type PostgresStore struct {
	db DB
}

func NewPostgresStore(db DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const userColumns = `id, username, email, password, role, created_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Role, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts u. Username and email collisions surface as
// ErrUsernameTaken and ErrEmailTaken.
func (s *PostgresStore) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	created, err := scanUser(s.db.QueryRow(ctx,
		`INSERT INTO users (username, email, password, role)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+userColumns,
		u.Username, u.Email, u.Password, u.Role,
	))
	if err != nil {
		return nil, writeErr("USER_CREATE_FAILED", err, "username", u.Username)
	}
	return created, nil
}

// ReplaceUser removes any account holding u's username or email and
// inserts u, in one transaction.
func (s *PostgresStore) ReplaceUser(ctx context.Context, u *models.User) (*models.User, error) {
	var created *models.User
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM users WHERE username = $1 OR email = $2`, u.Username, u.Email,
		); err != nil {
			return err
		}
		var err error
		created, err = scanUser(tx.QueryRow(ctx,
			`INSERT INTO users (username, email, password, role)
			 VALUES ($1, $2, $3, $4)
			 RETURNING `+userColumns,
			u.Username, u.Email, u.Password, u.Role,
		))
		return err
	})
	if err != nil {
		return nil, writeErr("USER_REPLACE_FAILED", err, "username", u.Username)
	}
	return created, nil
}

func (s *PostgresStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username,
	))
	if err != nil {
		return nil, readErr("USER_GET_FAILED", err, ErrUserNotFound, "username", username)
	}
	return u, nil
}

// GetUserByEmail matches case-insensitively; stored emails are lowercase.
func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = LOWER($1)`, email,
	))
	if err != nil {
		return nil, readErr("USER_GET_FAILED", err, ErrUserNotFound, "email", email)
	}
	return u, nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		return nil, readErr("USER_GET_FAILED", err, ErrUserNotFound, "user_id", id)
	}
	return u, nil
}

// readErr turns pgx.ErrNoRows into notFound and wraps the result with code
// and kv as oops context.
func readErr(code string, err, notFound error, kv ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		err = notFound
	}
	return oops.Code(code).With(kv...).Wrap(err)
}

// updateErr is writeErr for UPDATE ... RETURNING, where no row means the
// record is gone.
func updateErr(code string, err, notFound error, kv ...any) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return readErr(code, err, notFound, kv...)
	}
	return writeErr(code, err, kv...)
}

func dbErr(code string, err error, kv ...any) error {
	return oops.Code(code).With(kv...).Wrap(err)
}

// writeErr maps constraint violations onto validation errors so they reach
// the client as 400s instead of 500s.
func writeErr(code string, err error, kv ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.UniqueViolation:
			switch pgErr.ConstraintName {
			case "users_username_key":
				err = errors.Join(ErrUsernameTaken, err)
			case "users_email_key":
				err = errors.Join(ErrEmailTaken, err)
			}
		case pgerrcode.StringDataRightTruncationDataException:
			err = errors.Join(ErrValueTooLong, err)
		case pgerrcode.CheckViolation, pgerrcode.NumericValueOutOfRange:
			err = errors.Join(ErrValueRange, err)
		}
	}
	return oops.Code(code).With(kv...).Wrap(err)
}
