package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"

	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("email or username already taken")
)

// dbClient is the subset of pgxpool.Pool the repo needs.
type dbClient interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var _ usersRepo = (*Repo)(nil)

type Repo struct {
	db dbClient
}

func NewRepo(db dbClient) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, user *User) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Role == "" {
		user.Role = "user"
	}

	// QueryRow, so that a constraint violation surfaces on Scan
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO users (username, email, password_hash, role, created_at)
			VALUES ($1, $2, $3, $4, $5)
		RETURNING id;`,
		user.Username, user.Email, user.PasswordHash, user.Role, user.CreatedAt,
	).Scan(&user.ID); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrUserExists
		}
		return err
	}

	span.SetAttributes(attribute.Int("user.id", user.ID))
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return r.getByFilter(ctx, `id = $1`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getByFilter(ctx, `email = $1`, email)
}

func (r *Repo) getByFilter(ctx context.Context, filter string, arg any) (*User, error) {
	rows, err := r.db.Query(
		ctx,
		`SELECT id, username, email, password_hash, role, created_at
			FROM users WHERE `+filter+`;`,
		arg,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		// an empty read means not-found only when iteration ended cleanly
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrUserNotFound
	}

	var user User
	if err := rows.Scan(
		&user.ID, &user.Username, &user.Email,
		&user.PasswordHash, &user.Role, &user.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile changes the caller's own username and email,
// role and password stay untouched.
func (r *Repo) UpdateProfile(ctx context.Context, id int, username, email string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "usersRepo.updateProfile")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(
		ctx,
		`UPDATE users SET username = $1, email = $2 WHERE id = $3`,
		username, email, id,
	)
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrUserExists
		}
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}
