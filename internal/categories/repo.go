package categories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

var ErrCategoryExists = errors.New("category slug already taken")

// dbClient is the subset of pgxpool.Pool the repo needs.
type dbClient interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ categoriesRepo = (*Repo)(nil)

type Repo struct {
	db dbClient
}

func NewRepo(db dbClient) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, category *Category) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "categoriesRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	// QueryRow, so that a duplicate slug surfaces on Scan
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id;`,
		category.Name, category.Slug,
	).Scan(&category.ID); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return ErrCategoryExists
		}
		return err
	}
	return nil
}

func (r *Repo) List(ctx context.Context) (_ []Category, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "categoriesRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT id, name, slug FROM categories ORDER BY name;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return rows2categories(rows)
}

func rows2categories(rows pgx.Rows) ([]Category, error) {
	categories := make([]Category, 0)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return categories, nil
}
