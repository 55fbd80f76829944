package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

var (
	ErrPostNotFound     = errors.New("post not found")
	ErrCommentNotFound  = errors.New("comment not found")
	ErrCategoryNotFound = errors.New("category not found")
)

type ListParams struct {
	Search       string
	CategorySlug string
	Status       string
	Page         int
	Size         int
}

// dbClient is the subset of pgxpool.Pool the repo needs.
type dbClient interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var _ postsRepo = (*Repo)(nil)

type Repo struct {
	db dbClient
}

func NewRepo(db dbClient) *Repo {
	return &Repo{
		db: db,
	}
}

const postColumns = `
	p.id, p.title, p.content, COALESCE(p.excerpt, ''), COALESCE(p.featured_image, ''),
	p.tags, p.status, p.views, p.created_at, p.updated_at,
	u.id, u.username,
	c.id, c.name, c.slug,
	(SELECT COUNT(*) FROM post_likes pl WHERE pl.post_id = p.id) AS likes`

const postJoins = `
	FROM posts p
	JOIN users u ON p.author_id = u.id
	JOIN categories c ON p.category_id = c.id`

// filter shared between List and PostsCount, so the pagination metadata
// always comes from the same filter as the page itself
const postListFilter = `
	WHERE ($1::text = '' OR p.title ILIKE '%' || $1 || '%' OR p.content ILIKE '%' || $1 || '%')
	AND ($2::text = '' OR c.slug = $2)
	AND ($3::text = '' OR p.status = $3)`

func (r *Repo) Add(ctx context.Context, post *Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.UpdatedAt = post.CreatedAt

	// QueryRow, so that a constraint violation surfaces on Scan
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO posts
				(title, content, excerpt, featured_image, author_id, category_id, tags, status, created_at, updated_at)
				VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10)
			RETURNING id;`,
		post.Title, post.Content, post.Excerpt, post.FeaturedImage,
		post.Author.ID, post.Category.ID, post.Tags, post.Status,
		post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID); err != nil {
		return categoryFKCheck(err)
	}

	span.SetAttributes(attribute.Int("post.id", post.ID))
	return nil
}

func (r *Repo) Update(ctx context.Context, post *Post) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", post.ID))

	post.UpdatedAt = time.Now()

	tag, err := r.db.Exec(
		ctx,
		`UPDATE posts SET
				title = $1, content = $2, excerpt = NULLIF($3, ''), featured_image = NULLIF($4, ''),
				category_id = $5, tags = $6, status = $7, updated_at = $8
			WHERE id = $9;`,
		post.Title, post.Content, post.Excerpt, post.FeaturedImage,
		post.Category.ID, post.Tags, post.Status, post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return categoryFKCheck(err)
	}

	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}

	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	// comments and likes go with the post via ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+postJoins+` WHERE p.id = $1;`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts, err := r.rows2posts(rows)
	if err != nil {
		return nil, err
	}

	if len(posts) != 1 {
		return nil, ErrPostNotFound
	}

	return &posts[0], nil
}

// IncrementViews bumps the view counter atomically, so concurrent
// fetches of the same post never lose an increment.
func (r *Repo) IncrementViews(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.incrementViews")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	tag, err := r.db.Exec(ctx, `UPDATE posts SET views = views + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrPostNotFound
	}
	return nil
}

// List returns the requested page and the total count for the same filter,
// used by the handler to compute pagination metadata.
func (r *Repo) List(ctx context.Context, params ListParams) (_ []Post, total int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("page", params.Page))
	span.SetAttributes(attribute.Int("size", params.Size))
	span.SetAttributes(attribute.String("search", params.Search))
	span.SetAttributes(attribute.String("category", params.CategorySlug))
	span.SetAttributes(attribute.String("status", params.Status))

	if params.Page < 1 {
		return nil, -1, errors.New("page must be greater than 0")
	}
	if params.Size < 1 {
		return nil, -1, errors.New("size must be greater than 0")
	}

	total, err = r.PostsCount(ctx, params)
	if err != nil {
		return nil, -1, err
	}

	limit := params.Size
	offset := (params.Page - 1) * params.Size

	log.Tracef("getting posts, total %d, limit %d, offset %d", total, limit, offset)

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+postJoins+postListFilter+`
			ORDER BY p.created_at DESC
			LIMIT $4
			OFFSET $5;`,
		params.Search, params.CategorySlug, params.Status,
		limit, offset,
	)
	if err != nil {
		return nil, -1, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, -1, err
	}

	posts, err := r.rows2posts(rows)
	if err != nil {
		return nil, -1, err
	}
	return posts, total, nil
}

func (r *Repo) PostsCount(ctx context.Context, params ListParams) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.count")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`SELECT COUNT(*)`+postJoins+postListFilter+`;`,
		params.Search, params.CategorySlug, params.Status,
	)
	if err != nil {
		return -1, err
	}
	defer rows.Close()

	if rows.Next() {
		var count int
		if err := rows.Scan(&count); err != nil {
			return -1, err
		}
		return count, nil
	}

	if err := rows.Err(); err != nil {
		return -1, err
	}
	return -1, errors.New("unexpected error, failed to get posts count")
}

// GetByIDs returns the posts for the given ids, in the order of the ids.
// Used for search results, where the index dictates the ranking.
func (r *Repo) GetByIDs(ctx context.Context, ids []int) (_ []Post, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.getByIDs")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("ids", len(ids)))

	if len(ids) == 0 {
		return []Post{}, nil
	}

	rows, err := r.db.Query(
		ctx,
		`SELECT `+postColumns+postJoins+` WHERE p.id = ANY($1);`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	posts, err := r.rows2posts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]Post, len(posts))
	for _, p := range posts {
		byID[p.ID] = p
	}

	ordered := make([]Post, 0, len(posts))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}

func (r *Repo) AddComment(ctx context.Context, postID, authorID int, content string) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.addComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))

	comment := &Comment{
		PostID:    postID,
		Author:    Author{ID: authorID},
		Content:   content,
		CreatedAt: time.Now(),
	}

	// QueryRow, so that a missing post surfaces as an FK violation on Scan
	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO comments (post_id, author_id, content, created_at)
			VALUES ($1, $2, $3, $4)
		RETURNING id;`,
		postID, authorID, content, comment.CreatedAt,
	).Scan(&comment.ID); err != nil {
		return nil, postFKCheck(err)
	}

	return comment, nil
}

func (r *Repo) ListComments(ctx context.Context, postID int) (_ []Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.listComments")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.post_id, u.id, u.username, c.content, c.created_at
			FROM comments c
			JOIN users u ON c.author_id = u.id
			WHERE c.post_id = $1
			ORDER BY c.created_at;`,
		postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rows2comments(rows)
}

func (r *Repo) GetComment(ctx context.Context, postID, commentID int) (_ *Comment, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.getComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))
	span.SetAttributes(attribute.Int("comment.id", commentID))

	rows, err := r.db.Query(
		ctx,
		`SELECT c.id, c.post_id, u.id, u.username, c.content, c.created_at
			FROM comments c
			JOIN users u ON c.author_id = u.id
			WHERE c.id = $1 AND c.post_id = $2;`,
		commentID, postID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if err := rows.Err(); err != nil {
		return nil, err
	}

	comments, err := rows2comments(rows)
	if err != nil {
		return nil, err
	}
	if len(comments) != 1 {
		return nil, ErrCommentNotFound
	}
	return &comments[0], nil
}

func (r *Repo) DeleteComment(ctx context.Context, postID, commentID int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.deleteComment")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))
	span.SetAttributes(attribute.Int("comment.id", commentID))

	tag, err := r.db.Exec(
		ctx,
		`DELETE FROM comments WHERE id = $1 AND post_id = $2`,
		commentID, postID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// ToggleLike flips the caller's membership in the post's likes set. The
// primary key on (post_id, user_id) keeps each user in the set at most once,
// the insert-or-delete runs in a single transaction.
func (r *Repo) ToggleLike(ctx context.Context, postID, userID int) (likes int, liked bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "postsRepo.toggleLike")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("post.id", postID))
	span.SetAttributes(attribute.Int("user.id", userID))

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return -1, false, err
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			log.Errorf("toggle like, rollback: %s", rollbackErr)
		}
	}()

	tag, err := tx.Exec(
		ctx,
		`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2)
			ON CONFLICT (post_id, user_id) DO NOTHING`,
		postID, userID,
	)
	if err != nil {
		return -1, false, postFKCheck(err)
	}

	liked = tag.RowsAffected() == 1
	if !liked {
		if _, err := tx.Exec(
			ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`,
			postID, userID,
		); err != nil {
			return -1, false, err
		}
	}

	if err := tx.QueryRow(
		ctx,
		`SELECT COUNT(*) FROM post_likes WHERE post_id = $1`,
		postID,
	).Scan(&likes); err != nil {
		return -1, false, err
	}

	if err := tx.Commit(ctx); err != nil {
		return -1, false, err
	}

	return likes, liked, nil
}

func (r *Repo) rows2posts(rows pgx.Rows) ([]Post, error) {
	var posts []Post
	for rows.Next() {
		var p Post
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Content, &p.Excerpt, &p.FeaturedImage,
			&p.Tags, &p.Status, &p.Views, &p.CreatedAt, &p.UpdatedAt,
			&p.Author.ID, &p.Author.Username,
			&p.Category.ID, &p.Category.Name, &p.Category.Slug,
			&p.Likes,
		); err != nil {
			return nil, err
		}
		if p.Tags == nil {
			p.Tags = []string{}
		}
		posts = append(posts, p)
	}

	// a connection error mid-iteration must not pass for a short page
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if posts == nil {
		posts = make([]Post, 0)
	}

	return posts, nil
}

func rows2comments(rows pgx.Rows) ([]Comment, error) {
	var comments []Comment
	for rows.Next() {
		var c Comment
		if err := rows.Scan(
			&c.ID, &c.PostID,
			&c.Author.ID, &c.Author.Username,
			&c.Content, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if comments == nil {
		comments = make([]Comment, 0)
	}

	return comments, nil
}

func categoryFKCheck(err error) error {
	if pkg.IsForeignKeyViolationError(err) &&
		strings.Contains(pkg.ViolatedConstraint(err), "category") {
		return ErrCategoryNotFound
	}
	return err
}

func postFKCheck(err error) error {
	if pkg.IsForeignKeyViolationError(err) &&
		strings.Contains(pkg.ViolatedConstraint(err), "post") {
		return ErrPostNotFound
	}
	return err
}
