package posts

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/plume-blog/plume/internal/auth"
	"github.com/plume-blog/plume/internal/media"
	"github.com/plume-blog/plume/internal/telemetry/metrics"
	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=posts_mocks_test.go -package=posts_test

const (
	defaultPageSize  = 10
	maxPageSize      = 100
	maxUploadBytes   = 32 << 20
	imageFormFieldID = "image"
)

type postsRepo interface {
	Add(ctx context.Context, post *Post) error
	Update(ctx context.Context, post *Post) error
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Post, error)
	IncrementViews(ctx context.Context, id int) error
	List(ctx context.Context, params ListParams) (_ []Post, total int, err error)
	GetByIDs(ctx context.Context, ids []int) ([]Post, error)
	AddComment(ctx context.Context, postID, authorID int, content string) (*Comment, error)
	ListComments(ctx context.Context, postID int) ([]Comment, error)
	GetComment(ctx context.Context, postID, commentID int) (*Comment, error)
	DeleteComment(ctx context.Context, postID, commentID int) error
	ToggleLike(ctx context.Context, postID, userID int) (likes int, liked bool, err error)
}

// postSearcher is the optional full-text index, nil when search runs on
// the database alone.
type postSearcher interface {
	Search(ctx context.Context, query, status, category string, page, size int) (ids []int, total int, err error)
	Index(ctx context.Context, post Post) error
	Remove(ctx context.Context, id int) error
}

type mediaStore interface {
	Save(filename, contentType string, src io.Reader) (storedName string, err error)
	FilePath(name string) (string, error)
}

type createPostRequest struct {
	Title      string   `json:"title"`
	Content    string   `json:"content"`
	Excerpt    string   `json:"excerpt"`
	CategoryID int      `json:"category_id"`
	Tags       []string `json:"tags"`
	Status     string   `json:"status"`
}

type updatePostRequest struct {
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Excerpt    *string  `json:"excerpt"`
	CategoryID *int     `json:"category_id"`
	Tags       []string `json:"tags"`
	Status     *string  `json:"status"`
}

type newCommentRequest struct {
	Content string `json:"content"`
}

type PostResponse struct {
	Post
	Comments []Comment `json:"comments"`
}

type DeletedResponse struct {
	DeletedID int `json:"deletedId"`
}

type LikeResponse struct {
	Likes int  `json:"likes"`
	Liked bool `json:"liked"`
}

type Handler struct {
	repo           postsRepo
	searcher       postSearcher
	media          mediaStore
	metricsManager *metrics.Manager
}

func NewHandler(
	repo postsRepo,
	searcher postSearcher,
	media mediaStore,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		searcher:       searcher,
		media:          media,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	// the image route goes first, so it does not get swallowed by /{id}
	router.HandleFunc("/api/posts/image/{name}", handler.handleGetImage).Methods("GET", "OPTIONS").Name("post-image")
	router.HandleFunc("/api/posts", handler.handleList).Methods("GET").Name("list-posts")
	router.HandleFunc("/api/posts", handler.handleCreate).Methods("POST", "OPTIONS").Name("new-post")
	router.HandleFunc("/api/posts/{id}", handler.handleGet).Methods("GET").Name("get-post")
	router.HandleFunc("/api/posts/{id}", handler.handleUpdate).Methods("PUT", "OPTIONS").Name("update-post")
	router.HandleFunc("/api/posts/{id}", handler.handleDelete).Methods("DELETE", "OPTIONS").Name("delete-post")
	router.HandleFunc("/api/posts/{id}/comments", handler.handleAddComment).Methods("POST", "OPTIONS").Name("new-comment")
	router.HandleFunc("/api/posts/{id}/comments/{commentId}", handler.handleDeleteComment).Methods("DELETE", "OPTIONS").Name("delete-comment")
	router.HandleFunc("/api/posts/{id}/like", handler.handleToggleLike).Methods("POST", "OPTIONS").Name("toggle-like")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.list")
	defer span.End()

	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		var err error
		if page, err = strconv.Atoi(pageStr); err != nil || page < 1 {
			pkg.WriteError(w, pkg.NewValidationError("invalid page"))
			return
		}
	}

	size := defaultPageSize
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		if size, err = strconv.Atoi(limitStr); err != nil || size < 1 || size > maxPageSize {
			pkg.WriteError(w, pkg.NewValidationError("invalid limit"))
			return
		}
	}

	// unless explicitly overridden, only published posts are listed
	status := StatusPublished
	if query.Has("status") {
		status = query.Get("status")
		if !ValidStatus(status) {
			pkg.WriteError(w, pkg.NewValidationError("invalid status, must be %s or %s", StatusDraft, StatusPublished))
			return
		}
	}

	params := ListParams{
		Search:       query.Get("search"),
		CategorySlug: query.Get("category"),
		Status:       status,
		Page:         page,
		Size:         size,
	}

	postsPage, total, err := handler.listPage(ctx, params)
	if err != nil {
		log.Errorf("list posts error: %s", err)
		pkg.WriteError(w, err)
		return
	}

	pkg.WritePage(w, postsPage, len(postsPage), total, pkg.NewPagination(page, size, total))
}

// listPage goes through the search index when one is wired and a search
// term is present, the database filter covers everything else.
func (handler *Handler) listPage(ctx context.Context, params ListParams) ([]Post, int, error) {
	if handler.searcher == nil || params.Search == "" {
		return handler.repo.List(ctx, params)
	}

	ids, total, err := handler.searcher.Search(
		ctx,
		params.Search, params.Status, params.CategorySlug,
		params.Page, params.Size,
	)
	if err != nil {
		log.Errorf("post search failed, falling back to db filter: %s", err)
		return handler.repo.List(ctx, params)
	}

	postsPage, err := handler.repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, -1, err
	}
	return postsPage, total, nil
}

func (handler *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.get")
	defer span.End()

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	// every fetch counts as a view
	if err := handler.repo.IncrementViews(ctx, id); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
			return
		}
		log.Errorf("increment views for post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	post, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("get post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	comments, err := handler.repo.ListComments(ctx, id)
	if err != nil {
		log.Errorf("get post %d comments: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	pkg.WriteData(w, http.StatusOK, PostResponse{
		Post:     *post,
		Comments: comments,
	})
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.create")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	createReq, err := handler.decodeCreateRequest(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	if createReq.Status == "" {
		createReq.Status = StatusDraft
	}
	if err := validatePostFields(createReq.Title, createReq.Content, createReq.CategoryID, createReq.Status); err != nil {
		pkg.WriteError(w, err)
		return
	}

	// the image lands on disk only after the rest of the form checks out
	imageName := ""
	if isMultipartRequest(r) {
		if imageName, err = handler.saveUploadedImage(r); err != nil {
			pkg.WriteError(w, err)
			return
		}
	}

	post := &Post{
		Title:         createReq.Title,
		Content:       createReq.Content,
		Excerpt:       createReq.Excerpt,
		FeaturedImage: imageName,
		Author:        Author{ID: identity.UserID},
		Category:      Category{ID: createReq.CategoryID},
		Tags:          createReq.Tags,
		Status:        createReq.Status,
	}

	if err := handler.repo.Add(ctx, post); err != nil {
		if errors.Is(err, ErrCategoryNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("category not found"))
			return
		}
		log.Errorf("add new post [%s] failed: %s", post.Title, err)
		pkg.WriteError(w, err)
		return
	}

	// re-read to get author and category populated
	created, err := handler.repo.Get(ctx, post.ID)
	if err != nil {
		log.Errorf("get created post %d: %s", post.ID, err)
		pkg.WriteError(w, err)
		return
	}

	log.Tracef("new post %d: [%s] added", created.ID, created.Title)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterPostsCreated.Inc()
	}
	handler.indexPost(ctx, *created)

	pkg.WriteData(w, http.StatusCreated, created)
}

func (handler *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.update")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	post, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
			return
		}
		log.Errorf("update, get post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	if !auth.CanModify(post.Author.ID, identity) {
		pkg.WriteError(w, pkg.NewForbiddenError("not allowed to modify this post"))
		return
	}

	var updateReq updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Tracef("update post, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}

	if updateReq.Title != nil {
		post.Title = *updateReq.Title
	}
	if updateReq.Content != nil {
		post.Content = *updateReq.Content
	}
	if updateReq.Excerpt != nil {
		post.Excerpt = *updateReq.Excerpt
	}
	if updateReq.CategoryID != nil {
		post.Category.ID = *updateReq.CategoryID
	}
	if updateReq.Tags != nil {
		post.Tags = updateReq.Tags
	}
	if updateReq.Status != nil {
		post.Status = *updateReq.Status
	}

	if err := validatePostFields(post.Title, post.Content, post.Category.ID, post.Status); err != nil {
		pkg.WriteError(w, err)
		return
	}

	if err := handler.repo.Update(ctx, post); err != nil {
		switch {
		case errors.Is(err, ErrPostNotFound):
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
		case errors.Is(err, ErrCategoryNotFound):
			pkg.WriteError(w, pkg.NewNotFoundError("category not found"))
		default:
			log.Errorf("update post %d: %s", id, err)
			pkg.WriteError(w, err)
		}
		return
	}

	updated, err := handler.repo.Get(ctx, id)
	if err != nil {
		log.Errorf("get updated post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	handler.indexPost(ctx, *updated)
	pkg.WriteData(w, http.StatusOK, updated)
}

func (handler *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.delete")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	post, err := handler.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
			return
		}
		log.Errorf("delete, get post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	if !auth.CanModify(post.Author.ID, identity) {
		pkg.WriteError(w, pkg.NewForbiddenError("not allowed to delete this post"))
		return
	}

	if err := handler.repo.Delete(ctx, id); err != nil {
		log.Errorf("delete post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	if handler.searcher != nil {
		if err := handler.searcher.Remove(ctx, id); err != nil {
			log.Errorf("remove post %d from search index: %s", id, err)
		}
	}

	log.Tracef("post %d deleted", id)
	pkg.WriteData(w, http.StatusOK, DeletedResponse{DeletedID: id})
}

func (handler *Handler) handleAddComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.addComment")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	var commentReq newCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&commentReq); err != nil {
		log.Tracef("new comment, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}
	if strings.TrimSpace(commentReq.Content) == "" {
		pkg.WriteError(w, pkg.NewValidationError("comment content empty"))
		return
	}

	if _, err := handler.repo.AddComment(ctx, id, identity.UserID, commentReq.Content); err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
			return
		}
		log.Errorf("add comment to post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterComments.Inc()
	}

	// respond with the full comment list, authors resolved
	comments, err := handler.repo.ListComments(ctx, id)
	if err != nil {
		log.Errorf("list comments for post %d: %s", id, err)
		pkg.WriteError(w, err)
		return
	}

	pkg.WriteData(w, http.StatusCreated, comments)
}

func (handler *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.deleteComment")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	commentIDStr := mux.Vars(r)["commentId"]
	commentID, err := strconv.Atoi(commentIDStr)
	if err != nil {
		pkg.WriteError(w, pkg.NewValidationError("invalid comment id"))
		return
	}

	comment, err := handler.repo.GetComment(ctx, id, commentID)
	if err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("comment not found"))
			return
		}
		log.Errorf("get comment %d of post %d: %s", commentID, id, err)
		pkg.WriteError(w, err)
		return
	}

	if !auth.CanModify(comment.Author.ID, identity) {
		pkg.WriteError(w, pkg.NewForbiddenError("not allowed to delete this comment"))
		return
	}

	if err := handler.repo.DeleteComment(ctx, id, commentID); err != nil {
		if errors.Is(err, ErrCommentNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("comment not found"))
			return
		}
		log.Errorf("delete comment %d of post %d: %s", commentID, id, err)
		pkg.WriteError(w, err)
		return
	}

	pkg.WriteData(w, http.StatusOK, DeletedResponse{DeletedID: commentID})
}

func (handler *Handler) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.toggleLike")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	id, err := postID(r)
	if err != nil {
		pkg.WriteError(w, err)
		return
	}

	likes, liked, err := handler.repo.ToggleLike(ctx, id, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrPostNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("post not found"))
			return
		}
		log.Errorf("toggle like on post %d by user %d: %s", id, identity.UserID, err)
		pkg.WriteError(w, err)
		return
	}

	if handler.metricsManager != nil {
		handler.metricsManager.CounterLikes.Inc()
	}

	pkg.WriteData(w, http.StatusOK, LikeResponse{
		Likes: likes,
		Liked: liked,
	})
}

func (handler *Handler) handleGetImage(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "postsHandler.getImage")
	defer span.End()

	name := mux.Vars(r)["name"]
	path, err := handler.media.FilePath(name)
	if err != nil {
		pkg.WriteError(w, pkg.NewNotFoundError("image not found"))
		return
	}

	http.ServeFile(w, r, path)
}

func isMultipartRequest(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// decodeCreateRequest accepts either a plain JSON body or a multipart form
// carrying the post fields, the attached image is handled separately.
func (handler *Handler) decodeCreateRequest(r *http.Request) (createPostRequest, error) {
	var createReq createPostRequest

	if isMultipartRequest(r) {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			log.Tracef("new post, parse multipart form: %s", err)
			return createReq, pkg.NewValidationError("invalid multipart form")
		}

		categoryID := 0
		if categoryIDStr := r.FormValue("category_id"); categoryIDStr != "" {
			var err error
			if categoryID, err = strconv.Atoi(categoryIDStr); err != nil {
				return createReq, pkg.NewValidationError("invalid category id")
			}
		}

		createReq = createPostRequest{
			Title:      r.FormValue("title"),
			Content:    r.FormValue("content"),
			Excerpt:    r.FormValue("excerpt"),
			CategoryID: categoryID,
			Status:     r.FormValue("status"),
		}
		if tags := r.FormValue("tags"); tags != "" {
			createReq.Tags = strings.Split(tags, ",")
		}
		return createReq, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&createReq); err != nil {
		log.Tracef("new post, unmarshal json params: %s", err)
		return createReq, pkg.NewValidationError("invalid request body")
	}
	return createReq, nil
}

func (handler *Handler) saveUploadedImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile(imageFormFieldID)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		log.Tracef("new post, get image from form: %s", err)
		return "", pkg.NewValidationError("invalid image upload")
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Errorf("new post, close image file: %s", err)
		}
	}()

	contentType := ""
	if t, ok := header.Header["Content-Type"]; ok && len(t) > 0 {
		contentType = t[0]
	}

	log.Debugf(
		"new post image, filename: %s, size: %d, content-type: %s",
		header.Filename, header.Size, contentType,
	)

	storedName, err := handler.media.Save(header.Filename, contentType, file)
	if err != nil {
		if errors.Is(err, media.ErrUnsupportedContentType) {
			return "", pkg.NewValidationError("unsupported image type")
		}
		log.Errorf("new post, store image: %s", err)
		return "", err
	}
	return storedName, nil
}

func (handler *Handler) indexPost(ctx context.Context, post Post) {
	if handler.searcher == nil {
		return
	}
	if err := handler.searcher.Index(ctx, post); err != nil {
		log.Errorf("index post %d: %s", post.ID, err)
	}
}

func postID(r *http.Request) (int, error) {
	idStr := mux.Vars(r)["id"]
	if idStr == "" {
		return 0, pkg.NewValidationError("post id empty")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return 0, pkg.NewValidationError("invalid post id")
	}
	return id, nil
}

func validatePostFields(title, content string, categoryID int, status string) error {
	if strings.TrimSpace(title) == "" {
		return pkg.NewValidationError("post title empty")
	}
	if strings.TrimSpace(content) == "" {
		return pkg.NewValidationError("post content empty")
	}
	if categoryID <= 0 {
		return pkg.NewValidationError("category id missing")
	}
	if !ValidStatus(status) {
		return pkg.NewValidationError("invalid status, must be %s or %s", StatusDraft, StatusPublished)
	}
	return nil
}
