package categories

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/plume-blog/plume/internal/auth"
	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=categories_mocks_test.go -package=categories_test

const (
	cacheKey = "categories::all"
	cacheTTL = 5 * time.Minute
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type categoriesRepo interface {
	Add(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]Category, error)
}

type newCategoryRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Handler struct {
	repo        categoriesRepo
	redisClient *redis.Client
}

func NewHandler(repo categoriesRepo, redisClient *redis.Client) *Handler {
	return &Handler{
		repo:        repo,
		redisClient: redisClient,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/api/categories", handler.handleList).Methods("GET").Name("list-categories")
	router.HandleFunc("/api/categories", handler.handleCreate).Methods("POST", "OPTIONS").Name("new-category")
}

func (handler *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "categoriesHandler.list")
	defer span.End()

	if cached, ok := handler.cachedList(ctx); ok {
		pkg.WriteData(w, http.StatusOK, cached)
		return
	}

	categories, err := handler.repo.List(ctx)
	if err != nil {
		log.Errorf("list categories: %s", err)
		pkg.WriteError(w, err)
		return
	}

	handler.cacheList(ctx, categories)
	pkg.WriteData(w, http.StatusOK, categories)
}

func (handler *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "categoriesHandler.create")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}
	if !identity.IsAdmin() {
		pkg.WriteError(w, pkg.NewForbiddenError("only admins can create categories"))
		return
	}

	var categoryReq newCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&categoryReq); err != nil {
		log.Tracef("new category, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}

	if strings.TrimSpace(categoryReq.Name) == "" {
		pkg.WriteError(w, pkg.NewValidationError("category name empty"))
		return
	}
	if !slugRegex.MatchString(categoryReq.Slug) {
		pkg.WriteError(w, pkg.NewValidationError("invalid slug, use lowercase letters, digits and hyphens"))
		return
	}

	category := &Category{
		Name: categoryReq.Name,
		Slug: categoryReq.Slug,
	}
	if err := handler.repo.Add(ctx, category); err != nil {
		if errors.Is(err, ErrCategoryExists) {
			pkg.WriteError(w, pkg.NewConflictError("category slug already taken"))
			return
		}
		log.Errorf("add category [%s]: %s", category.Slug, err)
		pkg.WriteError(w, err)
		return
	}

	handler.invalidateCache(ctx)

	log.Tracef("new category %d: [%s] added", category.ID, category.Slug)
	pkg.WriteData(w, http.StatusCreated, category)
}

// cachedList tries redis first, a cache miss or a stale payload just means
// going to the database.
func (handler *Handler) cachedList(ctx context.Context) ([]Category, bool) {
	if handler.redisClient == nil {
		return nil, false
	}

	cmd := handler.redisClient.Get(ctx, cacheKey)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Errorf("get categories from redis: %s", err)
		}
		return nil, false
	}

	var categories []Category
	if err := json.Unmarshal([]byte(cmd.Val()), &categories); err != nil {
		log.Errorf("unmarshal cached categories: %s", err)
		return nil, false
	}
	return categories, true
}

func (handler *Handler) cacheList(ctx context.Context, categories []Category) {
	if handler.redisClient == nil {
		return
	}

	categoriesBytes, err := json.Marshal(categories)
	if err != nil {
		log.Errorf("marshal categories for redis: %s", err)
		return
	}
	if err := handler.redisClient.Set(ctx, cacheKey, categoriesBytes, cacheTTL).Err(); err != nil {
		log.Errorf("cache categories in redis: %s", err)
	}
}

func (handler *Handler) invalidateCache(ctx context.Context) {
	if handler.redisClient == nil {
		return
	}
	if err := handler.redisClient.Del(ctx, cacheKey).Err(); err != nil {
		log.Errorf("invalidate categories cache: %s", err)
	}
}
