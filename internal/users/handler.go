package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/plume-blog/plume/internal/auth"
	"github.com/plume-blog/plume/internal/middleware"
	"github.com/plume-blog/plume/internal/telemetry/metrics"
	"github.com/plume-blog/plume/internal/telemetry/tracing"
	"github.com/plume-blog/plume/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=users_mocks_test.go -package=users_test

// compared against when the email is unknown, so that login failures
// take the same time and stay indistinguishable
const dummyPasswordHash = "$2a$14$z8cd4yJpzP40Qh2F2BhiMO.sOm4YAIaf30pmUKLOaISojD9HnXgaG"

type usersRepo interface {
	Add(ctx context.Context, user *User) error
	Get(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateProfile(ctx context.Context, id int, username, email string) error
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type Handler struct {
	repo           usersRepo
	tokenIssuer    *auth.TokenIssuer
	metricsManager *metrics.Manager
}

func NewHandler(
	repo usersRepo,
	tokenIssuer *auth.TokenIssuer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		repo:           repo,
		tokenIssuer:    tokenIssuer,
		metricsManager: metricsManager,
	}
}

func (handler *Handler) SetupRoutes(
	router *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	loginAllowedPerMin int,
) {
	authRouter := router.PathPrefix("/api/auth").Subrouter()
	authRouter.HandleFunc("/register", handler.handleRegister).Methods("POST", "OPTIONS").Name("register")
	authRouter.HandleFunc("/login", handler.handleLogin).Methods("POST", "OPTIONS").Name("login")
	authRouter.HandleFunc("/me", handler.handleMe).Methods("GET", "OPTIONS").Name("me")
	authRouter.HandleFunc("/profile", handler.handleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")

	// register and login get rate limited to prevent abuse
	if rateLimiter != nil {
		authRouter.Use(middleware.RateLimit(rateLimiter, "auth", loginAllowedPerMin, handler.metricsManager))
	}
}

func (handler *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.register")
	defer span.End()

	var registerReq registerRequest
	if err := json.NewDecoder(r.Body).Decode(&registerReq); err != nil {
		log.Tracef("register, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}

	if err := validateRegisterRequest(registerReq); err != nil {
		pkg.WriteError(w, err)
		return
	}

	passwordHash, err := pkg.HashPassword(registerReq.Password)
	if err != nil {
		log.Errorf("register, hash password: %s", err)
		pkg.WriteError(w, err)
		return
	}

	user := &User{
		Username:     strings.TrimSpace(registerReq.Username),
		Email:        strings.ToLower(strings.TrimSpace(registerReq.Email)),
		PasswordHash: passwordHash,
		Role:         auth.RoleUser,
	}

	if err := handler.repo.Add(ctx, user); err != nil {
		if errors.Is(err, ErrUserExists) {
			pkg.WriteError(w, pkg.NewConflictError("email or username already taken"))
			return
		}
		log.Errorf("register user failed: %s", err)
		pkg.WriteError(w, err)
		return
	}

	token, err := handler.tokenIssuer.Issue(user.ID, user.Role)
	if err != nil {
		log.Errorf("register, issue token: %s", err)
		pkg.WriteError(w, err)
		return
	}

	log.Tracef("new user %d [%s] registered", user.ID, user.Username)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterUsersRegistered.Inc()
	}

	pkg.WriteData(w, http.StatusCreated, AuthResponse{
		Token: token,
		User:  user,
	})
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.login")
	defer span.End()

	var loginReq loginRequest
	if err := json.NewDecoder(r.Body).Decode(&loginReq); err != nil {
		log.Tracef("login, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}

	if loginReq.Email == "" || loginReq.Password == "" {
		pkg.WriteError(w, pkg.NewValidationError("email and password required"))
		return
	}

	user, err := handler.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(loginReq.Email)))
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		log.Errorf("login, get user: %s", err)
		pkg.WriteError(w, err)
		return
	}

	// unknown email and wrong password fail the same way
	passwordHash := dummyPasswordHash
	if user != nil {
		passwordHash = user.PasswordHash
	}
	if !pkg.CheckPasswordHash(loginReq.Password, passwordHash) || user == nil {
		log.Tracef("failed login attempt for email: %s", loginReq.Email)
		pkg.WriteError(w, pkg.NewAuthError("wrong credentials"))
		return
	}

	token, err := handler.tokenIssuer.Issue(user.ID, user.Role)
	if err != nil {
		log.Errorf("login, issue token: %s", err)
		pkg.WriteError(w, err)
		return
	}

	log.Tracef("user %d logged in", user.ID)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.Inc()
	}

	pkg.WriteData(w, http.StatusOK, AuthResponse{
		Token: token,
		User:  user,
	})
}

func (handler *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.me")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	user, err := handler.repo.Get(ctx, identity.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			pkg.WriteError(w, pkg.NewNotFoundError("user not found"))
			return
		}
		log.Errorf("get current user %d: %s", identity.UserID, err)
		pkg.WriteError(w, err)
		return
	}

	pkg.WriteData(w, http.StatusOK, user)
}

func (handler *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "usersHandler.updateProfile")
	defer span.End()

	identity, ok := auth.IdentityFromContext(ctx)
	if !ok {
		pkg.WriteError(w, pkg.NewAuthError("not authorized"))
		return
	}

	var updateReq updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&updateReq); err != nil {
		log.Tracef("update profile, unmarshal json params: %s", err)
		pkg.WriteError(w, pkg.NewValidationError("invalid request body"))
		return
	}

	user, err := handler.repo.Get(ctx, identity.UserID)
	if err != nil {
		log.Errorf("update profile, get user %d: %s", identity.UserID, err)
		pkg.WriteError(w, err)
		return
	}

	if updateReq.Username == "" {
		updateReq.Username = user.Username
	}
	if updateReq.Email == "" {
		updateReq.Email = user.Email
	}
	updateReq.Email = strings.ToLower(strings.TrimSpace(updateReq.Email))

	if err := handler.repo.UpdateProfile(ctx, identity.UserID, updateReq.Username, updateReq.Email); err != nil {
		if errors.Is(err, ErrUserExists) {
			pkg.WriteError(w, pkg.NewConflictError("email or username already taken"))
			return
		}
		log.Errorf("update profile for user %d: %s", identity.UserID, err)
		pkg.WriteError(w, err)
		return
	}

	user.Username = updateReq.Username
	user.Email = updateReq.Email

	log.Tracef("user %d profile updated", user.ID)
	pkg.WriteData(w, http.StatusOK, user)
}

func validateRegisterRequest(req registerRequest) error {
	if len(strings.TrimSpace(req.Username)) < 3 {
		return pkg.NewValidationError("username must have at least 3 characters")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return pkg.NewValidationError("invalid email")
	}
	if len(req.Password) < 8 {
		return pkg.NewValidationError("password must have at least 8 characters")
	}
	return nil
}
