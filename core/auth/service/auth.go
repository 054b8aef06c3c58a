package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ncobase/classroom/cache"
	"github.com/ncobase/classroom/core/auth/data/repository"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/ctxutil"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/logging/logger"
	"github.com/ncobase/classroom/logging/observes"
	"github.com/ncobase/classroom/nanoid"
	"github.com/ncobase/classroom/security/jwt"
	"github.com/ncobase/classroom/validator"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgInvalidCredentials = "Invalid credentials"
	msgInvalidAdminCode   = "Invalid admin code"
	msgAccountInactive    = "Account is inactive. Please contact an administrator"
	msgRoleMismatch       = "Role mismatch. Please select your correct role"
	msgInvalidToken       = "Invalid or expired token"

	// usernameAttempts bounds retries when a generated username collides
	usernameAttempts = 5
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// PasswordHasher hashes and verifies password digests
type PasswordHasher interface {
	HashPassword(ctx context.Context, password string) (string, error)
	ComparePassword(ctx context.Context, hashedPassword, password string) (bool, error)
	CompareDummy(ctx context.Context, password string) error
}

// AuthServiceInterface is the credential service
type AuthServiceInterface interface {
	Register(ctx context.Context, body *structs.RegisterBody) (*structs.AuthResult, error)
	Login(ctx context.Context, body *structs.LoginBody) (*structs.AuthResult, error)
	Refresh(ctx context.Context, body *structs.RefreshBody) (*structs.AuthResult, error)
	Verify(token string) (*structs.Principal, error)
	Me(ctx context.Context, userID string) (*structs.ReadUser, error)
	UpdateProfile(ctx context.Context, userID string, body *structs.UpdateProfileBody) (*structs.ReadUser, error)
	Profile() structs.Profile
}

type authService struct {
	profile   structs.Profile
	adminCode string
	users     repository.UserRepositoryInterface
	hasher    PasswordHasher
	tokens    *jwt.TokenManager
	profiles  cache.ICache[structs.ReadUser]
	log       *logger.Logger
	now       func() time.Time
}

// Option configures the credential service
type Option func(*authService)

// WithProfileCache caches sanitized principals served by Me
func WithProfileCache(c cache.ICache[structs.ReadUser]) Option {
	return func(s *authService) {
		if c != nil {
			s.profiles = c
		}
	}
}

// NewAuthService creates the credential service. An empty admin code
// disables the elevated role entirely.
func NewAuthService(
	profile structs.Profile,
	adminCode string,
	users repository.UserRepositoryInterface,
	hasher PasswordHasher,
	tokens *jwt.TokenManager,
	log *logger.Logger,
	opts ...Option,
) AuthServiceInterface {
	if log == nil {
		log = logger.Discard()
	}
	s := &authService{
		profile:   profile,
		adminCode: adminCode,
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		profiles:  cache.NewCache[structs.ReadUser](nil, "", 0),
		log:       log,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *authService) Profile() structs.Profile {
	return s.profile
}

// Register validates input, gates the elevated role, checks uniqueness and
// stores the principal. Tokens are signed before the insert, so a signing
// failure leaves nothing behind.
func (s *authService) Register(ctx context.Context, body *structs.RegisterBody) (_ *structs.AuthResult, err error) {
	ctx, span := observes.StartSpan(ctx, "auth.register")
	defer func() { observes.EndSpan(span, err) }()

	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	role := s.profile.ResolveRole(body.Role)
	span.SetAttributes(attribute.String("auth.role", string(role)))
	if s.profile.IsElevated(role) && !s.checkAdminCode(body.AdminCode) {
		return nil, ecode.Authentication(msgInvalidAdminCode)
	}

	username, err := s.pickUsername(ctx, body)
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.HashPassword(ctx, body.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &structs.User{
		ID:        primitive.NewObjectID(),
		Email:     body.Email,
		Username:  username,
		Password:  hash,
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Role:      role,
		IsActive:  true,
		CreatedAt: now,
	}
	user.Touch(now)

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, data.ErrDuplicate) {
			return nil, ecode.Duplicate("User")
		}
		return nil, err
	}

	s.log.Info(ctx, "user registered", "user_id", user.ID.Hex(), "role", string(role))
	return result, nil
}

// pickUsername returns the requested handle if free, or generates one.
func (s *authService) pickUsername(ctx context.Context, body *structs.RegisterBody) (string, error) {
	requested := body.Username != ""
	username := body.Username
	if !requested {
		username = GenerateUsername(body.FirstName, body.LastName)
	}

	for attempt := 0; ; attempt++ {
		emailTaken, usernameTaken, err := s.users.Taken(ctx, body.Email, username)
		if err != nil {
			return "", err
		}
		if emailTaken {
			return "", ecode.Duplicate("Email")
		}
		if !usernameTaken {
			return username, nil
		}
		if requested || attempt+1 >= usernameAttempts {
			return "", ecode.Duplicate("Username")
		}
		username = GenerateUsername(body.FirstName, body.LastName)
	}
}

// GenerateUsername builds a handle from the names plus a random number,
// or "user" plus a random number when no name is given.
func GenerateUsername(firstName, lastName string) string {
	base := nonAlnum.ReplaceAllString(strings.ToLower(firstName+lastName), "")
	if base == "" {
		return "user" + nanoid.Suffix(6)
	}
	return base + nanoid.Suffix(4)
}

// Login checks the password first so every credential failure costs the
// same bcrypt work whether or not the account exists.
func (s *authService) Login(ctx context.Context, body *structs.LoginBody) (_ *structs.AuthResult, err error) {
	ctx, span := observes.StartSpan(ctx, "auth.login")
	defer func() { observes.EndSpan(span, err) }()

	body.Normalize()
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	user, err := s.users.GetByEmail(ctx, body.Email)
	if err != nil {
		if !errors.Is(err, data.ErrNotFound) {
			return nil, err
		}
		if err := s.hasher.CompareDummy(ctx, body.Password); err != nil {
			return nil, fmt.Errorf("compare password: %w", err)
		}
		return nil, ecode.Authentication(msgInvalidCredentials)
	}

	ok, err := s.hasher.ComparePassword(ctx, user.Password, body.Password)
	if err != nil {
		return nil, fmt.Errorf("compare password: %w", err)
	}
	if !ok {
		return nil, ecode.Authentication(msgInvalidCredentials)
	}

	if !user.IsActive {
		return nil, ecode.Authentication(msgAccountInactive)
	}
	if body.Role != "" && structs.Role(body.Role) != user.Role {
		return nil, ecode.Authentication(msgRoleMismatch)
	}
	if s.profile.IsElevated(user.Role) && !s.checkAdminCode(body.AdminCode) {
		return nil, ecode.Authentication(msgInvalidCredentials)
	}

	now := s.now()
	wctx, cancel := ctxutil.WithAsyncContext(ctx, 0)
	defer cancel()
	if err := s.users.UpdateLastLogin(wctx, user.ID, now); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	user.Touch(now)
	s.forget(ctx, user.ID.Hex())

	result, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	s.log.Info(ctx, "user logged in", "user_id", user.ID.Hex())
	return result, nil
}

// Refresh exchanges a renewal token for a new pair. The account must still
// exist and be active.
func (s *authService) Refresh(ctx context.Context, body *structs.RefreshBody) (*structs.AuthResult, error) {
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	claims, err := s.tokens.DecodeRefreshToken(body.RefreshToken)
	if err != nil {
		return nil, ecode.Authentication(msgInvalidToken)
	}

	user, err := s.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.Authentication(msgInvalidToken)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ecode.Authentication(msgAccountInactive)
	}

	return s.issue(user)
}

// Verify decodes an access token. Every failure is the same error.
func (s *authService) Verify(token string) (*structs.Principal, error) {
	claims, err := s.tokens.DecodeToken(token)
	if err != nil {
		return nil, ecode.Authentication(msgInvalidToken)
	}

	role := structs.Role(claims.Role)
	if !role.Valid() {
		return nil, ecode.Authentication(msgInvalidToken)
	}

	return &structs.Principal{UserID: claims.UserID(), Email: claims.Email, Role: role}, nil
}

// Me returns the sanitized principal, from the profile cache when warm
func (s *authService) Me(ctx context.Context, userID string) (*structs.ReadUser, error) {
	cached, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.Warn(ctx, "profile cache read failed", "user_id", userID, "error", err)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("User")
		}
		return nil, err
	}

	read := user.Sanitize()
	if err := s.profiles.Set(ctx, userID, read); err != nil {
		s.log.Warn(ctx, "profile cache write failed", "user_id", userID, "error", err)
	}
	return read, nil
}

func (s *authService) forget(ctx context.Context, userID string) {
	if err := s.profiles.Delete(ctx, userID); err != nil {
		s.log.Warn(ctx, "profile cache invalidation failed", "user_id", userID, "error", err)
	}
}

// UpdateProfile changes the names and stamps the update time
func (s *authService) UpdateProfile(ctx context.Context, userID string, body *structs.UpdateProfileBody) (*structs.ReadUser, error) {
	if body.FirstName != nil {
		v := strings.TrimSpace(*body.FirstName)
		body.FirstName = &v
	}
	if body.LastName != nil {
		v := strings.TrimSpace(*body.LastName)
		body.LastName = &v
	}
	if details := validator.ValidateStruct(body); len(details) > 0 {
		return nil, ecode.Validation("", details)
	}

	user, err := s.users.UpdateNames(ctx, userID, body.FirstName, body.LastName, s.now())
	if err != nil {
		if errors.Is(err, data.ErrNotFound) {
			return nil, ecode.NotFound("User")
		}
		return nil, err
	}
	s.forget(ctx, userID)
	return user.Sanitize(), nil
}

func (s *authService) issue(user *structs.User) (*structs.AuthResult, error) {
	id := user.ID.Hex()
	access, err := s.tokens.GenerateAccessToken(id, user.Email, string(user.Role))
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(id)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &structs.AuthResult{User: user.Sanitize(), AccessToken: access, RefreshToken: refresh}, nil
}

func (s *authService) checkAdminCode(code string) bool {
	if s.adminCode == "" || code == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(code), []byte(s.adminCode)) == 1
}
