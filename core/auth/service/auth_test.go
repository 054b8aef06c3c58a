package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ncobase/classroom/cache"
	"github.com/ncobase/classroom/core/auth/structs"
	"github.com/ncobase/classroom/crypto"
	"github.com/ncobase/classroom/data"
	"github.com/ncobase/classroom/data/connection"
	"github.com/ncobase/classroom/ecode"
	"github.com/ncobase/classroom/security/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const testAdminCode = "school-secret"

// memUsers is an in-memory user repository
type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*structs.User
	err   error // returned by every call when set
	taken map[string]bool
}

func newMemUsers() *memUsers {
	return &memUsers{users: map[primitive.ObjectID]*structs.User{}, taken: map[string]bool{}}
}

func (m *memUsers) Create(_ context.Context, u *structs.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, existing := range m.users {
		if existing.Email == u.Email || existing.Username == u.Username {
			return fmt.Errorf("create user: %w", data.ErrDuplicate)
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*structs.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}
	u, ok := m.users[oid]
	if !ok {
		return nil, data.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*structs.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, data.ErrNotFound
}

func (m *memUsers) Taken(_ context.Context, email, username string) (bool, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, false, m.err
	}
	var e, n bool
	for _, u := range m.users {
		e = e || u.Email == strings.ToLower(email)
		n = n || u.Username == strings.ToLower(username)
	}
	return e, n || m.taken[username], nil
}

func (m *memUsers) UpdateLastLogin(_ context.Context, id primitive.ObjectID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if u, ok := m.users[id]; ok {
		u.LastLogin = &at
		u.UpdatedAt = at
	}
	return nil
}

func (m *memUsers) UpdateNames(_ context.Context, id string, first, last *string, at time.Time) (*structs.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, data.ErrNotFound
	}
	u, ok := m.users[oid]
	if !ok {
		return nil, data.ErrNotFound
	}
	if first != nil {
		u.FirstName = *first
	}
	if last != nil {
		u.LastName = *last
	}
	u.UpdatedAt = at
	cp := *u
	return &cp, nil
}

func (m *memUsers) EnsureIndexes(context.Context) error { return nil }

func (m *memUsers) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}

func (m *memUsers) setActive(email string, active bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			u.IsActive = active
		}
	}
}

type fixture struct {
	svc    AuthServiceInterface
	users  *memUsers
	tokens *jwt.TokenManager
}

func newFixture(t *testing.T, profile structs.Profile) *fixture {
	t.Helper()
	users := newMemUsers()
	tokens := jwt.NewTokenManager("test-secret")
	svc := NewAuthService(profile, testAdminCode, users, crypto.NewHasher(4, nil), tokens, nil)
	return &fixture{svc: svc, users: users, tokens: tokens}
}

func requireKind(t *testing.T, err error, kind ecode.Kind) *ecode.Error {
	t.Helper()
	e, ok := ecode.As(err)
	require.Truef(t, ok, "error %v is not typed", err)
	require.Equal(t, kind, e.Kind)
	return e
}

func TestRegisterScenario(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()

	res, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!", FirstName: "A"})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleStudent, res.User.Role)
	assert.True(t, res.User.IsActive)
	assert.NotEmpty(t, res.RefreshToken)

	claims, err := f.tokens.DecodeToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, res.User.ID, claims.UserID())

	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "password")
	assert.NotContains(t, string(raw), "$2a$")

	_, err = f.svc.Login(ctx, &structs.LoginBody{Email: "a@x.com", Password: "wrong"})
	e := requireKind(t, err, ecode.KindAuthentication)
	assert.Equal(t, 401, e.Status)
}

func TestRegisterPasswordRules(t *testing.T) {
	tests := []struct {
		password string
		rule     string
	}{
		{"Abc1!", "at least 8 characters"},
		{"abcdefg1!", "an uppercase letter"},
		{"Abcdefgh!", "a digit"},
		{"Abcdefgh1", "a symbol"},
	}

	for _, tt := range tests {
		t.Run(tt.rule, func(t *testing.T) {
			f := newFixture(t, structs.ProfileGrading)
			_, err := f.svc.Register(context.Background(), &structs.RegisterBody{Email: "a@x.com", Password: tt.password})
			e := requireKind(t, err, ecode.KindValidation)
			assert.Contains(t, e.Details["password"], tt.rule)
			assert.Zero(t, f.users.count())
		})
	}
}

func TestRegisterReportsEveryInvalidField(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	_, err := f.svc.Register(context.Background(), &structs.RegisterBody{Email: "not-an-email", Password: "short"})
	e := requireKind(t, err, ecode.KindValidation)
	assert.Contains(t, e.Details, "email")
	assert.Contains(t, e.Details, "password")
	assert.Contains(t, e.Details["password"], "an uppercase letter")
	assert.Contains(t, e.Details["password"], "a digit")
}

func TestRegisterDuplicateEmailAnyCase(t *testing.T) {
	f := newFixture(t, structs.ProfileTasks)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "dup@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, &structs.RegisterBody{Email: "DUP@X.COM", Password: "Abcdef1!"})
	e := requireKind(t, err, ecode.KindDuplicate)
	assert.Equal(t, 409, e.Status)
	assert.Equal(t, 1, f.users.count())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	f := newFixture(t, structs.ProfileTasks)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "one@x.com", Password: "Abcdef1!", Username: "Ada"})
	require.NoError(t, err)
	_, err = f.svc.Register(ctx, &structs.RegisterBody{Email: "two@x.com", Password: "Abcdef1!", Username: "ada"})
	requireKind(t, err, ecode.KindDuplicate)
}

func TestRegisterElevatedRoleNeedsAdminCode(t *testing.T) {
	for _, code := range []string{"", "guess"} {
		t.Run("code="+code, func(t *testing.T) {
			f := newFixture(t, structs.ProfileGrading)
			_, err := f.svc.Register(context.Background(), &structs.RegisterBody{
				Email: "t@x.com", Password: "Abcdef1!", Role: "teacher", AdminCode: code,
			})
			e := requireKind(t, err, ecode.KindAuthentication)
			assert.Equal(t, msgInvalidAdminCode, e.Message)
			assert.Zero(t, f.users.count())
		})
	}

	f := newFixture(t, structs.ProfileGrading)
	res, err := f.svc.Register(context.Background(), &structs.RegisterBody{
		Email: "t@x.com", Password: "Abcdef1!", Role: "teacher", AdminCode: testAdminCode,
	})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleTeacher, res.User.Role)
}

func TestRegisterRoleOutsideProfileFallsBack(t *testing.T) {
	f := newFixture(t, structs.ProfileTasks)
	res, err := f.svc.Register(context.Background(), &structs.RegisterBody{
		Email: "s@x.com", Password: "Abcdef1!", Role: "teacher", AdminCode: testAdminCode,
	})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleUser, res.User.Role)
}

func TestRegisterTokenFailureLeavesNothing(t *testing.T) {
	users := newMemUsers()
	svc := NewAuthService(structs.ProfileGrading, testAdminCode, users, crypto.NewHasher(4, nil), jwt.NewTokenManager(""), nil)

	_, err := svc.Register(context.Background(), &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.Error(t, err)
	assert.Zero(t, users.count())
}

func TestRegisterGeneratesUsername(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	res, err := f.svc.Register(context.Background(), &structs.RegisterBody{
		Email: "g@x.com", Password: "Abcdef1!", FirstName: "Grace", LastName: "Murray Hopper",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.User.Username, "gracemurrayhopper"), res.User.Username)
}

func TestGenerateUsername(t *testing.T) {
	assert.Regexp(t, `^adalovelace\d{1,4}$`, GenerateUsername("Ada", "Love Lace"))
	assert.Regexp(t, `^user\d{1,6}$`, GenerateUsername("", " "))
}

func TestLoginIssuesMatchingToken(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()

	reg, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	res, err := f.svc.Login(ctx, &structs.LoginBody{Email: "A@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)
	require.NotNil(t, res.User.LastLogin)

	p, err := f.svc.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.UserID)
	assert.Equal(t, structs.RoleStudent, p.Role)
}

func TestLoginFailuresShareMessage(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(ctx, &structs.LoginBody{Email: "a@x.com", Password: "Wrong1!!"})
	_, unknownEmail := f.svc.Login(ctx, &structs.LoginBody{Email: "b@x.com", Password: "Abcdef1!"})

	e1 := requireKind(t, wrongPassword, ecode.KindAuthentication)
	e2 := requireKind(t, unknownEmail, ecode.KindAuthentication)
	assert.Equal(t, e1.Message, e2.Message)
	assert.Equal(t, msgInvalidCredentials, e1.Message)
}

func TestLoginInactiveAndRoleMismatch(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &structs.LoginBody{Email: "a@x.com", Password: "Abcdef1!", Role: "teacher", AdminCode: testAdminCode})
	e := requireKind(t, err, ecode.KindAuthentication)
	assert.Equal(t, msgRoleMismatch, e.Message)

	f.users.setActive("a@x.com", false)
	_, err = f.svc.Login(ctx, &structs.LoginBody{Email: "a@x.com", Password: "Abcdef1!"})
	e = requireKind(t, err, ecode.KindAuthentication)
	assert.Equal(t, msgAccountInactive, e.Message)
}

func TestLoginElevatedAccountNeedsAdminCode(t *testing.T) {
	f := newFixture(t, structs.ProfileTasks)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, &structs.RegisterBody{
		Email: "root@x.com", Password: "Abcdef1!", Role: "admin", AdminCode: testAdminCode,
	})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, &structs.LoginBody{Email: "root@x.com", Password: "Abcdef1!"})
	requireKind(t, err, ecode.KindAuthentication)

	_, err = f.svc.Login(ctx, &structs.LoginBody{Email: "root@x.com", Password: "Abcdef1!", AdminCode: "nope"})
	requireKind(t, err, ecode.KindAuthentication)

	res, err := f.svc.Login(ctx, &structs.LoginBody{Email: "root@x.com", Password: "Abcdef1!", Role: "admin", AdminCode: testAdminCode})
	require.NoError(t, err)
	assert.Equal(t, structs.RoleAdmin, res.User.Role)
}

func TestVerifyExpiredToken(t *testing.T) {
	users := newMemUsers()
	expired := jwt.NewTokenManager("test-secret", &jwt.TokenConfig{AccessTokenExpiry: -time.Minute})
	svc := NewAuthService(structs.ProfileGrading, testAdminCode, users, crypto.NewHasher(4, nil), expired, nil)

	token, err := expired.GenerateAccessToken(primitive.NewObjectID().Hex(), "a@x.com", "student")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	e := requireKind(t, err, ecode.KindAuthentication)
	assert.Equal(t, msgInvalidToken, e.Message)

	_, err = svc.Verify("garbage")
	e = requireKind(t, err, ecode.KindAuthentication)
	assert.Equal(t, msgInvalidToken, e.Message)
}

func TestRefresh(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.NoError(t, err)

	res, err := f.svc.Refresh(ctx, &structs.RefreshBody{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	p, err := f.svc.Verify(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, p.UserID)

	_, err = f.svc.Refresh(ctx, &structs.RefreshBody{RefreshToken: reg.AccessToken})
	requireKind(t, err, ecode.KindAuthentication)

	_, err = f.svc.Refresh(ctx, &structs.RefreshBody{})
	requireKind(t, err, ecode.KindValidation)

	f.users.setActive("a@x.com", false)
	_, err = f.svc.Refresh(ctx, &structs.RefreshBody{RefreshToken: reg.RefreshToken})
	requireKind(t, err, ecode.KindAuthentication)
}

func TestStoreUnavailablePassesThrough(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	f.users.err = fmt.Errorf("find user: %w", connection.ErrNotConnected)

	_, err := f.svc.Login(context.Background(), &structs.LoginBody{Email: "a@x.com", Password: "Abcdef1!"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, connection.ErrNotConnected))
	assert.True(t, data.IsUnavailable(err))
}

func TestMeAndUpdateProfile(t *testing.T) {
	f := newFixture(t, structs.ProfileGrading)
	ctx := context.Background()
	reg, err := f.svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!", FirstName: "Ada"})
	require.NoError(t, err)

	me, err := f.svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)

	last := "  Lovelace "
	updated, err := f.svc.UpdateProfile(ctx, reg.User.ID, &structs.UpdateProfileBody{LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Ada", updated.FirstName)
	assert.Equal(t, "Lovelace", updated.LastName)
	assert.False(t, updated.UpdatedAt.Before(reg.User.UpdatedAt))

	long := strings.Repeat("x", 51)
	_, err = f.svc.UpdateProfile(ctx, reg.User.ID, &structs.UpdateProfileBody{FirstName: &long})
	requireKind(t, err, ecode.KindValidation)

	_, err = f.svc.Me(ctx, primitive.NewObjectID().Hex())
	requireKind(t, err, ecode.KindNotFound)
}

type memCache struct {
	mu    sync.Mutex
	items map[string]structs.ReadUser
}

func (c *memCache) Get(_ context.Context, key string) (*structs.ReadUser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, cache.ErrMiss
	}
	return &v, nil
}

func (c *memCache) Set(_ context.Context, key string, v *structs.ReadUser) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = *v
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

func TestMeServedFromProfileCache(t *testing.T) {
	users := newMemUsers()
	profiles := &memCache{items: map[string]structs.ReadUser{}}
	svc := NewAuthService(structs.ProfileGrading, testAdminCode, users, crypto.NewHasher(4, nil),
		jwt.NewTokenManager("test-secret"), nil, WithProfileCache(profiles))
	ctx := context.Background()

	reg, err := svc.Register(ctx, &structs.RegisterBody{Email: "a@x.com", Password: "Abcdef1!", FirstName: "Ada"})
	require.NoError(t, err)

	_, err = svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	require.Contains(t, profiles.items, reg.User.ID)

	oid, err := primitive.ObjectIDFromHex(reg.User.ID)
	require.NoError(t, err)
	users.mu.Lock()
	users.users[oid].FirstName = "Changed elsewhere"
	users.mu.Unlock()

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada", me.FirstName)

	first := "Augusta"
	_, err = svc.UpdateProfile(ctx, reg.User.ID, &structs.UpdateProfileBody{FirstName: &first})
	require.NoError(t, err)
	assert.NotContains(t, profiles.items, reg.User.ID)

	me, err = svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Augusta", me.FirstName)
}
