package auth_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobboard/internal/apperr"
	"jobboard/internal/auth"
	"jobboard/internal/testutil"
)

func newService() (*auth.Service, *testutil.MemDB) {
	db := testutil.NewMemDB()
	clock := testutil.NewClock()
	return &auth.Service{
		Users: db.Users(),
		JWT:   auth.NewJWT(testutil.JWTConfig()),
		Clock: clock.Now,
	}, db
}

func register(email, role string) auth.RegisterInput {
	return auth.RegisterInput{FullName: "Test User", Email: email, Password: "password123", Role: role}
}

func TestRegister_IssuesSession(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	sess, err := svc.Register(ctx, register("  Ana@Example.com ", "Employer"))
	require.NoError(t, err)
	assert.NotEmpty(t, sess.Token)
	assert.Equal(t, "ana@example.com", sess.User.Email)
	assert.Equal(t, auth.RoleEmployer, sess.User.Role)

	claims, err := svc.JWT.Verify(sess.Token)
	require.NoError(t, err)
	uid, _ := claims.UserID()
	assert.Equal(t, sess.User.ID, uid)
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	cases := []struct {
		name string
		in   auth.RegisterInput
		kind apperr.Kind
	}{
		{"admin role", register("a@example.com", "Admin"), apperr.KindInvalid},
		{"unknown role", register("a@example.com", "SuperAdmin"), apperr.KindInvalid},
		{"bad email", register("nope", "Seeker"), apperr.KindInvalid},
		{"short password", auth.RegisterInput{FullName: "X", Email: "x@example.com", Password: "short", Role: "Seeker"}, apperr.KindInvalid},
		{"missing name", auth.RegisterInput{Email: "x@example.com", Password: "password123", Role: "Seeker"}, apperr.KindInvalid},
		{"padded role", register("a@example.com", " Seeker "), apperr.KindInvalid},
		{"password over bcrypt limit", auth.RegisterInput{FullName: "X", Email: "x@example.com", Password: strings.Repeat("p", 80), Role: "Seeker"}, apperr.KindInvalid},
		{"multibyte password over bcrypt limit", auth.RegisterInput{FullName: "X", Email: "x@example.com", Password: strings.Repeat("ä", 40), Role: "Seeker"}, apperr.KindInvalid},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.in)
			assert.True(t, apperr.Is(err, tc.kind), "got %v", err)
		})
	}
}

func TestRegister_ValidationMessages(t *testing.T) {
	svc, db := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, auth.RegisterInput{FullName: "X", Email: "x@example.com", Password: strings.Repeat("p", 73), Role: "Seeker"})
	assert.Equal(t, "password is too long", apperr.Message(err))

	_, err = svc.Register(ctx, register("a@example.com", "Admin"))
	assert.Equal(t, "invalid role, must be one of: Seeker, Employer", apperr.Message(err))

	_, err = svc.Register(ctx, register("nope", "Seeker"))
	assert.Equal(t, "a valid email is required", apperr.Message(err))

	n, _ := db.Users().Count(ctx)
	assert.Zero(t, n)

	sess, err := svc.Register(ctx, auth.RegisterInput{FullName: "X", Email: "x@example.com", Password: strings.Repeat("p", 72), Role: "Seeker"})
	require.NoError(t, err, "72 bytes is the largest accepted password")
	assert.NotEmpty(t, sess.Token)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, db := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, register("dup@example.com", "Seeker"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, register("DUP@example.com", "Employer"))
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, "user with this email already exists", apperr.Message(err))

	n, _ := db.Users().Count(ctx)
	assert.Equal(t, int64(1), n)
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	svc, db := newService()
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Register(ctx, register("race@example.com", "Seeker"))
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, apperr.Is(err, apperr.KindConflict), "got %v", err)
	}
	assert.Equal(t, 1, ok)
	n, _ := db.Users().Count(ctx)
	assert.Equal(t, int64(1), n)
}

func TestLogin(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	_, err := svc.Register(ctx, register("login@example.com", "Seeker"))
	require.NoError(t, err)

	sess, err := svc.Login(ctx, "LOGIN@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", sess.User.Email)

	_, wrongPw := svc.Login(ctx, "login@example.com", "wrong-password")
	_, unknown := svc.Login(ctx, "ghost@example.com", "password123")
	for _, err := range []error{wrongPw, unknown} {
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, "invalid email or password", apperr.Message(err))
	}
}

func TestMe(t *testing.T) {
	svc, db := newService()
	ctx := context.Background()
	id := db.SeedUser("Mia", "mia@example.com", auth.RoleSeeker)

	v, err := svc.Me(ctx, id.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Mia", v.FullName)

	_, err = svc.Me(ctx, 999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
