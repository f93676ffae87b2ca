package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faqhub/knowledge-base/internal/core/domain"
)

type authFixture struct {
	repo     *stubAccountRepo
	creds    *fakeCredentials
	throttle *stubThrottle
	svc      *AuthService
	now      time.Time
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		repo:     newStubAccountRepo(),
		throttle: newStubThrottle(),
		now:      time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
	f.creds = newFakeCredentials(func() time.Time { return f.now })
	f.svc = NewAuthService(f.repo, f.creds, f.throttle, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func TestAuthService_Signup(t *testing.T) {
	f := newAuthFixture()

	s, err := f.svc.Signup(context.Background(), "alice", "  Alice@Example.com ", "Secret123")
	require.NoError(t, err)
	require.NotEmpty(t, s.Token)

	assert.Equal(t, "alice@example.com", s.Account.Email)
	assert.Equal(t, domain.RoleUser, s.Account.Role)
	assert.True(t, s.Account.Active)
	assert.Equal(t, "hashed:Secret123", f.repo.byID[s.Account.ID].PasswordHash)

	claims, err := f.creds.VerifyToken(s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Account.ID, claims.AccountID)
}

func TestAuthService_Signup_NeverSerialisesHash(t *testing.T) {
	f := newAuthFixture()

	s, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	for _, v := range []any{s.Account, s.Account.Profile()} {
		raw, err := json.Marshal(v)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "hashed:")
		assert.NotContains(t, string(raw), "Secret123")
	}
}

func TestAuthService_Signup_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()

	_, err := f.svc.Signup(context.Background(), "alice", "a@x.com", "Secret123")
	require.NoError(t, err)

	_, err = f.svc.Signup(context.Background(), "other", "a@x.com", "Secret123")
	var dke *domain.DuplicateKeyError
	require.ErrorAs(t, err, &dke)
	assert.Equal(t, "email", dke.Field)
	assert.Contains(t, err.Error(), "Duplicate email value 'a@x.com'")
}

func TestAuthService_Login(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	s, err := f.svc.Login(context.Background(), "ALICE@example.com", "Secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Token)
	assert.Equal(t, []string{"alice@example.com"}, f.throttle.resets)
}

func TestAuthService_Login_DoesNotRevealUnknownEmail(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)

	_, wrongPassword := f.svc.Login(context.Background(), "alice@example.com", "nope")
	_, unknownEmail := f.svc.Login(context.Background(), "ghost@example.com", "Secret123")

	assert.ErrorIs(t, wrongPassword, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, domain.ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
	assert.Equal(t, 1, f.throttle.fails["alice@example.com"])
	assert.Equal(t, 1, f.throttle.fails["ghost@example.com"])
}

func TestAuthService_Login_Throttled(t *testing.T) {
	f := newAuthFixture()
	f.throttle.blocked = true

	_, err := f.svc.Login(context.Background(), "alice@example.com", "Secret123")
	assert.ErrorIs(t, err, domain.ErrTooManyAttempts)
}

func TestAuthService_Login_ThrottleErrorDoesNotBlock(t *testing.T) {
	f := newAuthFixture()
	_, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	f.throttle.allowErr = errors.New("redis down")

	_, err = f.svc.Login(context.Background(), "alice@example.com", "Secret123")
	assert.NoError(t, err)
}

func TestAuthService_Login_WithoutThrottle(t *testing.T) {
	f := newAuthFixture()
	svc := NewAuthService(f.repo, f.creds, nil, zerolog.Nop())

	_, err := svc.Login(context.Background(), "ghost@example.com", "x")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthService_ChangeMyPassword(t *testing.T) {
	f := newAuthFixture()
	s, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	account := f.repo.byID[s.Account.ID]

	_, err = f.svc.ChangeMyPassword(context.Background(), account, "wrong", "Another123")
	assert.ErrorIs(t, err, domain.ErrWrongPassword)

	f.now = f.now.Add(time.Minute)
	changed, err := f.svc.ChangeMyPassword(context.Background(), account, "Secret123", "Another123")
	require.NoError(t, err)

	stored := f.repo.byID[account.ID]
	assert.Equal(t, "hashed:Another123", stored.PasswordHash)
	require.NotNil(t, stored.PasswordChangedAt)
	assert.True(t, stored.PasswordChangedAt.Equal(f.now))
	assert.NotEmpty(t, changed.Token)
}

func TestAuthService_PasswordChangeInvalidatesOlderTokens(t *testing.T) {
	f := newAuthFixture()
	resolver := NewIdentityResolver(f.creds, f.repo, zerolog.Nop())

	s, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	oldToken := s.Token

	f.now = f.now.Add(5 * time.Second)
	changed, err := f.svc.ChangeMyPassword(context.Background(), f.repo.byID[s.Account.ID], "Secret123", "Another123")
	require.NoError(t, err)

	_, err = resolver.Resolve(context.Background(), "Bearer "+oldToken, false)
	assert.ErrorIs(t, err, domain.ErrStalePassword)

	_, err = resolver.Resolve(context.Background(), "Bearer "+changed.Token, false)
	assert.NoError(t, err)
}

func TestAuthService_RecoverMe(t *testing.T) {
	f := newAuthFixture()
	s, err := f.svc.Signup(context.Background(), "alice", "alice@example.com", "Secret123")
	require.NoError(t, err)
	f.repo.byID[s.Account.ID].Active = false

	recovered, err := f.svc.RecoverMe(context.Background(), f.repo.byID[s.Account.ID])
	require.NoError(t, err)
	assert.True(t, recovered.Account.Active)
	assert.True(t, f.repo.byID[s.Account.ID].Active)
	assert.NotEmpty(t, recovered.Token)
}
