package auth

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expeditoe/backend/internal/logging"
	"github.com/expeditoe/backend/internal/user"
)

// fakeUserStore is an in-memory UserStore with the same semantics as
// user.Repository: lowercased e-mail lookups, sentinel errors, and reset
// columns cleared together on ResetPassword.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*user.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*user.User)}
}

func (f *fakeUserStore) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	email := strings.ToLower(params.Email)
	for _, u := range f.users {
		if u.Email == email {
			return nil, user.ErrDuplicateEmail
		}
	}

	u := &user.User{
		ID:           uuid.New(),
		Name:         params.Name,
		Email:        email,
		Username:     params.Username,
		PasswordHash: params.PasswordHash,
	}
	f.users[u.ID] = u
	return copyUser(u), nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == strings.ToLower(email) {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) GetByResetToken(ctx context.Context, token string) (*user.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token {
			return copyUser(u), nil
		}
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserStore) SetResetToken(ctx context.Context, userID uuid.UUID, token string, issuedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetToken = &token
	u.ResetTokenCreatedAt = &issuedAt
	return nil
}

func (f *fakeUserStore) ClearResetToken(ctx context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.ResetToken = nil
	u.ResetTokenCreatedAt = nil
	return nil
}

func (f *fakeUserStore) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

func (f *fakeUserStore) ResetPassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.users[userID]
	if !ok {
		return user.ErrNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenCreatedAt = nil
	return nil
}

func (f *fakeUserStore) get(id uuid.UUID) *user.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyUser(f.users[id])
}

func copyUser(u *user.User) *user.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

type fakeEmailService struct {
	mu     sync.Mutex
	sent   int
	logger *logging.Logger
	done   chan struct{}
}

func (f *fakeEmailService) SendPasswordResetEmail(ctx context.Context, toEmail, name, code string) error {
	f.mu.Lock()
	f.sent++
	f.logger = logging.GetLoggerFromContext(ctx)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
	return nil
}

func newTestService(t *testing.T, store *fakeUserStore) *Service {
	t.Helper()

	tokens, err := NewJWTService(testSecret)
	require.NoError(t, err)

	return NewService(store, tokens, &fakeEmailService{}, logging.NewLogger(true), 0)
}

func registerTestUser(t *testing.T, svc *Service, email, password string) *user.User {
	t.Helper()

	u, _, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Ada Bookman",
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
	return u
}

func TestRegister(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)

	u, token, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Ada Bookman",
		Email:    "Ada@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, "approved", u.Status())
	assert.NotEqual(t, "secret1", u.PasswordHash)

	claims, err := svc.tokens.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Equal(t, "Ada Bookman", claims.Name)
	assert.Nil(t, claims.ExpiresAt)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	registerTestUser(t, svc, "ada@example.com", "secret1")

	_, _, err := svc.Register(context.Background(), RegisterParams{
		Name:     "Other",
		Email:    "ADA@example.com",
		Password: "different",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestRegister_Validation(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore())
	ctx := context.Background()

	_, _, err := svc.Register(ctx, RegisterParams{Name: "A", Password: "p"})
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, _, err = svc.Register(ctx, RegisterParams{Name: "A", Email: "not-an-email", Password: "p"})
	assert.ErrorIs(t, err, ErrInvalidEmailFormat)

	_, _, err = svc.Register(ctx, RegisterParams{Name: "A", Email: "a@b.com"})
	assert.ErrorIs(t, err, ErrPasswordRequired)

	_, _, err = svc.Register(ctx, RegisterParams{Email: "a@b.com", Password: "p"})
	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestLogin(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	registered := registerTestUser(t, svc, "ada@example.com", "secret1")

	u, token, err := svc.Login(context.Background(), "Ada@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)
	assert.NotEmpty(t, token)
}

func TestLogin_CollapsesFailureModes(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	registerTestUser(t, svc, "ada@example.com", "secret1")

	// Wrong password and unknown account are indistinguishable.
	_, _, wrongPassword := svc.Login(context.Background(), "ada@example.com", "nope")
	_, _, unknownEmail := svc.Login(context.Background(), "ghost@example.com", "secret1")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestRequestPasswordReset(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt }

	registered := registerTestUser(t, svc, "ada@example.com", "secret1")

	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))

	stored := store.get(registered.ID)
	require.NotNil(t, stored.ResetToken)
	assert.Regexp(t, regexp.MustCompile(`^[1-9]\d{5}$`), *stored.ResetToken)
	require.NotNil(t, stored.ResetTokenCreatedAt)
	assert.Equal(t, issuedAt, *stored.ResetTokenCreatedAt)
}

func TestRequestPasswordReset_EmailSendUsesServiceLogger(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	tokens, err := NewJWTService(testSecret)
	require.NoError(t, err)
	emails := &fakeEmailService{done: make(chan struct{}, 1)}
	logger := logging.NewLogger(true)
	svc := NewService(store, tokens, emails, logger, 0)

	registerTestUser(t, svc, "ada@example.com", "secret1")
	require.NoError(t, svc.RequestPasswordReset(context.Background(), "ada@example.com"))

	select {
	case <-emails.done:
	case <-time.After(time.Second):
		t.Fatal("password reset email was never sent")
	}

	// The background send runs with the service logger, not an ad hoc one.
	emails.mu.Lock()
	defer emails.mu.Unlock()
	assert.Same(t, logger, emails.logger)
}

func TestRequestPasswordReset_UnknownEmailSucceeds(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore())
	assert.NoError(t, svc.RequestPasswordReset(context.Background(), "ghost@example.com"))
}

func TestValidateResetLink_Window(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	registered := registerTestUser(t, svc, "ada@example.com", "secret1")

	cases := []struct {
		name    string
		elapsed time.Duration
		expired bool
	}{
		{"fresh", time.Minute, false},
		{"exactly 120 minutes", 120 * time.Minute, false},
		{"rounds down to 120", 120*time.Minute + 29*time.Second, false},
		{"121 minutes", 121 * time.Minute, true},
		{"days later", 48 * time.Hour, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, store.SetResetToken(context.Background(), registered.ID, "123456", issuedAt))
			svc.now = func() time.Time { return issuedAt.Add(tc.elapsed) }

			identity, err := svc.ValidateResetLink(context.Background(), "123456")
			if tc.expired {
				assert.ErrorIs(t, err, ErrLinkExpired)

				// An expired code is nulled, not left on the row.
				stored := store.get(registered.ID)
				assert.Nil(t, stored.ResetToken)
				assert.Nil(t, stored.ResetTokenCreatedAt)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID.String(), identity.ID)
			assert.Equal(t, "Ada Bookman", identity.Name)
		})
	}
}

func TestValidateResetLink_UnknownCode(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeUserStore())

	_, err := svc.ValidateResetLink(context.Background(), "999999")
	assert.ErrorIs(t, err, ErrInvalidResetToken)

	_, err = svc.ValidateResetLink(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPassword_ConsumesCode(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt.Add(time.Minute) }

	registered := registerTestUser(t, svc, "ada@example.com", "secret1")
	require.NoError(t, store.SetResetToken(context.Background(), registered.ID, "123456", issuedAt))

	require.NoError(t, svc.ResetPassword(context.Background(), "123456", "brand-new-pass"))

	stored := store.get(registered.ID)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenCreatedAt)

	// Old password no longer works, the new one does.
	_, _, err := svc.Login(context.Background(), "ada@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.Login(context.Background(), "ada@example.com", "brand-new-pass")
	assert.NoError(t, err)

	// The code was consumed; replaying it fails.
	err = svc.ResetPassword(context.Background(), "123456", "another-pass")
	assert.ErrorIs(t, err, ErrInvalidResetToken)
}

func TestResetPassword_ExpiredCode(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issuedAt.Add(121 * time.Minute) }

	registered := registerTestUser(t, svc, "ada@example.com", "secret1")
	require.NoError(t, store.SetResetToken(context.Background(), registered.ID, "123456", issuedAt))

	err := svc.ResetPassword(context.Background(), "123456", "brand-new-pass")
	assert.ErrorIs(t, err, ErrLinkExpired)

	// The stale hash is untouched, but the dead code is cleared.
	_, _, err = svc.Login(context.Background(), "ada@example.com", "secret1")
	assert.NoError(t, err)

	stored := store.get(registered.ID)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenCreatedAt)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	registered := registerTestUser(t, svc, "ada@example.com", "secret1")

	identity := Identity{ID: registered.ID, Email: registered.Email, Name: registered.Name}

	require.NoError(t, svc.ChangePassword(context.Background(), identity, "secret1", "rotated-pass"))

	_, _, err := svc.Login(context.Background(), "ada@example.com", "rotated-pass")
	assert.NoError(t, err)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	t.Parallel()

	store := newFakeUserStore()
	svc := newTestService(t, store)
	registered := registerTestUser(t, svc, "ada@example.com", "secret1")
	before := store.get(registered.ID).PasswordHash

	identity := Identity{ID: registered.ID, Email: registered.Email, Name: registered.Name}

	err := svc.ChangePassword(context.Background(), identity, "wrong-old", "rotated-pass")
	assert.ErrorIs(t, err, ErrInvalidOldPassword)

	// Hash unchanged, old password still valid.
	assert.Equal(t, before, store.get(registered.ID).PasswordHash)
	_, _, err = svc.Login(context.Background(), "ada@example.com", "secret1")
	assert.NoError(t, err)
}
