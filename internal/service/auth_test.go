package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/avaldez/project-tracker/internal/apperror"
	"github.com/avaldez/project-tracker/internal/auth"
	"github.com/avaldez/project-tracker/internal/model"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// A hand-written fake (not a mock framework) keeps these tests easy to read.
// It mimics the sqlite repo's conflict behaviour: a Create that loses the
// oauth_id race loads the winner's record instead of inserting a duplicate.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*model.User
	byOAuth map[string]*model.User
	nextID  int
	// set to a non-nil error to simulate a database failure
	findErr   error
	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*model.User),
		byOAuth: make(map[string]*model.User),
	}
}

func (f *fakeUserRepo) FindByOAuthID(_ context.Context, oauthID string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.byOAuth[oauthID]
	if !ok {
		return nil, apperror.NotFound("user", oauthID)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	if existing, ok := f.byOAuth[user.OAuthID]; ok {
		// Conflict: the other login won. Hand back the canonical record.
		*user = *existing
		return nil
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	user.Created = time.Now()
	copied := *user
	f.byID[user.ID] = &copied
	f.byOAuth[user.OAuthID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestAuthService(repo *fakeUserRepo) *AuthService {
	return NewAuthService(repo, time.Second, testLogger())
}

// =========================================================================
// RESOLVE TESTS
// =========================================================================

func TestResolve_FirstLoginCreatesUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	profile := &auth.Profile{Subject: "g-123", DisplayName: "Ada"}

	user, err := svc.Resolve(context.Background(), profile)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if user.ID == "" {
		t.Error("Resolve() returned user without store-assigned ID")
	}
	if user.Username != "Ada" {
		t.Errorf("Username = %q, want %q", user.Username, "Ada")
	}
	if user.OAuthID != "g-123" {
		t.Errorf("OAuthID = %q, want %q", user.OAuthID, "g-123")
	}
	if user.OAuthProvider != "Google" {
		t.Errorf("OAuthProvider = %q, want %q", user.OAuthProvider, "Google")
	}
	if user.Created.IsZero() {
		t.Error("Resolve() did not set Created")
	}
	if got := repo.count(); got != 1 {
		t.Errorf("user count = %d, want 1", got)
	}
}

func TestResolve_RepeatLoginReturnsSameUserUnchanged(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	first, err := svc.Resolve(context.Background(), &auth.Profile{Subject: "g-123", DisplayName: "Ada"})
	if err != nil {
		t.Fatalf("first Resolve() error = %v", err)
	}

	// Second login with a changed display name: the stored username must
	// NOT be re-synced.
	second, err := svc.Resolve(context.Background(), &auth.Profile{Subject: "g-123", DisplayName: "Ada Lovelace"})
	if err != nil {
		t.Fatalf("second Resolve() error = %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("second Resolve() ID = %q, want %q", second.ID, first.ID)
	}
	if second.Username != "Ada" {
		t.Errorf("Username = %q, want %q (no field sync on repeat login)", second.Username, "Ada")
	}
	if got := repo.count(); got != 1 {
		t.Errorf("user count = %d, want 1 (no duplicate on repeat login)", got)
	}
}

func TestResolve_IncompleteProfile(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	tests := []struct {
		name    string
		profile *auth.Profile
	}{
		{"nil profile", nil},
		{"missing subject", &auth.Profile{DisplayName: "Ada"}},
		{"missing display name", &auth.Profile{Subject: "g-123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tt.profile)
			if !errors.Is(err, apperror.ErrProfileIncomplete) {
				t.Errorf("Resolve() error = %v, want ErrProfileIncomplete", err)
			}
		})
	}

	if got := repo.count(); got != 0 {
		t.Errorf("user count = %d, want 0 (no partial users)", got)
	}
}

func TestResolve_LookupFailureIsStoreUnavailable(t *testing.T) {
	repo := newFakeUserRepo()
	repo.findErr = errors.New("connection refused")
	svc := newTestAuthService(repo)

	_, err := svc.Resolve(context.Background(), &auth.Profile{Subject: "g-123", DisplayName: "Ada"})
	if !errors.Is(err, apperror.ErrStoreUnavailable) {
		t.Fatalf("Resolve() error = %v, want ErrStoreUnavailable", err)
	}
	// A lookup failure must never fall through to Create.
	if got := repo.count(); got != 0 {
		t.Errorf("user count = %d, want 0 (no create on degraded store)", got)
	}
}

func TestResolve_CreateFailureIsStoreUnavailable(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = errors.New("disk full")
	svc := newTestAuthService(repo)

	_, err := svc.Resolve(context.Background(), &auth.Profile{Subject: "g-123", DisplayName: "Ada"})
	if !errors.Is(err, apperror.ErrStoreUnavailable) {
		t.Fatalf("Resolve() error = %v, want ErrStoreUnavailable", err)
	}
}

func TestResolve_ConcurrentFirstLoginsCreateOneUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestAuthService(repo)

	const logins = 8
	var wg sync.WaitGroup
	ids := make([]string, logins)
	errs := make([]error, logins)

	for i := 0; i < logins; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			user, err := svc.Resolve(context.Background(), &auth.Profile{Subject: "g-race", DisplayName: "Ada"})
			if err != nil {
				errs[i] = err
				return
			}
			ids[i] = user.ID
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("Resolve() #%d error = %v", i, err)
		}
	}

	if got := repo.count(); got != 1 {
		t.Fatalf("user count = %d, want 1 after concurrent first logins", got)
	}
	for i := 1; i < logins; i++ {
		if ids[i] != ids[0] {
			t.Errorf("login #%d resolved to %q, login #0 to %q — want the same user", i, ids[i], ids[0])
		}
	}
}
