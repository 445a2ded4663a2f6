package profile

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DHJariwala/is601-user-management/internal/domain"
)

/*
Shared audit capture
*/

type auditEntry struct {
	action string
	fields map[string]string
}

type auditLog struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (a *auditLog) record(action string, fields map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	cp := make(map[string]string, len(fields))
	for k, v := range fields {
		cp[k] = v
	}
	a.entries = append(a.entries, auditEntry{action: action, fields: cp})
}

func (a *auditLog) last(action string) (auditEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i := len(a.entries) - 1; i >= 0; i-- {
		if a.entries[i].action == action {
			return a.entries[i], true
		}
	}
	return auditEntry{}, false
}

/*
Fakes for ports
*/

type fakeUserRepo struct {
	mu   sync.Mutex
	byID map[string]domain.User

	// injected errors (if set, method returns error)
	getErr    error
	getErrFor int // number of times getErr fires before clearing; 0 = always
	saveErr   error
	createErr error

	saveCalls int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[string]domain.User{}}
}

func (f *fakeUserRepo) put(u domain.User) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.Version == 0 {
		u.Version = 1
	}
	f.byID[u.ID] = u
}

func (f *fakeUserRepo) get(id string) domain.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.byID[id]
}

func (f *fakeUserRepo) takeGetErr() error {
	if f.getErr == nil {
		return nil
	}
	err := f.getErr
	if f.getErrFor > 0 {
		f.getErrFor--
		if f.getErrFor == 0 {
			f.getErr = nil
		}
	}
	return err
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeGetErr(); err != nil {
		return domain.User{}, err
	}
	u, ok := f.byID[id]
	if !ok || u.IsDeleted() {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByIDIncludingDeleted(ctx context.Context, id string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	u, ok := f.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.takeGetErr(); err != nil {
		return domain.User{}, err
	}
	email = strings.ToLower(email)
	for _, u := range f.byID {
		if !u.IsDeleted() && strings.ToLower(u.Email) == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (f *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.createErr != nil {
		return domain.User{}, f.createErr
	}
	for _, existing := range f.byID {
		if !existing.IsDeleted() && strings.EqualFold(existing.Email, u.Email) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	u.Version = 1
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) Save(ctx context.Context, u domain.User, expectedVersion int64) (domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.saveCalls++
	if f.saveErr != nil {
		return domain.User{}, f.saveErr
	}
	stored, ok := f.byID[u.ID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	if stored.Version != expectedVersion {
		return domain.User{}, domain.ErrVersionConflict()
	}
	u.Version = expectedVersion + 1
	f.byID[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context, offset, limit int) ([]domain.User, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var live []domain.User
	for _, u := range f.byID {
		if !u.IsDeleted() {
			live = append(live, u)
		}
	}
	total := len(live)
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return live[offset:end], total, nil
}

type fakePublisher struct {
	mu sync.Mutex

	changed     []ProfileChangedEvent
	verifyMails []VerifyEmailEvent

	changedErr error
	verifyErr  error
}

func (f *fakePublisher) PublishProfileChanged(ctx context.Context, evt ProfileChangedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.changedErr != nil {
		return f.changedErr
	}
	f.changed = append(f.changed, evt)
	return nil
}

func (f *fakePublisher) PublishVerifyEmail(ctx context.Context, evt VerifyEmailEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.verifyErr != nil {
		return f.verifyErr
	}
	f.verifyMails = append(f.verifyMails, evt)
	return nil
}

type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }
func (fakeHasher) Compare(hash, password string) error {
	if hash == "hashed:"+password {
		return nil
	}
	return domain.ErrForbidden()
}

/*
Construction helpers
*/

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakePublisher, *auditLog) {
	t.Helper()

	users := newFakeUserRepo()
	pub := &fakePublisher{}
	audits := &auditLog{}

	svc := NewService(users, fakeHasher{}, pub, Config{
		VerifyEmailBaseURL: "https://app.example.com/verify-email/",
	}).WithAudit(audits.record)

	return svc, users, pub, audits
}

func seedUser(users *fakeUserRepo, id, email, role string, state domain.State) domain.User {
	u := domain.User{
		ID:        id,
		Email:     email,
		Role:      role,
		State:     state,
		CreatedAt: time.Now().Add(-time.Hour),
		UpdatedAt: time.Now().Add(-time.Hour),
		Version:   1,
	}
	if state == domain.StatePending {
		u.VerifyToken = "token-" + id
	}
	users.put(u)
	return u
}

/*
Assertion helpers
*/

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	if !domain.Is(err, code) {
		t.Fatalf("expected domain code %q, got %v", code, err)
	}
}

func requireAuditAction(t *testing.T, audits *auditLog, action string) auditEntry {
	t.Helper()
	e, ok := audits.last(action)
	if !ok {
		t.Fatalf("no audit entry for action %q", action)
	}
	return e
}

func requireAuditField(t *testing.T, e auditEntry, key, want string) {
	t.Helper()
	if got := e.fields[key]; got != want {
		t.Fatalf("audit field %q = %q, want %q", key, got, want)
	}
}
