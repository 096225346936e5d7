package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"news-reader/internal/domain"
)

type fakeProvider struct {
	mu       sync.Mutex
	articles []domain.Article
	err      error
	calls    int
	onFetch  func()
}

func (p *fakeProvider) Name() string { return "fake" }

func (p *fakeProvider) FetchArticles(ctx context.Context) ([]domain.Article, error) {
	p.mu.Lock()
	p.calls++
	p.mu.Unlock()
	if p.onFetch != nil {
		p.onFetch()
	}
	return p.articles, p.err
}

func (p *fakeProvider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

type fakeAccounts struct {
	mu      sync.Mutex
	byEmail map[string]*domain.Account
	creates int
	gets    int
	err     error

	// Hooks run before the call, outside the lock.
	onGetByEmail func()
	onCreate     func()
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byEmail: make(map[string]*domain.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, a *domain.Account) error {
	if f.onCreate != nil {
		f.onCreate()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byEmail[a.Email]; ok {
		return domain.ErrAccountAlreadyExists
	}
	copied := *a
	f.byEmail[a.Email] = &copied
	return nil
}

func (f *fakeAccounts) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	f.mu.Lock()
	f.gets++
	hook := f.onGetByEmail
	f.mu.Unlock()
	if hook != nil {
		hook()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	a, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccounts) Gets() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gets
}

func (f *fakeAccounts) GetByUID(_ context.Context, uid string) (*domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byEmail {
		if a.UID == uid {
			copied := *a
			return &copied, nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (f *fakeAccounts) UpdatePassword(_ context.Context, email, hash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byEmail[email]
	if !ok {
		return domain.ErrAccountNotFound
	}
	a.PasswordHash = hash
	return nil
}

type fakeProfiles struct {
	mu       sync.Mutex
	byUID    map[string]*domain.Profile
	dniCalls []string
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byUID: make(map[string]*domain.Profile)}
}

func (f *fakeProfiles) Get(_ context.Context, uid string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.byUID[uid]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p *domain.Profile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	copied := *p
	f.byUID[p.UID] = &copied
	return nil
}

func (f *fakeProfiles) ExistsByDNI(_ context.Context, dni, excludeUID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dniCalls = append(f.dniCalls, dni)
	for uid, p := range f.byUID {
		if p.DNI == dni && uid != excludeUID {
			return true, nil
		}
	}
	return false, nil
}

type fakeResetCodes struct {
	mu      sync.Mutex
	codes   []domain.ResetCode
	deleted int

	onGetLatest func()
}

func (f *fakeResetCodes) Store(_ context.Context, c *domain.ResetCode) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c.ID = len(f.codes) + 1
	f.codes = append(f.codes, *c)
	return nil
}

func (f *fakeResetCodes) GetLatestByEmail(_ context.Context, email string) (*domain.ResetCode, error) {
	if f.onGetLatest != nil {
		f.onGetLatest()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.codes) - 1; i >= 0; i-- {
		if f.codes[i].Email == email {
			c := f.codes[i]
			return &c, nil
		}
	}
	return nil, domain.ErrResetCodeNotFound
}

func (f *fakeResetCodes) DeleteByEmail(_ context.Context, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.codes[:0]
	for _, c := range f.codes {
		if c.Email != email {
			kept = append(kept, c)
		} else {
			f.deleted++
		}
	}
	f.codes = kept
	return nil
}

type sentEmail struct {
	to, subject, body string
}

type fakeEmail struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (f *fakeEmail) SendEmail(_ context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentEmail{to, subject, body})
	return nil
}

// holdFirst parks the first caller of wait until open is called. Later
// callers pass straight through.
type holdFirst struct {
	taken    atomic.Bool
	entered  chan struct{}
	release  chan struct{}
	openOnce sync.Once
}

func newHoldFirst(t *testing.T) *holdFirst {
	h := &holdFirst{entered: make(chan struct{}), release: make(chan struct{})}
	t.Cleanup(h.open)
	return h
}

func (h *holdFirst) wait() {
	if h.taken.CompareAndSwap(false, true) {
		close(h.entered)
		<-h.release
	}
}

func (h *holdFirst) open() {
	h.openOnce.Do(func() { close(h.release) })
}
