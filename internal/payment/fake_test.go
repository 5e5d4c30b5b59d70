// AngelaMos | 2026
// fake_test.go

package payment

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Taslimapopi/lifelog-server/internal/core"
)

type fakeProvider struct {
	mu       sync.Mutex
	created  []CheckoutParams
	sessions map[string]*Session
	err      error
}

func newFakeProvider(sessions ...*Session) *fakeProvider {
	f := &fakeProvider{sessions: make(map[string]*Session)}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeProvider) CreateSession(_ context.Context, p CheckoutParams) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, p)
	return &Session{ID: "cs_test", URL: "https://checkout.stripe.com/c/pay/cs_test"}, nil
}

func (f *fakeProvider) GetSession(_ context.Context, id string) (*Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	s, ok := f.sessions[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return s, nil
}

type fakeLedger struct {
	mu   sync.Mutex
	rows map[string]Payment
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{rows: make(map[string]Payment)}
}

func (f *fakeLedger) Record(_ context.Context, p *Payment) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if row, ok := f.rows[p.SessionID]; ok {
		row.Granted = row.Granted || p.Granted
		f.rows[p.SessionID] = row
		return false, nil
	}
	p.ID = primitive.NewObjectID()
	f.rows[p.SessionID] = *p
	return true, nil
}

func (f *fakeLedger) GetBySession(_ context.Context, sessionID string) (*Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.rows[sessionID]; ok {
		return &p, nil
	}
	return nil, core.ErrNotFound
}

func (f *fakeLedger) EnsureIndexes(context.Context) error { return nil }

type fakeUsers struct {
	mu      sync.Mutex
	premium map[string]bool
	grants  int
}

func newFakeUsers(emails ...string) *fakeUsers {
	f := &fakeUsers{premium: make(map[string]bool)}
	for _, e := range emails {
		f.premium[e] = false
	}
	return f
}

func (f *fakeUsers) GrantPremium(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.grants++
	if _, ok := f.premium[email]; !ok {
		return false, nil
	}
	f.premium[email] = true
	return true, nil
}

func (f *fakeUsers) add(email string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.premium[email] = false
}

func (f *fakeUsers) isPremium(email string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.premium[email]
}
