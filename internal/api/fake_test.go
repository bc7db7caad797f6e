package api

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/credentials/mem"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

type reply struct {
	body string
	err  error
}

// fakeDoer answers by request path and remembers what it was asked.
type fakeDoer struct {
	mu       sync.Mutex
	store    *mem.Store
	replies  map[string]reply
	requests []gateway.Request
}

func newFakeDoer() *fakeDoer {
	return &fakeDoer{
		store:   mem.New(),
		replies: make(map[string]reply),
	}
}

func (f *fakeDoer) on(path string, body string) {
	f.replies[path] = reply{body: body}
}

func (f *fakeDoer) fail(path string, err error) {
	f.replies[path] = reply{err: err}
}

func (f *fakeDoer) answer(req gateway.Request) (json.RawMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	r, ok := f.replies[req.Path]
	if !ok {
		return nil, &gateway.RemoteError{Status: 404, Message: "not found"}
	}
	if r.err != nil {
		return nil, r.err
	}
	return json.RawMessage(r.body), nil
}

func (f *fakeDoer) Do(ctx context.Context, req gateway.Request) (json.RawMessage, error) {
	session, ok, err := f.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || session.Token == "" {
		return nil, gateway.ErrMissingToken
	}
	return f.answer(req)
}

func (f *fakeDoer) DoAnonymous(_ context.Context, req gateway.Request) (json.RawMessage, error) {
	return f.answer(req)
}

func (f *fakeDoer) Store() credentials.Store {
	return f.store
}

func (f *fakeDoer) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeDoer) last() gateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

var vocal = domain.User{ID: 7, Name: "Ana", Surname: "Rojas", Email: "vocal@liga.bo", Role: domain.RoleVocal}

// loggedIn returns a client whose store already holds a vocal session.
func loggedIn(t *testing.T) (*Client, *fakeDoer) {
	t.Helper()
	f := newFakeDoer()
	if err := f.store.Save(context.Background(), domain.Session{Token: "tok", User: vocal}); err != nil {
		t.Fatal(err)
	}
	return New(f, quietLogger()), f
}

const okBody = `{"success":true,"message":"ok"}`
