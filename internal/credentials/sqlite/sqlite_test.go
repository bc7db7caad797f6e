package sqlite

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/ligavocal/internal/credentials"
	"github.com/goserg/ligavocal/internal/domain"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	l := logrus.New()
	l.SetOutput(io.Discard)
	s, err := New(l, filepath.Join(t.TempDir(), "credentials.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var ana = domain.Session{
	Token: "token-ana",
	User: domain.User{
		ID:      7,
		Name:    "Ana",
		Surname: "Quispe",
		Email:   "vocal@liga.bo",
		Role:    domain.RoleVocal,
	},
}

func TestScoped_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t).Scope("chat-1")

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Save(ctx, ana))
	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, ana, got)

	require.NoError(t, store.Clear(ctx))
	_, ok, err = store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestScoped_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t).Scope("chat-1")

	require.NoError(t, store.Save(ctx, ana))
	other := ana
	other.Token = "token-2"
	other.User.Name = "Luis"
	require.NoError(t, store.Save(ctx, other))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, other, got)
}

func TestScoped_Isolation(t *testing.T) {
	ctx := context.Background()
	s := newStorage(t)
	a := s.Scope("a")
	b := s.Scope("b")

	require.NoError(t, a.Save(ctx, ana))
	_, ok, err := b.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Clear(ctx))
	_, ok, err = a.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestScoped_DegradedProfile(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t).Scope("chat-1")

	require.NoError(t, store.Save(ctx, ana))
	require.NoError(t, store.SetRaw(ctx, credentials.KeyUser, "{not json"))

	got, ok, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Degraded)
	assert.Equal(t, ana.Token, got.Token)
	assert.Equal(t, credentials.PlaceholderName, got.User.Name)
}

func TestScoped_SaveWithoutToken(t *testing.T) {
	store := newStorage(t).Scope("chat-1")
	err := store.Save(context.Background(), domain.Session{User: ana.User})
	assert.ErrorIs(t, err, credentials.ErrEmptyToken)
}

func TestScoped_ExpiredTokenIsDropped(t *testing.T) {
	ctx := context.Background()
	store := newStorage(t).Scope("chat-1")
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.StandardClaims{
		Subject:   "7",
		ExpiresAt: time.Now().Add(-48 * time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	expired := ana
	expired.Token = token
	require.NoError(t, store.Save(ctx, expired))

	_, ok, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	var count int
	require.NoError(t, store.storage.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM session_entries WHERE scope = ?", "chat-1").Scan(&count))
	assert.Zero(t, count)
}
