package mockbackend_test

import (
	"context"
	"io"
	"net"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/ligavocal/internal/api"
	"github.com/goserg/ligavocal/internal/config"
	"github.com/goserg/ligavocal/internal/credentials/mem"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
	"github.com/goserg/ligavocal/internal/mockbackend"
	"github.com/goserg/ligavocal/internal/view"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testConfig() config.MockBackend {
	return config.MockBackend{
		TokenSecret: "test-secret",
		Expiration:  "1h",
		Users: []config.Vocal{
			{ID: 7, Name: "Ana", Surname: "Quispe", Email: "vocal@liga.bo", Password: "vocal123", Role: "vocal"},
			{ID: 8, Name: "Luis", Surname: "Mamani", Email: "otro@liga.bo", Password: "otro123", Role: "vocal"},
			{ID: 1, Name: "Admin", Email: "admin@liga.bo", Password: "admin123", Role: "admin"},
		},
	}
}

// start runs a fresh backend and returns its api base URL.
func start(t *testing.T) string {
	t.Helper()
	l := quietLogger()
	srv, err := mockbackend.New(testConfig(), l)
	require.NoError(t, err)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = srv.Listener(ln) }()
	t.Cleanup(func() { _ = srv.Shutdown() })
	return "http://" + ln.Addr().String() + "/api"
}

func newClient(baseURL string) *api.Client {
	l := quietLogger()
	return api.New(gateway.New(gateway.Config{BaseURL: baseURL}, mem.New(), l), l)
}

func login(t *testing.T, c *api.Client, email, password string) {
	t.Helper()
	_, err := c.Login(context.Background(), email, password)
	require.NoError(t, err)
}

func acta() []domain.EvidenceImage {
	return []domain.EvidenceImage{
		{Side: domain.ActaFront, FileName: "frente.jpg", Data: []byte("\xff\xd8front")},
		{Side: domain.ActaBack, FileName: "dorso.jpg", Data: []byte("\xff\xd8back")},
	}
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	base := start(t)

	t.Run("vocal", func(t *testing.T) {
		c := newClient(base)
		session, err := c.Login(ctx, "vocal@liga.bo", "vocal123")
		require.NoError(t, err)
		assert.Equal(t, int64(7), session.User.ID)
		assert.Equal(t, "Ana Quispe", session.User.DisplayName())
	})

	t.Run("admin is refused", func(t *testing.T) {
		c := newClient(base)
		_, err := c.Login(ctx, "admin@liga.bo", "admin123")
		assert.ErrorIs(t, err, api.ErrUnauthorizedRole)
		_, found, err := c.Session(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("wrong password", func(t *testing.T) {
		c := newClient(base)
		_, err := c.Login(ctx, "vocal@liga.bo", "nope")
		assert.ErrorIs(t, err, api.ErrInvalidCredentials)
	})

	t.Run("backend down", func(t *testing.T) {
		ln, err := net.Listen("tcp", "127.0.0.1:0")
		require.NoError(t, err)
		addr := ln.Addr().String()
		require.NoError(t, ln.Close())

		c := newClient("http://" + addr + "/api")
		_, err = c.Login(ctx, "vocal@liga.bo", "vocal123")
		assert.ErrorIs(t, err, api.ErrTransport)
		assert.NotErrorIs(t, err, api.ErrInvalidCredentials)
	})

	t.Run("forged token", func(t *testing.T) {
		store := mem.New()
		require.NoError(t, store.Save(ctx, domain.Session{Token: "not-a-jwt", User: domain.User{ID: 7, Role: "vocal"}}))
		l := quietLogger()
		c := api.New(gateway.New(gateway.Config{BaseURL: base}, store, l), l)

		_, err := c.ListActiveChampionships(ctx)
		assert.Equal(t, 401, gateway.StatusOf(err))
		_, found, err := c.Session(ctx)
		require.NoError(t, err)
		assert.False(t, found)
	})
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()
	c := newClient(start(t))
	login(t, c, "vocal@liga.bo", "vocal123")

	championships, err := c.ListActiveChampionships(ctx)
	require.NoError(t, err)
	require.Len(t, championships, 3)

	browsable := 0
	for _, ch := range championships {
		if ch.CanBrowseMatches(ch.StartDate.AddDate(0, 0, 7)) {
			browsable++
		}
	}
	assert.Equal(t, 1, browsable)

	matches, err := c.ListMatches(ctx, mockbackend.SeedCurrentChampionship)
	require.NoError(t, err)
	require.Len(t, matches, 4)

	v := view.Derive(matches, view.NoFilter)
	assert.Equal(t, mockbackend.SeedInPlayMatch, v.Visible[0].ID)
	assert.Equal(t, domain.StateFinished, v.Visible[3].State)
	assert.Equal(t, 2, v.Counts.ByState[domain.StatePending])

	m, err := c.GetMatchDetail(ctx, mockbackend.SeedPendingMatch)
	require.NoError(t, err)
	assert.Len(t, m.Referees, 2)
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, m.ScheduledDate)
	assert.Equal(t, "15:30", m.ScheduledTime)
	assert.True(t, m.IsEligibleForRegistration())

	_, err = c.GetMatchDetail(ctx, 9999)
	assert.Equal(t, 404, gateway.StatusOf(err))
}

func TestRegisterMatch(t *testing.T) {
	ctx := context.Background()
	c := newClient(start(t))
	login(t, c, "vocal@liga.bo", "vocal123")

	m, err := c.GetMatchDetail(ctx, mockbackend.SeedPendingMatch)
	require.NoError(t, err)
	require.NoError(t, c.StartMatch(ctx, m))

	m, err = c.GetMatchDetail(ctx, m.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StateInPlay, m.State)

	require.NoError(t, c.UpdateScore(ctx, m, domain.Score{Local: 1, Visitor: 1}))
	require.NoError(t, c.UpdateSchedule(ctx, m.ID, "2030-05-01", "19:45"))

	notImages := acta()
	notImages[1].ContentType = "text/plain"
	_, err = c.UploadMatchEvidence(ctx, m.ID, notImages)
	assert.ErrorIs(t, err, api.ErrEvidenceUpload)
	assert.Equal(t, 400, gateway.StatusOf(err))

	receipt, err := c.UploadMatchEvidence(ctx, m.ID, acta())
	require.NoError(t, err)
	assert.Equal(t, domain.HashEvidence(acta()[0].Data, acta()[1].Data), receipt.Hash)

	sub, err := c.NewSubmission(ctx, domain.Score{Local: 2, Visitor: 1}, mockbackend.SeedReferee, receipt)
	require.NoError(t, err)
	require.NoError(t, c.FinalizeMatch(ctx, m, sub))

	m, err = c.GetMatchDetail(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StateFinished, m.State)
	assert.True(t, m.AlreadyRegistered)
	assert.Equal(t, 2, *m.LocalGoals)
	assert.Equal(t, "2030-05-01", m.ScheduledDate)

	assert.ErrorIs(t, c.UpdateScore(ctx, m, domain.Score{}), api.ErrInvalidState)

	page, err := c.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, page.Entries, 1)
	assert.Equal(t, m.ID, page.Entries[0].MatchID)
	assert.Equal(t, receipt.Hash, page.Entries[0].ActaHash)
	assert.Equal(t, 1, page.TotalPages)

	stats, err := c.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Registered)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.InPlay)

	report, err := c.VerifyIntegrity(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, report.Valid)
	assert.Equal(t, receipt.Hash, report.Hash)
}

func TestServerStateMachine(t *testing.T) {
	ctx := context.Background()
	base := start(t)

	// Two vocals with their own clients: the second one holds a stale copy
	// of the match and its client has no local finalize record.
	first := newClient(base)
	login(t, first, "vocal@liga.bo", "vocal123")
	second := newClient(base)
	login(t, second, "otro@liga.bo", "otro123")

	m, err := first.GetMatchDetail(ctx, mockbackend.SeedInPlayMatch)
	require.NoError(t, err)
	stale := m

	receipt, err := first.UploadMatchEvidence(ctx, m.ID, acta())
	require.NoError(t, err)
	sub, err := first.NewSubmission(ctx, domain.Score{Local: 0, Visitor: 3}, mockbackend.SeedReferee, receipt)
	require.NoError(t, err)
	require.NoError(t, first.FinalizeMatch(ctx, m, sub))

	err = second.UpdateScore(ctx, stale, domain.Score{Local: 1})
	assert.Equal(t, 409, gateway.StatusOf(err))

	pending, err := second.GetMatchDetail(ctx, mockbackend.SeedNoRefMatch)
	require.NoError(t, err)
	err = second.UpdateScore(ctx, domain.Match{ID: pending.ID, State: domain.StateInPlay}, domain.Score{Local: 1})
	assert.Equal(t, 409, gateway.StatusOf(err))

	// Finalizing without an uploaded acta is refused by the server too.
	require.NoError(t, second.StartMatch(ctx, pending))
	fake := domain.EvidenceReceipt{MatchID: pending.ID, Sides: []domain.ActaSide{domain.ActaFront, domain.ActaBack}, Hash: "x"}
	sub, err = second.NewSubmission(ctx, domain.Score{}, mockbackend.SeedReferee, fake)
	require.NoError(t, err)
	pending.State = domain.StateInPlay
	pending.Referees = nil
	err = second.FinalizeMatch(ctx, pending, sub)
	assert.Equal(t, 400, gateway.StatusOf(err))
	assert.False(t, second.Finalized(pending.ID))

	page, err := second.History(ctx, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, page.Entries)
}
