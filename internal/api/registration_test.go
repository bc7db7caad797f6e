package api

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

func inPlayMatch() domain.Match {
	return domain.Match{
		ID:              42,
		LocalTeamName:   "Bolívar",
		VisitorTeamName: "The Strongest",
		State:           domain.StateInPlay,
		Referees:        []domain.Referee{{ID: 3, Name: "Juan Pérez"}},
	}
}

func actaImages() []domain.EvidenceImage {
	return []domain.EvidenceImage{
		{Side: domain.ActaFront, Data: []byte("front")},
		{Side: domain.ActaBack, Data: []byte("back")},
	}
}

func TestStartMatch(t *testing.T) {
	ctx := context.Background()

	t.Run("pending match starts", func(t *testing.T) {
		c, f := loggedIn(t)
		f.on(apipath.StartMatch(42), okBody)
		m := inPlayMatch()
		m.State = domain.StatePending

		require.NoError(t, c.StartMatch(ctx, m))
		assert.Equal(t, "PUT", f.last().Method)
	})

	for _, state := range []domain.MatchState{domain.StateInPlay, domain.StateFinished, domain.StateCancelled, "otro"} {
		t.Run(fmt.Sprintf("refused from %s", state), func(t *testing.T) {
			c, f := loggedIn(t)
			m := inPlayMatch()
			m.State = state

			assert.ErrorIs(t, c.StartMatch(ctx, m), ErrInvalidState)
			assert.Zero(t, f.calls())
		})
	}

	t.Run("server says no", func(t *testing.T) {
		c, f := loggedIn(t)
		f.on(apipath.StartMatch(42), `{"success":false,"message":"Partido no encontrado"}`)
		m := inPlayMatch()
		m.State = domain.StatePending

		err := c.StartMatch(ctx, m)
		assert.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "Partido no encontrado")
	})
}

func TestUpdateScore(t *testing.T) {
	ctx := context.Background()

	t.Run("negative goals never reach the network", func(t *testing.T) {
		c, f := loggedIn(t)

		err := c.UpdateScore(ctx, inPlayMatch(), domain.Score{Local: -1, Visitor: 2})
		assert.ErrorIs(t, err, ErrInvalidScore)
		assert.Zero(t, f.calls())
	})

	t.Run("sends both counts", func(t *testing.T) {
		c, f := loggedIn(t)
		f.on(apipath.Score(42), okBody)

		require.NoError(t, c.UpdateScore(ctx, inPlayMatch(), domain.Score{Local: 2, Visitor: 1}))
		assert.Equal(t, scoreRequest{LocalGoals: 2, VisitorGoals: 1}, f.last().Body)
	})

	t.Run("pending match", func(t *testing.T) {
		c, _ := loggedIn(t)
		m := inPlayMatch()
		m.State = domain.StatePending

		assert.ErrorIs(t, c.UpdateScore(ctx, m, domain.Score{}), ErrInvalidState)
	})

	t.Run("without session", func(t *testing.T) {
		f := newFakeDoer()
		c := New(f, quietLogger())

		assert.ErrorIs(t, c.UpdateScore(ctx, inPlayMatch(), domain.Score{}), ErrMissingToken)
		assert.Zero(t, f.calls())
	})
}

func TestUpdateSchedule(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		date  string
		clock string
		valid bool
	}{
		{name: "valid", date: "2024-03-15", clock: "15:30", valid: true},
		{name: "bad date", date: "15/03/2024", clock: "15:30"},
		{name: "bad clock", date: "2024-03-15", clock: "3pm"},
		{name: "both empty", date: "", clock: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, f := loggedIn(t)
			f.on(apipath.Schedule(42), okBody)

			err := c.UpdateSchedule(ctx, 42, tt.date, tt.clock)
			if tt.valid {
				require.NoError(t, err)
				assert.Equal(t, scheduleRequest{Date: tt.date, Time: tt.clock}, f.last().Body)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidSchedule)
			assert.Zero(t, f.calls())
		})
	}
}

func TestFinalizeMatch(t *testing.T) {
	ctx := context.Background()

	// Only two uploaded sides together with a chosen referee may finalize.
	for images := 0; images <= 2; images++ {
		for _, refereeID := range []int64{0, 3} {
			name := fmt.Sprintf("%d images, referee %d", images, refereeID)
			t.Run(name, func(t *testing.T) {
				c, f := loggedIn(t)
				f.on(apipath.Evidence(42), `{"success":true,"data":{"hash_acta":"abc123"}}`)
				f.on(apipath.Finalize(42), okBody)
				m := inPlayMatch()

				receipt := domain.EvidenceReceipt{MatchID: 42}
				if images > 0 {
					var err error
					receipt, err = c.UploadMatchEvidence(ctx, 42, actaImages()[:images])
					if images < 2 {
						require.ErrorIs(t, err, ErrEvidenceUpload)
						receipt = domain.EvidenceReceipt{MatchID: 42, Sides: []domain.ActaSide{domain.ActaFront}}
					} else {
						require.NoError(t, err)
					}
				}
				sub, err := c.NewSubmission(ctx, domain.Score{Local: 2, Visitor: 1}, refereeID, receipt)
				require.NoError(t, err)

				err = c.FinalizeMatch(ctx, m, sub)
				if images == 2 && refereeID != 0 {
					require.NoError(t, err)
					assert.True(t, c.Finalized(42))
					assert.Equal(t, finalizeRequest{
						LocalGoals:   2,
						VisitorGoals: 1,
						RefereeID:    3,
						VocalID:      7,
						ActaHash:     "abc123",
					}, f.last().Body)
					return
				}
				assert.ErrorIs(t, err, ErrIncompleteSubmission)
				assert.False(t, c.Finalized(42))
				for _, req := range f.requests {
					assert.NotEqual(t, apipath.Finalize(42), req.Path)
				}
			})
		}
	}

	t.Run("referee not assigned", func(t *testing.T) {
		c, f := loggedIn(t)
		sub := domain.Submission{
			Score:     domain.Score{Local: 1},
			RefereeID: 99,
			VocalID:   7,
			Evidence:  domain.EvidenceReceipt{MatchID: 42, Sides: []domain.ActaSide{domain.ActaFront, domain.ActaBack}, Hash: "h"},
		}
		assert.ErrorIs(t, c.FinalizeMatch(ctx, inPlayMatch(), sub), ErrIncompleteSubmission)
		assert.Zero(t, f.calls())
	})

	t.Run("acta of another match", func(t *testing.T) {
		c, _ := loggedIn(t)
		sub := domain.Submission{
			RefereeID: 3,
			VocalID:   7,
			Evidence:  domain.EvidenceReceipt{MatchID: 41, Sides: []domain.ActaSide{domain.ActaFront, domain.ActaBack}, Hash: "h"},
		}
		assert.ErrorIs(t, c.FinalizeMatch(ctx, inPlayMatch(), sub), ErrIncompleteSubmission)
	})

	t.Run("failed finalize leaves the match open", func(t *testing.T) {
		c, f := loggedIn(t)
		f.fail(apipath.Finalize(42), &gateway.RemoteError{Status: 500, Message: "boom"})
		sub := domain.Submission{
			RefereeID: 3,
			VocalID:   7,
			Evidence:  domain.EvidenceReceipt{MatchID: 42, Sides: []domain.ActaSide{domain.ActaFront, domain.ActaBack}, Hash: "h"},
		}
		err := c.FinalizeMatch(ctx, inPlayMatch(), sub)
		assert.Equal(t, 500, gateway.StatusOf(err))
		assert.False(t, c.Finalized(42))
	})
}

func TestNoMutationAfterFinalize(t *testing.T) {
	ctx := context.Background()
	c, f := loggedIn(t)
	f.on(apipath.Evidence(42), `{"success":true}`)
	f.on(apipath.Finalize(42), okBody)
	f.on(apipath.Score(42), okBody)
	f.on(apipath.Schedule(42), okBody)
	f.on(apipath.StartMatch(42), okBody)

	m := inPlayMatch()
	receipt, err := c.UploadMatchEvidence(ctx, 42, actaImages())
	require.NoError(t, err)
	assert.Equal(t, domain.HashEvidence([]byte("front"), []byte("back")), receipt.Hash)
	sub, err := c.NewSubmission(ctx, domain.Score{Local: 0, Visitor: 0}, 3, receipt)
	require.NoError(t, err)
	require.NoError(t, c.FinalizeMatch(ctx, m, sub))
	before := f.calls()

	// A stale copy still claims the match is in play.
	assert.ErrorIs(t, c.UpdateScore(ctx, m, domain.Score{Local: 1}), ErrInvalidState)
	assert.ErrorIs(t, c.FinalizeMatch(ctx, m, sub), ErrInvalidState)
	assert.ErrorIs(t, c.UpdateSchedule(ctx, 42, "2024-03-15", "15:30"), ErrInvalidState)
	m.State = domain.StatePending
	assert.ErrorIs(t, c.StartMatch(ctx, m), ErrInvalidState)
	_, err = c.UploadMatchEvidence(ctx, 42, actaImages())
	assert.ErrorIs(t, err, ErrInvalidState)

	assert.Equal(t, before, f.calls())
}

func TestUploadMatchEvidence(t *testing.T) {
	ctx := context.Background()

	t.Run("parts go front then back", func(t *testing.T) {
		c, f := loggedIn(t)
		f.on(apipath.Evidence(42), `{"success":true,"data":{"hash":"srv"}}`)
		images := actaImages()
		images[0], images[1] = images[1], images[0]

		receipt, err := c.UploadMatchEvidence(ctx, 42, images)
		require.NoError(t, err)
		assert.Equal(t, "srv", receipt.Hash)
		assert.True(t, receipt.Complete())

		files := f.last().Files
		require.Len(t, files, 2)
		assert.Equal(t, "frente", files[0].Field)
		assert.Equal(t, "dorso", files[1].Field)
		assert.Contains(t, files[0].Name, "acta_frente_")
		assert.Equal(t, "image/jpeg", files[0].ContentType)
		assert.Equal(t, "image/jpeg", files[1].ContentType)
	})

	t.Run("image type is kept", func(t *testing.T) {
		c, f := loggedIn(t)
		f.on(apipath.Evidence(42), okBody)
		images := actaImages()
		images[1].ContentType = "image/png"

		_, err := c.UploadMatchEvidence(ctx, 42, images)
		require.NoError(t, err)
		files := f.last().Files
		require.Len(t, files, 2)
		assert.Equal(t, "image/png", files[1].ContentType)
	})

	t.Run("two fronts", func(t *testing.T) {
		c, f := loggedIn(t)
		images := []domain.EvidenceImage{
			{Side: domain.ActaFront, Data: []byte("a")},
			{Side: domain.ActaFront, Data: []byte("b")},
		}
		_, err := c.UploadMatchEvidence(ctx, 42, images)
		assert.ErrorIs(t, err, ErrEvidenceUpload)
		assert.Zero(t, f.calls())
	})

	t.Run("empty image", func(t *testing.T) {
		c, _ := loggedIn(t)
		images := actaImages()
		images[1].Data = nil
		_, err := c.UploadMatchEvidence(ctx, 42, images)
		assert.ErrorIs(t, err, ErrEvidenceUpload)
	})

	t.Run("server failure", func(t *testing.T) {
		c, f := loggedIn(t)
		f.fail(apipath.Evidence(42), &gateway.RemoteError{Status: 413, Message: "too large"})
		_, err := c.UploadMatchEvidence(ctx, 42, actaImages())
		assert.ErrorIs(t, err, ErrEvidenceUpload)
		assert.Equal(t, 413, gateway.StatusOf(err))
	})
}
