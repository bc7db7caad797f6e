package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ActaSide tags an acta photo. The values double as multipart field names.
type ActaSide string

const (
	ActaFront ActaSide = "frente"
	ActaBack  ActaSide = "dorso"
)

type EvidenceImage struct {
	Side        ActaSide
	FileName    string
	ContentType string
	Data        []byte
}

// EvidenceReceipt is what a successful acta upload leaves behind. A
// finalization needs one covering both sides of the acta.
type EvidenceReceipt struct {
	MatchID int64
	Sides   []ActaSide
	Hash    string
}

func (r EvidenceReceipt) Complete() bool {
	if len(r.Sides) != 2 || r.Hash == "" {
		return false
	}
	var front, back bool
	for _, s := range r.Sides {
		switch s {
		case ActaFront:
			front = true
		case ActaBack:
			back = true
		}
	}
	return front && back
}

// HashEvidence fingerprints the acta as sha256(front || back), hex encoded.
func HashEvidence(front, back []byte) string {
	sha := sha256.New()
	sha.Write(front)
	sha.Write(back)
	return hex.EncodeToString(sha.Sum(nil))
}

var (
	ErrMissingEvidence = errors.New("both sides of the acta must be uploaded")
	ErrMissingReferee  = errors.New("a referee must be selected")
	ErrMissingVocal    = errors.New("vocal id is unknown")
)

type Submission struct {
	Score     Score
	RefereeID int64
	VocalID   int64
	Evidence  EvidenceReceipt
}

// Missing lists every piece the submission still lacks, joined.
func (s Submission) Missing() error {
	var err error
	if !s.Evidence.Complete() {
		err = errors.Join(err, ErrMissingEvidence)
	}
	if s.RefereeID == 0 {
		err = errors.Join(err, ErrMissingReferee)
	}
	if s.VocalID == 0 {
		err = errors.Join(err, ErrMissingVocal)
	}
	return err
}
