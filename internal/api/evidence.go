package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/goserg/ligavocal/internal/api/apipath"
	"github.com/goserg/ligavocal/internal/domain"
	"github.com/goserg/ligavocal/internal/gateway"
)

var (
	errEvidenceCount = errors.New("se requieren exactamente 2 imágenes: frente y dorso")
	errEvidenceSides = errors.New("las imágenes deben ser frente y dorso del acta")
	errEvidenceEmpty = errors.New("imagen vacía")
)

// UploadMatchEvidence sends the two acta photos as a multipart request
// with the parts "frente" and "dorso". The returned receipt is what
// FinalizeMatch needs.
func (c *Client) UploadMatchEvidence(ctx context.Context, matchID int64, images []domain.EvidenceImage) (domain.EvidenceReceipt, error) {
	front, back, err := splitSides(images)
	if err != nil {
		return domain.EvidenceReceipt{}, fmt.Errorf("%w: %w", ErrEvidenceUpload, err)
	}
	if c.finalized.Contains(matchID) {
		return domain.EvidenceReceipt{}, fmt.Errorf("%w: el partido %d ya fue finalizado", ErrInvalidState, matchID)
	}

	raw, err := c.gw.Do(ctx, gateway.Request{
		Method: fiber.MethodPost,
		Path:   apipath.Evidence(matchID),
		Files:  []gateway.File{toFile(front), toFile(back)},
	})
	if err != nil {
		return domain.EvidenceReceipt{}, fmt.Errorf("%w: %w", ErrEvidenceUpload, err)
	}
	env, err := openEnvelope(raw)
	if err != nil {
		return domain.EvidenceReceipt{}, fmt.Errorf("%w: %w", ErrEvidenceUpload, err)
	}

	hash := domain.HashEvidence(front.Data, back.Data)
	var data evidenceData
	if len(env.Data) > 0 {
		// A hash computed by the server wins; the body shape is optional.
		if err := json.Unmarshal(env.Data, &data); err == nil {
			switch {
			case data.Hash != "":
				hash = data.Hash
			case data.HashAlt != "":
				hash = data.HashAlt
			}
		}
	}
	c.log.WithField("match_id", matchID).Info("acta uploaded")
	return domain.EvidenceReceipt{
		MatchID: matchID,
		Sides:   []domain.ActaSide{domain.ActaFront, domain.ActaBack},
		Hash:    hash,
	}, nil
}

func splitSides(images []domain.EvidenceImage) (front, back domain.EvidenceImage, err error) {
	if len(images) != 2 {
		return front, back, errEvidenceCount
	}
	var haveFront, haveBack bool
	for _, img := range images {
		if len(img.Data) == 0 {
			return front, back, errEvidenceEmpty
		}
		switch img.Side {
		case domain.ActaFront:
			front, haveFront = img, true
		case domain.ActaBack:
			back, haveBack = img, true
		}
	}
	if !haveFront || !haveBack {
		return front, back, errEvidenceSides
	}
	return front, back, nil
}

const defaultEvidenceType = "image/jpeg"

func toFile(img domain.EvidenceImage) gateway.File {
	name := img.FileName
	if name == "" {
		name = "acta_" + string(img.Side) + "_" + uuid.NewString() + ".jpg"
	}
	contentType := img.ContentType
	if contentType == "" {
		contentType = defaultEvidenceType
	}
	return gateway.File{
		Field:       string(img.Side),
		Name:        name,
		ContentType: contentType,
		Data:        img.Data,
	}
}
