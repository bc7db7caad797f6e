package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goserg/ligavocal/internal/credentials"
)

// File is one part of a multipart upload.
type File struct {
	Field string
	Name  string
	// ContentType of the part. Empty means application/octet-stream.
	ContentType string
	Data        []byte
}

type Request struct {
	Method string
	// Path is relative to the base URL and starts with a slash.
	Path    string
	Body    any
	Files   []File
	Headers map[string]string
}

type Config struct {
	BaseURL string
	// Timeout of zero keeps the transport default.
	Timeout time.Duration
}

// Gateway sends requests to the backend on behalf of the session kept in
// its credential store. It never retries.
type Gateway struct {
	cfg   Config
	store credentials.Store
	log   *logrus.Entry
}

func New(cfg Config, store credentials.Store, l *logrus.Logger) *Gateway {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return &Gateway{
		cfg:   cfg,
		store: store,
		log:   l.WithField("from", "gateway"),
	}
}

func (g *Gateway) Store() credentials.Store {
	return g.store
}

// Do sends req with the stored bearer token and returns the JSON body.
// Without a stored session it fails with ErrMissingToken before touching
// the network. A 401 answer clears the stored session.
func (g *Gateway) Do(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	session, ok, err := g.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if !ok || session.Token == "" {
		return nil, ErrMissingToken
	}
	data, err := g.send(req, session.Token)
	if StatusOf(err) == fiber.StatusUnauthorized {
		// The backend no longer accepts the token; the next call asks for a login.
		if cerr := g.store.Clear(ctx); cerr != nil {
			g.log.WithError(cerr).Warn("unable to drop rejected session")
		}
	}
	return data, err
}

// DoAnonymous sends req without a token. Only login uses it.
func (g *Gateway) DoAnonymous(ctx context.Context, req Request) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return g.send(req, "")
}

func (g *Gateway) send(req Request, token string) (json.RawMessage, error) {
	requestID := uuid.NewString()
	log := g.log.WithFields(logrus.Fields{
		"method":     req.Method,
		"path":       req.Path,
		"request_id": requestID,
	})

	a := fiber.AcquireAgent()
	r := a.Request()
	r.Header.SetMethod(req.Method)
	r.SetRequestURI(g.cfg.BaseURL + req.Path)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	a.Set(fiber.HeaderXRequestID, requestID)
	if token != "" {
		a.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range req.Headers {
		a.Set(k, v)
	}
	if g.cfg.Timeout > 0 {
		a.Timeout(g.cfg.Timeout)
	}

	if len(req.Files) > 0 {
		data, contentType, err := multipartBody(req.Files)
		if err != nil {
			fiber.ReleaseAgent(a)
			return nil, err
		}
		a.ContentType(contentType)
		a.Body(data)
	} else {
		a.ContentType(fiber.MIMEApplicationJSON)
		if req.Body != nil {
			data, err := json.Marshal(req.Body)
			if err != nil {
				fiber.ReleaseAgent(a)
				return nil, err
			}
			a.Body(data)
		}
	}

	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		log.WithError(err).Warn("request not sent")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	start := time.Now()
	code, body, errs := a.Bytes()
	log = log.WithFields(logrus.Fields{
		"status": code,
		"took":   time.Since(start),
	})
	if len(errs) > 0 {
		err := errors.Join(errs...)
		log.WithError(err).Warn("request failed")
		return nil, fmt.Errorf("%w: %w", ErrTransport, err)
	}

	data, err := decode(code, body)
	if err != nil {
		log.WithError(err).Warn("request rejected")
		return nil, err
	}
	log.Debug("request done")
	return data, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// multipartBody encodes the files as form-data parts, each with its own
// content type. The returned content type carries the boundary.
func multipartBody(files []File) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.Field), quoteEscaper.Replace(f.Name)))
		contentType := f.ContentType
		if contentType == "" {
			contentType = fiber.MIMEOctetStream
		}
		h.Set(fiber.HeaderContentType, contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

type errorBody struct {
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

func decode(code int, body []byte) (json.RawMessage, error) {
	valid := json.Valid(body)
	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return nil, &RemoteError{
			Status:  code,
			Message: remoteMessage(body, valid),
		}
	}
	if !valid {
		return nil, ErrMalformedResponse
	}
	// The agent buffer is pooled; the caller gets its own copy.
	data := make(json.RawMessage, len(body))
	copy(data, body)
	return data, nil
}

func remoteMessage(body []byte, valid bool) string {
	if !valid {
		return defaultRemoteMessage
	}
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil {
		return defaultRemoteMessage
	}
	if eb.Message != "" {
		return eb.Message
	}
	var s string
	if err := json.Unmarshal(eb.Error, &s); err == nil && s != "" {
		return s
	}
	return defaultRemoteMessage
}
