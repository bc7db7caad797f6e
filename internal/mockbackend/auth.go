package mockbackend

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
	"golang.org/x/crypto/bcrypt"

	"github.com/goserg/ligavocal/internal/config"
)

var (
	ErrNotAuthorized = errors.New("no autorizado")
	ErrBadLogin      = errors.New("credenciales inválidas")
)

type account struct {
	user config.Vocal
	hash []byte
}

type claims struct {
	jwt.StandardClaims
	UserID  int64  `json:"id_usuario"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Email   string `json:"correo"`
	Role    string `json:"rol"`
}

type authenticator struct {
	secret     []byte
	expiration time.Duration
	accounts   map[string]account
	now        func() time.Time
}

func newAuthenticator(cfg config.MockBackend, now func() time.Time) (*authenticator, error) {
	expiration, err := time.ParseDuration(cfg.Expiration)
	if err != nil {
		return nil, err
	}
	a := authenticator{
		secret:     []byte(cfg.TokenSecret),
		expiration: expiration,
		accounts:   make(map[string]account, len(cfg.Users)),
		now:        now,
	}
	for _, u := range cfg.Users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.MinCost)
		if err != nil {
			return nil, err
		}
		a.accounts[strings.ToLower(u.Email)] = account{user: u, hash: hash}
	}
	return &a, nil
}

func (a *authenticator) login(email, password string) (config.Vocal, string, error) {
	acc, ok := a.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return config.Vocal{}, "", ErrBadLogin
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return config.Vocal{}, "", ErrBadLogin
	}
	token, err := a.issue(acc.user)
	if err != nil {
		return config.Vocal{}, "", err
	}
	return acc.user, token, nil
}

func (a *authenticator) issue(u config.Vocal) (string, error) {
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(a.expiration).Unix(),
			IssuedAt:  now.Unix(),
			Subject:   strconv.FormatInt(u.ID, 10),
		},
		UserID:  u.ID,
		Name:    u.Name,
		Surname: u.Surname,
		Email:   u.Email,
		Role:    u.Role,
	})
	return token.SignedString(a.secret)
}

// verify checks a bearer header and returns the account it was issued to.
func (a *authenticator) verify(header string) (config.Vocal, error) {
	raw, found := strings.CutPrefix(header, "Bearer ")
	if !found || raw == "" {
		return config.Vocal{}, ErrNotAuthorized
	}
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrNotAuthorized
		}
		return a.secret, nil
	})
	if err != nil || !token.Valid {
		return config.Vocal{}, ErrNotAuthorized
	}
	acc, ok := a.accounts[strings.ToLower(c.Email)]
	if !ok || acc.user.ID != c.UserID {
		return config.Vocal{}, ErrNotAuthorized
	}
	return acc.user, nil
}
