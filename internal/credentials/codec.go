package credentials

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/goserg/ligavocal/internal/domain"
)

const profileVersion = 1

// PlaceholderName is shown when neither the stored profile nor the token
// tell who is logged in.
const PlaceholderName = "Usuario LDP"

type profile struct {
	Version int    `json:"version"`
	ID      int64  `json:"id_usuario"`
	Name    string `json:"nombre"`
	Surname string `json:"apellido"`
	Email   string `json:"correo"`
	Role    string `json:"rol"`
}

var ErrEmptyToken = errors.New("empty session token")

// Encode turns a session into the token and user entries.
func Encode(session domain.Session) (token string, user string, err error) {
	if session.Token == "" {
		return "", "", ErrEmptyToken
	}
	data, err := json.Marshal(profile{
		Version: profileVersion,
		ID:      session.User.ID,
		Name:    session.User.Name,
		Surname: session.User.Surname,
		Email:   session.User.Email,
		Role:    session.User.Role,
	})
	if err != nil {
		return "", "", err
	}
	return session.Token, string(data), nil
}

// Decode rebuilds a session from its stored entries. It never fails on a
// bad profile: the session comes back degraded, with whatever the token
// claims carry or a placeholder name.
func Decode(token string, user string) domain.Session {
	var p profile
	err := json.Unmarshal([]byte(user), &p)
	if err == nil && p.Version == profileVersion {
		return domain.Session{
			Token: token,
			User: domain.User{
				ID:      p.ID,
				Name:    p.Name,
				Surname: p.Surname,
				Email:   p.Email,
				Role:    p.Role,
			},
		}
	}
	return domain.Session{
		Token:    token,
		User:     userFromToken(token),
		Degraded: true,
	}
}

// Expired reports whether the token carries an exp claim that is already
// past. Opaque tokens and tokens without exp never expire here.
func Expired(token string, now time.Time) bool {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return false
	}
	return !claims.VerifyExpiresAt(now.Unix(), false)
}

// userFromToken reads the token claims without verifying the signature.
// Only vocal sessions are ever stored, so the role defaults to vocal.
func userFromToken(token string) domain.User {
	u := domain.User{Name: PlaceholderName, Role: domain.RoleVocal}
	claims := jwt.MapClaims{}
	_, _, err := new(jwt.Parser).ParseUnverified(token, claims)
	if err != nil {
		return u
	}
	for _, key := range []string{"id_usuario", "uid", "id", "sub"} {
		if id, ok := claimID(claims[key]); ok {
			u.ID = id
			break
		}
	}
	if name, ok := claims["nombre"].(string); ok && name != "" {
		u.Name = name
	}
	if surname, ok := claims["apellido"].(string); ok {
		u.Surname = surname
	}
	if email, ok := claims["correo"].(string); ok {
		u.Email = email
	}
	if role, ok := claims["rol"].(string); ok && role != "" {
		u.Role = role
	}
	return u
}

func claimID(v any) (int64, bool) {
	switch id := v.(type) {
	case float64:
		return int64(id), true
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	}
	return 0, false
}
