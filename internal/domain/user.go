package domain

// RoleVocal is the only role allowed to use the client.
const RoleVocal = "vocal"

type User struct {
	ID      int64
	Name    string
	Surname string
	Email   string
	Role    string
}

func (u User) IsVocal() bool {
	return u.Role == RoleVocal
}

// DisplayName is the name shown in greetings and history headers.
func (u User) DisplayName() string {
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Email
	}
}

type Session struct {
	Token string
	User  User

	// Degraded is set when the stored profile could not be decoded and
	// User was rebuilt from whatever was left.
	Degraded bool
}
