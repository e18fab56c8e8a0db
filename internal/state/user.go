package state

import (
	"fmt"

	"github.com/five82/booksite/internal/catalog"
)

// AnonymousUsername is the username of the anonymous sentinel.
const AnonymousUsername = "anonymousUser"

// BadLoginMessage is shown after a failed login attempt.
const BadLoginMessage = "bad login"

// BlankUser is the current user before any session is known.
func BlankUser() catalog.User {
	return catalog.User{AccessGroups: []string{}}
}

// AnonymousUser represents a session known to be unauthenticated.
func AnonymousUser() catalog.User {
	return catalog.User{Username: AnonymousUsername, AccessGroups: []string{}}
}

// IsAnonymous reports whether u is the anonymous sentinel.
func IsAnonymous(u catalog.User) bool {
	return u.ID == "" && u.Username == AnonymousUsername
}

// LoginField names a login form input.
type LoginField int

const (
	FieldUsername LoginField = iota
	FieldPassword
)

func (f LoginField) String() string {
	switch f {
	case FieldUsername:
		return "username"
	case FieldPassword:
		return "password"
	default:
		return fmt.Sprintf("LoginField(%d)", int(f))
	}
}

// LoginForm holds staged credentials and feedback from the last attempt.
type LoginForm struct {
	Username string
	Password string
	Message  string
}

func (f LoginForm) with(field LoginField, value string) LoginForm {
	switch field {
	case FieldUsername:
		f.Username = value
	case FieldPassword:
		f.Password = value
	}
	return f
}
