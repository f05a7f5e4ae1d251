package rules

import (
	"net/mail"
	"strings"
)

// Registration messages are part of the API contract.
const (
	MsgUsernameRequired = "Username is required."
	MsgEmailRequired    = "Email is required."
	MsgEmailInvalid     = "Invalid email address."
	MsgPasswordRequired = "Password is required."

	MsgUsernameTaken = "A user with that username already exists."
	MsgEmailTaken    = "A user with that email already exists."
)

// UserCandidate is a registration request before any normalization.
type UserCandidate struct {
	Username string
	Email    string
	Password string
}

// User validates a registration candidate. Structural field checks run
// independently; the password strength policy runs only when the password is
// present, and reports every violated policy clause.
func User(c UserCandidate) FieldErrors {
	errs := Apply([]Rule{
		{Field: "username", Message: MsgUsernameRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Username) != ""
		}},
		{Field: "email", Message: MsgEmailRequired, Fatal: true, Check: func() bool {
			return strings.TrimSpace(c.Email) != ""
		}},
		{Field: "email", Message: MsgEmailInvalid, Check: func() bool {
			return validEmail(c.Email)
		}},
		{Field: "password", Message: MsgPasswordRequired, Fatal: true, Check: func() bool {
			return c.Password != ""
		}},
	})

	if !errs.Has("password") {
		for _, msg := range CheckPassword(c.Password, c.Username, c.Email) {
			errs.Add("password", msg)
		}
	}
	return errs
}

// validEmail accepts addr-spec addresses with a dotted domain. mail.ParseAddress
// alone would admit name-and-angle-bracket forms and dotless domains.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndex(s, "@")
	if at < 0 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
