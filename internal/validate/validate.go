// Package validate holds the client-side form checks that gate login, signup
// and note submission. Nothing here performs I/O.
package validate

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"example.com/notesin/internal/stringsx"
)

const MinPasswordLen = 6

// ErrEmptyFields rejects a note form with a blank title or description.
var ErrEmptyFields = &Error{Message: "Please fill in all fields."}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type Field string

const (
	FieldUsername Field = "username"
	FieldEmail    Field = "email"
	FieldPassword Field = "password"
)

// Error is a single rejected field.
type Error struct {
	Field   Field
	Message string
}

func (e *Error) Error() string { return e.Message }

// FieldErrors collects every rejected field of a form.
type FieldErrors map[Field]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for f := range fe {
		keys = append(keys, string(f))
	}
	sort.Strings(keys)

	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, fe[Field(k)])
	}
	return strings.Join(msgs, " ")
}

// Email reports whether s looks like local@domain.tld.
func Email(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// Login checks the login form and stops at the first bad field.
func Login(username, email, password string) error {
	if stringsx.IsEmpty(username) {
		return &Error{Field: FieldUsername, Message: "Username is required!"}
	}
	if stringsx.IsEmpty(email) || !Email(email) {
		return &Error{Field: FieldEmail, Message: "Enter a valid email address!"}
	}
	if stringsx.IsEmpty(password) || utf8.RuneCountInString(password) < MinPasswordLen {
		return &Error{Field: FieldPassword, Message: "Password must be at least 6 characters long!"}
	}
	return nil
}

// Signup checks every field of the signup form and returns all failures as
// FieldErrors, or nil.
func Signup(username, email, password string) error {
	fe := FieldErrors{}

	if stringsx.IsEmpty(username) {
		fe[FieldUsername] = "Username is required."
	}

	switch {
	case stringsx.IsEmpty(email):
		fe[FieldEmail] = "Email is required."
	case !Email(email):
		fe[FieldEmail] = "Enter a valid email address."
	}

	switch {
	case stringsx.IsEmpty(password):
		fe[FieldPassword] = "Password is required."
	case utf8.RuneCountInString(password) < MinPasswordLen:
		fe[FieldPassword] = "Password must be at least 6 characters."
	}

	if len(fe) == 0 {
		return nil
	}
	return fe
}

// Note checks a note form; both fields must be non-blank.
func Note(title, description string) error {
	if stringsx.IsEmpty(title) || stringsx.IsEmpty(description) {
		return ErrEmptyFields
	}
	return nil
}
