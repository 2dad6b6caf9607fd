package form

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

const (
	MsgUsernameInvalid  = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgUsernameTaken    = "A user with that username already exists."
	MsgEmailInvalid     = "Enter a valid email address."
	MsgPasswordMismatch = "The two password fields didn't match."
	MsgPasswordTooShort = "This password is too short. It must contain at least 8 characters."
	MsgPasswordNumeric  = "This password is entirely numeric."
	MsgValueTooLong     = "Ensure this value has at most 150 characters."
	minPasswordLength   = 8
	maxNameLength       = 150
)

var (
	usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)
	numericPattern  = regexp.MustCompile(`^[0-9]+$`)
	validate        = validator.New()
)

// SignupData is the raw submission of the registration form.
type SignupData struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username"`
	Email     string `form:"email" json:"email"`
	Password1 string `form:"password1" json:"password1"`
	Password2 string `form:"password2" json:"password2"`
}

type SignupForm struct {
	Data   SignupData `json:"values"`
	Errors Errors     `json:"errors"`
}

func NewSignupForm(data SignupData) *SignupForm {
	return &SignupForm{Data: data, Errors: Errors{}}
}

// Validate checks the submission. Username uniqueness is left to the caller,
// which reports it with Errors.Add("username", MsgUsernameTaken).
func (f *SignupForm) Validate() bool {
	f.Errors = Errors{}
	d := &f.Data
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Username = strings.TrimSpace(d.Username)
	d.Email = strings.TrimSpace(d.Email)

	for name, v := range map[string]string{"first_name": d.FirstName, "last_name": d.LastName} {
		if utf8.RuneCountInString(v) > maxNameLength {
			f.Errors.Add(name, MsgValueTooLong)
		}
	}

	switch {
	case d.Username == "":
		f.Errors.Add("username", MsgRequired)
	case utf8.RuneCountInString(d.Username) > maxNameLength:
		f.Errors.Add("username", MsgValueTooLong)
	case !usernamePattern.MatchString(d.Username):
		f.Errors.Add("username", MsgUsernameInvalid)
	}

	if d.Email == "" {
		f.Errors.Add("email", MsgRequired)
	} else if err := validate.Var(d.Email, "email"); err != nil {
		f.Errors.Add("email", MsgEmailInvalid)
	}

	if d.Password1 == "" {
		f.Errors.Add("password1", MsgRequired)
	}
	switch {
	case d.Password2 == "":
		f.Errors.Add("password2", MsgRequired)
	case d.Password1 != "" && d.Password1 != d.Password2:
		f.Errors.Add("password2", MsgPasswordMismatch)
	case utf8.RuneCountInString(d.Password2) < minPasswordLength:
		f.Errors.Add("password2", MsgPasswordTooShort)
	case numericPattern.MatchString(d.Password2):
		f.Errors.Add("password2", MsgPasswordNumeric)
	}

	return len(f.Errors) == 0
}

// Values returns the submission with the passwords blanked, for
// redisplaying a rejected form.
func (f *SignupForm) Values() SignupData {
	d := f.Data
	d.Password1, d.Password2 = "", ""
	return d
}
