package session

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/ozodbek-r/neoneats/internal/authapi"
	"github.com/ozodbek-r/neoneats/internal/models"
)

// emailPattern mirrors the registration form's check: something@something.tld.
var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// ValidationError maps field names to their first failed check. It never
// reaches the remote service: validation failures are recovered locally.
type ValidationError map[string]string

func (e ValidationError) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	lines := make([]string, 0, len(fields))
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(lines, "\n")
}

// Credentials is the login form input.
type Credentials struct {
	Email    string
	Password string
}

// Validate checks the login form before any network call.
func (c Credentials) Validate() error {
	errs := ValidationError{}
	if c.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(c.Email) {
		errs["email"] = "Email is invalid"
	}
	if c.Password == "" {
		errs["password"] = "Password is required"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Profile is the registration form input. Username is optional; when empty
// it defaults to the local part of the email.
type Profile struct {
	Username        string
	Email           string
	Phone           string
	Password        string
	ConfirmPassword string
	Role            models.Role
}

// Validate applies the registration form's rules before any network call.
func (p Profile) Validate() error {
	errs := ValidationError{}

	if p.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(p.Email) {
		errs["email"] = "Email is invalid"
	}

	if p.Phone == "" {
		errs["phone"] = "Phone number is required"
	}

	if p.Password == "" {
		errs["password"] = "Password is required"
	} else if len(p.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}

	if p.ConfirmPassword == "" {
		errs["confirmPassword"] = "Please confirm your password"
	} else if p.Password != p.ConfirmPassword {
		errs["confirmPassword"] = "Passwords do not match"
	}

	if !p.Role.Valid() {
		errs["role"] = "Unknown account role"
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// payload builds the wire payload, deriving the username from the email
// local part when none was collected.
func (p Profile) payload() authapi.RegisterPayload {
	username := p.Username
	if username == "" {
		username = p.Email
		if at := strings.IndexByte(p.Email, '@'); at >= 0 {
			username = p.Email[:at]
		}
	}
	return authapi.RegisterPayload{
		Username: username,
		Email:    p.Email,
		Password: p.Password,
		Phone:    p.Phone,
		Role:     p.Role,
	}
}
