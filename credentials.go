package elf

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Credentials holds the SMTP login read from the environment.
type Credentials struct {
	Username string `env:"EMAIL_USERNAME,required,notEmpty"`
	Password string `env:"EMAIL_PASSWORD,required,notEmpty"`
}

// LoadCredentials reads EMAIL_USERNAME and EMAIL_PASSWORD from the environment.
//
// Returns:
//   - Credentials: Parsed credentials
//   - error: ErrMissingCredentials wrapping the parse error
func LoadCredentials() (Credentials, error) {
	var creds Credentials
	if err := env.Parse(&creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %w", ErrMissingCredentials, err)
	}

	return creds, nil
}

// String masks the password so credentials can be logged.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Username: %q, Password: ***}", c.Username)
}
