package config

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"
)

// Secret names stored in the OS keyring.
const (
	SecretOCRSpace = "ocrspace"
	SecretGemini   = "gemini"
)

// ErrUnknownSecret is returned for a secret name other than SecretOCRSpace
// or SecretGemini.
var ErrUnknownSecret = errors.New("unknown secret")

var (
	keyringSet = keyring.Set
	keyringGet = keyring.Get
)

func checkSecret(name string) error {
	switch name {
	case SecretOCRSpace, SecretGemini:
		return nil
	}
	return fmt.Errorf("%q: %w", name, ErrUnknownSecret)
}

// SetSecret stores an API key in the OS keyring.
func SetSecret(name, value string) error {
	if err := checkSecret(name); err != nil {
		return err
	}
	if err := keyringSet(AppName, name, value); err != nil {
		return fmt.Errorf("failed to store %s key: %w", name, err)
	}
	return nil
}

// GetSecret reads an API key from the OS keyring. A missing key returns ""
// and no error.
func GetSecret(name string) (string, error) {
	if err := checkSecret(name); err != nil {
		return "", err
	}
	v, err := keyringGet(AppName, name)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s key: %w", name, err)
	}
	return v, nil
}

// ResolveSecrets fills API keys missing from files and environment from the
// keyring. Keyring failures are returned but leave the config usable.
func (c *Config) ResolveSecrets() error {
	var errs []error
	if c.OCRSpace.APIKey == "" {
		v, err := GetSecret(SecretOCRSpace)
		if err != nil {
			errs = append(errs, err)
		}
		c.OCRSpace.APIKey = v
	}
	if c.Gemini.APIKey == "" {
		v, err := GetSecret(SecretGemini)
		if err != nil {
			errs = append(errs, err)
		}
		c.Gemini.APIKey = v
	}
	return errors.Join(errs...)
}
