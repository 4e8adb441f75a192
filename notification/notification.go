// Package notification provides an in-request context for accumulating
// classified messages (critical, warning, information) during one unit of
// work, letting a terminal stage decide the response.
package notification

import "github.com/code19m/errx"

const codeInvalidNotification = "INVALID_NOTIFICATION"

// Notification is a classified message with a required non-empty key
// (error or category code) and a non-empty message.
//
// The three variants - Critical, Warning and Information - are structurally
// identical but are distinct types so they can be filtered and cleared by kind.
type Notification interface {
	Key() string
	Message() string
}

// Critical marks a failure that should fail the current unit of work.
type Critical struct {
	key     string
	message string
}

// Warning marks a recoverable problem worth surfacing to the caller.
type Warning struct {
	key     string
	message string
}

// Information carries a purely informational message.
type Information struct {
	key     string
	message string
}

func NewCritical(key, message string) (Critical, error) {
	if err := validateArgs(key, message); err != nil {
		return Critical{}, err
	}
	return Critical{key: key, message: message}, nil
}

func NewWarning(key, message string) (Warning, error) {
	if err := validateArgs(key, message); err != nil {
		return Warning{}, err
	}
	return Warning{key: key, message: message}, nil
}

func NewInformation(key, message string) (Information, error) {
	if err := validateArgs(key, message); err != nil {
		return Information{}, err
	}
	return Information{key: key, message: message}, nil
}

func (n Critical) Key() string        { return n.key }
func (n Critical) Message() string    { return n.message }
func (n Warning) Key() string         { return n.key }
func (n Warning) Message() string     { return n.message }
func (n Information) Key() string     { return n.key }
func (n Information) Message() string { return n.message }

func validateArgs(key, message string) error {
	if key == "" {
		return errx.New(
			"notification key must not be empty",
			errx.WithCode(codeInvalidNotification),
			errx.WithType(errx.T_Validation),
		)
	}
	if message == "" {
		return errx.New(
			"notification message must not be empty",
			errx.WithCode(codeInvalidNotification),
			errx.WithType(errx.T_Validation),
		)
	}
	return nil
}
