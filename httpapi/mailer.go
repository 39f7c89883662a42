package httpapi

import (
	"context"

	"github.com/rs/zerolog"
)

// Mailer is the narrow outbound-mail collaborator used to deliver
// activation codes. SMTP transport is outside this repository.
type Mailer interface {
	SendActivation(ctx context.Context, email, name, code string) error
}

// LogMailer writes activation codes to the log instead of sending mail.
// Development only; the code in the log is the code the client must submit.
type LogMailer struct {
	Log zerolog.Logger
}

// SendActivation implements [Mailer].
func (m LogMailer) SendActivation(ctx context.Context, email, name, code string) error {
	m.Log.Info().
		Str("email", email).
		Str("name", name).
		Str("code", code).
		Msg("activation mail (log delivery)")
	return nil
}

// NopMailer discards activation mail. Used by tests that read the code from
// the activation token instead.
type NopMailer struct{}

// SendActivation implements [Mailer].
func (NopMailer) SendActivation(ctx context.Context, email, name, code string) error {
	return nil
}
