package mailer

import (
	"context"
	"log/slog"
)

// LogMailer writes codes to the log instead of sending mail. Local
// development only; never wire it in an environment with real users.
type LogMailer struct{}

func NewLogMailer() *LogMailer { return &LogMailer{} }

func (LogMailer) SendVerificationCode(ctx context.Context, to string, code string) error {
	slog.Info("verification code (dev mailer)", "to", to, "code", code)
	return nil
}
