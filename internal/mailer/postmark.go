package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"
)

type Config struct {
	ServerToken  string
	AccountToken string
	From         string
}

// PostmarkMailer delivers verification codes through Postmark's
// transactional API.
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

func NewPostmarkMailer(cfg Config) (*PostmarkMailer, error) {
	if cfg.ServerToken == "" || cfg.AccountToken == "" {
		return nil, errors.New("postmark tokens required")
	}
	if cfg.From == "" {
		return nil, errors.New("sender address required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(cfg.ServerToken, cfg.AccountToken),
		from:   cfg.From,
	}, nil
}

func (m *PostmarkMailer) SendVerificationCode(ctx context.Context, to string, code string) error {
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  "Verify your account",
		Tag:      "account-verification",
		TextBody: fmt.Sprintf("Your verification code is %s. It expires in 15 minutes.", code),
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	if resp.ErrorCode > 0 {
		return fmt.Errorf("postmark send: %d %s", resp.ErrorCode, resp.Message)
	}
	return nil
}
