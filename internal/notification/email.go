package notification

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v3"

	"github.com/gira-airport/complaint-service/internal/config"
)

// EmailGateway is the external mail collaborator.
type EmailGateway interface {
	Send(ctx context.Context, to, subject, body string) error
}

type resendGateway struct {
	client *resend.Client
	from   string
	sender string
}

// NewResendGateway builds an EmailGateway backed by the Resend API.
func NewResendGateway(cfg config.NotificationConfig) EmailGateway {
	return &resendGateway{
		client: resend.NewClient(cfg.ResendAPIKey),
		from:   cfg.EmailFrom,
		sender: cfg.SenderName,
	}
}

func (g *resendGateway) Send(ctx context.Context, to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", g.sender, g.from),
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}
	_, err := g.client.Emails.SendWithContext(ctx, params)
	return err
}
