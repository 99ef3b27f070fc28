package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	netmail "net/mail"
	"net/url"

	"github.com/dajohi/goemail"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

// SMTPSender sends through an authenticated smtps:// relay.
type SMTPSender struct {
	client      *goemail.SMTP
	fromName    string
	fromAddress string
}

// NewSMTPSender connects the relay description; from may carry a display
// name ("gophauth <no-reply@example.com>").
func NewSMTPSender(host, user, password, from string) (*SMTPSender, error) {
	u := &url.URL{
		Scheme: "smtps",
		User:   url.UserPassword(user, password),
		Host:   host,
	}

	a, err := netmail.ParseAddress(from)
	if err != nil {
		return nil, fmt.Errorf("parse sender address: %w", err)
	}

	client, err := goemail.NewSMTP(u.String(), &tls.Config{ServerName: u.Hostname()})
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPSender{
		client:      client,
		fromName:    a.Name,
		fromAddress: a.Address,
	}, nil
}

// Send does not observe ctx once the SMTP exchange started; wrap the sender
// with WithTimeout to bound it.
func (s *SMTPSender) Send(ctx context.Context, m Message) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", common.ErrMailDispatch, err)
	}

	msg := goemail.NewMessage(s.fromAddress, m.Subject, m.Body)
	msg.SetName(s.fromName)
	msg.AddTo(m.To)

	if err := s.client.Send(msg); err != nil {
		return fmt.Errorf("%w: %v", common.ErrMailDispatch, err)
	}
	return nil
}
