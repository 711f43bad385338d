// Package notifier turns notification events into outbound email.  It runs
// as a separate worker that consumes the notification topic and calls the
// platform mail API, which resolves user IDs to addresses.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/laborguard/complaint-service/internal/config"
	"github.com/laborguard/complaint-service/internal/infrastructure/monitoring/logging"
	"github.com/laborguard/complaint-service/pkg/errors"
	"github.com/laborguard/complaint-service/pkg/types/common"
)

// mailRequest is the payload accepted by the mail API.  The API owns the
// user directory, so recipients are addressed by user ID and role rather
// than raw email addresses.
type mailRequest struct {
	UserID  string `json:"user_id"`
	Role    string `json:"role"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer sends email through the platform mail API.
type Mailer struct {
	client *http.Client
	url    string
	apiKey string
	from   string
	log    logging.Logger
}

// NewMailer builds a Mailer from the notifier configuration.
func NewMailer(cfg config.NotifierConfig, log logging.Logger) *Mailer {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Mailer{
		client: &http.Client{Timeout: timeout},
		url:    cfg.MailAPIURL,
		apiKey: cfg.MailAPIKey,
		from:   cfg.FromAddress,
		log:    log.Named("mailer"),
	}
}

// Send posts one message to the mail API.  Non-2xx responses are returned
// as errors so the consumer leaves the event uncommitted for redelivery.
func (m *Mailer) Send(ctx context.Context, userID string, role common.Role, subject, body string) error {
	payload, err := json.Marshal(mailRequest{
		UserID:  userID,
		Role:    string(role),
		From:    m.from,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode mail request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.url, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to build mail request")
	}
	req.Header.Set("Content-Type", "application/json")
	if m.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+m.apiKey)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "mail API request failed")
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.New(errors.ErrCodeExternalService,
			fmt.Sprintf("mail API returned status %d", resp.StatusCode))
	}
	return nil
}
