package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rpupo63/portfolio-backend/metrics"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultNotifyTimeout = 30 * time.Second

// ProfileSource supplies the owner details used in the auto-reply.
type ProfileSource interface {
	GetOrCreate(ctx context.Context, defaults models.Settings) (*models.Settings, error)
}

// NotifierConfig wires the channels. A nil sender disables its channel.
type NotifierConfig struct {
	Email         EmailSender
	SMS           SMSSender
	Profile       ProfileSource
	AdminEmail    string
	AdminPhone    string
	AutoReplyFrom string
	OwnerName     string
	Timeout       time.Duration
}

// NotifierConfigFrom enables each channel whose credentials are present.
func NotifierConfigFrom(cfg config.App, profile ProfileSource) NotifierConfig {
	nc := NotifierConfig{
		Profile:    profile,
		AdminEmail: cfg.Email.AdminEmail,
		AdminPhone: cfg.SMS.AdminPhone,
		OwnerName:  cfg.Email.OwnerName,
	}

	if cfg.Email.Configured() {
		nc.Email = NewResendClient(cfg.Email)
		if cfg.Email.AutoReplyFrom != "" && !strings.Contains(cfg.Email.AutoReplyFrom, "<") {
			nc.AutoReplyFrom = fmt.Sprintf("%s <%s>", cfg.Email.OwnerName, cfg.Email.AutoReplyFrom)
		} else {
			nc.AutoReplyFrom = cfg.Email.AutoReplyFrom
		}
	} else {
		log.Warn().Msg("Email not configured, contact notifications are disabled")
	}

	if cfg.SMS.Configured() {
		nc.SMS = NewTwilioClient(cfg.SMS)
	}

	return nc
}

// Notifier tells the site owner about new contact messages. Dispatch never
// blocks the request; Wait drains in-flight work on shutdown.
type Notifier struct {
	cfg    NotifierConfig
	wg     sync.WaitGroup
	logger zerolog.Logger
}

func NewNotifier(cfg NotifierConfig) *Notifier {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultNotifyTimeout
	}
	return &Notifier{
		cfg:    cfg,
		logger: log.With().Str("service", "notifier").Logger(),
	}
}

// Dispatch sends all notifications for m in the background. The work is
// detached from ctx cancellation but keeps its values.
func (n *Notifier) Dispatch(ctx context.Context, m models.Message) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.cfg.Timeout)
		defer cancel()

		if err := n.NotifyContact(ctx, m); err != nil {
			n.logger.Warn().Err(err).Str("messageId", m.ID).Msg("Contact notification incomplete")
		}
	}()
}

// Wait blocks until every dispatched notification finished or ctx is done.
func (n *Notifier) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		n.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NotifyContact sends the admin alert, the auto-reply and the admin SMS.
// Every channel is attempted even if an earlier one fails.
func (n *Notifier) NotifyContact(ctx context.Context, m models.Message) error {
	var failures []error
	var successes []string

	if n.cfg.Email != nil && n.cfg.AdminEmail != "" {
		err := n.sendAdminEmail(ctx, m)
		metrics.IncrementNotification("admin_email", err)
		if err != nil {
			n.logger.Error().Err(err).Msg("Failed to send contact notification email")
			failures = append(failures, fmt.Errorf("admin email: %w", err))
		} else {
			successes = append(successes, "admin_email")
		}
	} else if n.cfg.Email != nil {
		n.logger.Warn().Msg("ADMIN_EMAIL not set, skipping notification")
	}

	if n.cfg.Email != nil {
		err := n.sendAutoReply(ctx, m)
		metrics.IncrementNotification("auto_reply", err)
		if err != nil {
			n.logger.Error().Err(err).Msg("Failed to send auto-reply")
			failures = append(failures, fmt.Errorf("auto-reply: %w", err))
		} else {
			successes = append(successes, "auto_reply")
		}
	}

	if n.cfg.SMS != nil && n.cfg.AdminPhone != "" {
		err := n.cfg.SMS.SendSMS(ctx, n.cfg.AdminPhone, smsBody(m))
		metrics.IncrementNotification("admin_sms", err)
		if err != nil {
			n.logger.Error().Err(err).Msg("Failed to send contact SMS")
			failures = append(failures, fmt.Errorf("admin sms: %w", err))
		} else {
			successes = append(successes, "admin_sms")
		}
	}

	if len(successes) > 0 {
		n.logger.Info().Strs("channels", successes).Str("messageId", m.ID).Msg("Sent contact notifications")
	}
	return errors.Join(failures...)
}

func (n *Notifier) sendAdminEmail(ctx context.Context, m models.Message) error {
	html, err := RenderContactNotification(m)
	if err != nil {
		return err
	}
	return n.cfg.Email.SendEmail(ctx, Email{
		To:      []string{n.cfg.AdminEmail},
		Subject: "New Contact: " + m.Subject,
		HTML:    html,
		ReplyTo: m.Email,
	})
}

func (n *Notifier) sendAutoReply(ctx context.Context, m models.Message) error {
	profile := n.profile(ctx)
	html, err := RenderAutoReply(m.Name, profile)
	if err != nil {
		return err
	}
	return n.cfg.Email.SendEmail(ctx, Email{
		From:    n.cfg.AutoReplyFrom,
		To:      []string{m.Email},
		Subject: "Thanks for reaching out!",
		HTML:    html,
	})
}

// profile falls back to the defaults when the store is unavailable.
func (n *Notifier) profile(ctx context.Context) models.Settings {
	defaults := models.DefaultSettings()
	if n.cfg.OwnerName != "" {
		defaults.OwnerName = n.cfg.OwnerName
	}
	if n.cfg.Profile == nil {
		return defaults
	}

	s, err := n.cfg.Profile.GetOrCreate(ctx, defaults)
	if err != nil {
		n.logger.Warn().Err(err).Msg("Could not load settings for auto-reply, using defaults")
		return defaults
	}
	return *s
}

func smsBody(m models.Message) string {
	body := fmt.Sprintf("New portfolio message from %s <%s>: %s", m.Name, m.Email, m.Subject)
	if r := []rune(body); len(r) > 300 {
		return string(r[:300])
	}
	return body
}
