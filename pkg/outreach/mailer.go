// Package outreach sends generated emails over SMTP with a daily cap and a
// delay between sends.
package outreach

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/leadscope/leadscope/internal/utils"
	"github.com/leadscope/leadscope/pkg/storage"
)

// ErrDailyLimitReached signals that today's send budget is spent.
var ErrDailyLimitReached = errors.New("daily email limit reached")

// SMTPConfig holds the SMTP credentials and sender identity.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string

	FromEmail string
	FromName  string
}

// Mailer sends pending outreach emails.
type Mailer struct {
	db  *storage.DB
	cfg SMTPConfig

	// MaxDaily caps sends per calendar day. SendDelay is the pause between
	// consecutive sends in a batch.
	MaxDaily  int
	SendDelay time.Duration

	dial func() (gomail.SendCloser, error)
}

func NewMailer(db *storage.DB, cfg SMTPConfig, maxDaily int, sendDelay time.Duration) (*Mailer, error) {
	if cfg.Host == "" || cfg.FromEmail == "" {
		return nil, errors.New("sending requires smtp.host and business.email in config")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if maxDaily <= 0 {
		maxDaily = 20
	}

	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &Mailer{
		db:        db,
		cfg:       cfg,
		MaxDaily:  maxDaily,
		SendDelay: sendDelay,
		dial:      func() (gomail.SendCloser, error) { return dialer.Dial() },
	}, nil
}

// BatchResult summarizes one send batch.
type BatchResult struct {
	Sent       int
	Failed     int
	Skipped    int
	TotalToday int
}

// SendOne sends a single outreach record. The record must be unsent and its
// lead must have an email address.
func (m *Mailer) SendOne(ctx context.Context, outreachID int64) error {
	remaining, _, err := m.remainingToday(ctx)
	if err != nil {
		return err
	}
	if remaining <= 0 {
		return fmt.Errorf("%w (%d/day)", ErrDailyLimitReached, m.MaxDaily)
	}

	sender, err := m.dial()
	if err != nil {
		return fmt.Errorf("SMTP connection failed: %w", err)
	}
	defer sender.Close()

	return m.sendWith(ctx, sender, outreachID)
}

// SendBatch sends up to limit pending emails, most qualified first, pausing
// SendDelay between sends. Stops early when the daily cap is hit or the
// context is cancelled.
func (m *Mailer) SendBatch(ctx context.Context, limit int) (*BatchResult, error) {
	remaining, sentToday, err := m.remainingToday(ctx)
	if err != nil {
		return nil, err
	}

	res := &BatchResult{TotalToday: sentToday}
	if remaining <= 0 {
		utils.Log.Warnf("Daily limit reached (%d). Try again tomorrow.", m.MaxDaily)
		return res, nil
	}
	if limit <= 0 || limit > remaining {
		limit = remaining
	}

	pending, err := m.db.PendingOutreach(ctx, 0)
	if err != nil {
		return nil, err
	}

	// Only records whose lead has an email address are sendable.
	var queue []storage.OutreachRecord
	for _, rec := range pending {
		lead, err := m.db.GetLead(ctx, rec.LeadID)
		if err != nil || lead.Email == "" {
			res.Skipped++
			continue
		}
		queue = append(queue, rec)
		if len(queue) == limit {
			break
		}
	}

	if len(queue) == 0 {
		utils.Log.Info("No emails ready to send (need outreach records with lead email addresses).")
		return res, nil
	}

	sender, err := m.dial()
	if err != nil {
		return nil, fmt.Errorf("SMTP connection failed: %w", err)
	}
	defer sender.Close()

	utils.Log.Infof("Sending %d emails (%d/%d sent today, %s between sends)",
		len(queue), sentToday, m.MaxDaily, m.SendDelay)

	for i, rec := range queue {
		utils.Log.Infof("[%d/%d] Sending outreach #%d...", i+1, len(queue), rec.ID)

		if err := m.sendWith(ctx, sender, rec.ID); err != nil {
			utils.Log.Errorf("Send failed for outreach #%d: %v", rec.ID, err)
			res.Failed++
		} else {
			res.Sent++
			res.TotalToday++
		}

		if i < len(queue)-1 && m.SendDelay > 0 {
			select {
			case <-time.After(m.SendDelay):
			case <-ctx.Done():
				return res, ctx.Err()
			}
		}
	}

	utils.Log.Infof("Batch complete: %d sent, %d failed, %d/%d today",
		res.Sent, res.Failed, res.TotalToday, m.MaxDaily)
	return res, nil
}

func (m *Mailer) sendWith(ctx context.Context, sender gomail.SendCloser, outreachID int64) error {
	rec, err := m.db.GetOutreach(ctx, outreachID)
	if err != nil {
		return err
	}
	if !rec.SentAt.IsZero() {
		return fmt.Errorf("outreach #%d already sent at %s", outreachID, rec.SentAt.Format(time.RFC3339))
	}

	lead, err := m.db.GetLead(ctx, rec.LeadID)
	if err != nil {
		return err
	}
	if lead.Email == "" {
		return fmt.Errorf("no email address for %s (lead #%d)", lead.BusinessName, lead.ID)
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", m.cfg.FromEmail, m.cfg.FromName)
	msg.SetHeader("To", lead.Email)
	msg.SetHeader("Reply-To", m.cfg.FromEmail)
	msg.SetHeader("Subject", rec.SubjectLine)
	msg.SetBody("text/plain", rec.EmailBody)

	if err := gomail.Send(sender, msg); err != nil {
		return err
	}
	if err := m.db.MarkOutreachSent(ctx, outreachID); err != nil {
		return fmt.Errorf("email sent but marking failed: %w", err)
	}

	utils.Log.Infof("Email sent to %s (%s)", lead.BusinessName, lead.Email)
	return nil
}

// TestConnection dials the SMTP server without sending anything.
func (m *Mailer) TestConnection() error {
	sender, err := m.dial()
	if err != nil {
		return err
	}
	return sender.Close()
}

// remainingToday returns how many sends are left today and how many already
// went out since local midnight.
func (m *Mailer) remainingToday(ctx context.Context) (remaining, sentToday int, err error) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sentToday, err = m.db.CountSentSince(ctx, midnight)
	if err != nil {
		return 0, 0, err
	}
	return m.MaxDaily - sentToday, sentToday, nil
}
