package managers

import (
	"context"
	"fmt"
	"time"

	"github.com/mailgun/mailgun-go/v4"
	"github.com/matcornic/hermes/v2"
	log "github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"

	"stories-v13/internal/config"
)

// MailMgr outlines the contract for verification mail delivery.
type MailMgr interface {
	SendVerificationMail(email, username, code, link string) error
}

// MailManager delivers verification mails. It tries the provider with a
// templated body first, then the provider with a plain body, then plain SMTP.
// Only when every configured path fails does it report an error; account
// creation itself never depends on mail delivery.
type MailManager struct {
	config config.MailConfig
	hermes *hermes.Hermes
	mg     *mailgun.MailgunImpl
}

// NewMailManager initializes a new MailManager from the mail configuration.
func NewMailManager(cfg config.MailConfig, publicBaseURL string) MailMgr {
	log.Info("Initializing mail manager")

	if !cfg.Configured() {
		log.Warn("No mail delivery path configured, verification mails will not be sent")
	}

	var mg *mailgun.MailgunImpl
	if cfg.MailgunConfigured() {
		mg = mailgun.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey)
	}

	return &MailManager{
		config: cfg,
		mg:     mg,
		hermes: &hermes.Hermes{
			Theme:         new(hermes.Default),
			TextDirection: hermes.TDLeftToRight,
			Product: hermes.Product{
				Name:        "storiesV13",
				Link:        publicBaseURL,
				Copyright:   "© storiesV13",
				TroubleText: "If you’re having trouble with the button '{ACTION}', copy and paste the URL below into your web browser.",
			},
		},
	}
}

// SendVerificationMail sends the verification mail carrying both the six digit
// code and the clickable link. Delivery paths are tried in order until one
// succeeds.
func (mm *MailManager) SendVerificationMail(email, username, code, link string) error {
	var lastErr error

	if mm.mg != nil && mm.config.UseTemplate {
		if err := mm.sendTemplated(email, username, code, link); err == nil {
			return nil
		} else {
			log.Warning("Error sending templated verification mail: " + err.Error())
			lastErr = err
		}
	}

	if mm.mg != nil {
		if err := mm.sendPlainMailgun(email, username, code, link); err == nil {
			return nil
		} else {
			log.Warning("Error sending plain verification mail: " + err.Error())
			lastErr = err
		}
	}

	if mm.config.SMTPConfigured() {
		if err := mm.sendSMTP(email, username, code, link); err == nil {
			return nil
		} else {
			log.Warning("Error sending verification mail via SMTP: " + err.Error())
			lastErr = err
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no mail delivery path configured")
	}

	return lastErr
}

func (mm *MailManager) sendTemplated(email, username, code, link string) error {
	mailBody := hermes.Email{
		Body: hermes.Body{
			Name: username,
			Intros: []string{
				"Welcome to storiesV13! We're very excited to have you on board.",
				"Before you can sign in, we need to make sure this address is really yours.",
			},
			Actions: []hermes.Action{
				{
					Instructions: "Click the button below, or enter the following code on the verification page:",
					InviteCode:   code,
					Button: hermes.Button{
						Text: "Verify your email",
						Link: link,
					},
				},
			},
			Outros: []string{
				"The code and link expire after ten minutes. If they did, just request a new verification mail.",
			},
		},
	}

	emailBody, err := mm.hermes.GenerateHTML(mailBody)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(5*time.Second))
	defer cancel()

	message := mm.mg.NewMessage(mm.config.From, "Verify your email address", verificationText(username, code, link), email)
	message.SetHtml(emailBody)
	_, _, err = mm.mg.Send(ctx, message)
	if err != nil {
		return err
	}
	log.Debug("Verification mail sent to ", email)

	return nil
}

func (mm *MailManager) sendPlainMailgun(email, username, code, link string) error {
	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(5*time.Second))
	defer cancel()

	message := mm.mg.NewMessage(mm.config.From, "Verify your email address", verificationText(username, code, link), email)
	_, _, err := mm.mg.Send(ctx, message)
	if err != nil {
		return err
	}
	log.Debug("Plain verification mail sent to ", email)

	return nil
}

func (mm *MailManager) sendSMTP(email, username, code, link string) error {
	message := gomail.NewMessage()
	message.SetHeader("From", mm.config.SMTPFrom)
	message.SetHeader("To", email)
	message.SetHeader("Subject", "Verify your email address")
	message.SetBody("text/plain", verificationText(username, code, link))

	dialer := gomail.NewDialer(mm.config.SMTPHost, mm.config.SMTPPort, mm.config.SMTPUser, mm.config.SMTPPass)
	if err := dialer.DialAndSend(message); err != nil {
		return err
	}
	log.Debug("Verification mail sent via SMTP to ", email)

	return nil
}

func verificationText(username, code, link string) string {
	return fmt.Sprintf(
		"Hi %s,\n\nwelcome to storiesV13! Please verify your email address.\n\n"+
			"Your verification code: %s\n\nOr open this link: %s\n\n"+
			"The code and link expire after ten minutes.\n",
		username, code, link,
	)
}
