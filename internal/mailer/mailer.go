package mailer

import (
	"fmt"
	"io"

	"ndelight-api/internal/config"
	"ndelight-api/internal/models"

	qrcode "github.com/skip2/go-qrcode"
	gomail "gopkg.in/gomail.v2"
)

// Mailer sends transactional email. Idempotency is the caller's
// responsibility; implementations just deliver.
type Mailer interface {
	SendOTP(to, otp string) error
	SendPreSignupOTP(to, otp string) error
	SendTicket(booking models.Booking, event models.Event) error
	SendResetLink(to, link string) error
	SendApproval(to, fullName, code string) error
	SendContactNotification(name, email, message string) error
}

// SMTP delivers through a plain SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	cfg    config.EmailConfig
	site   string
}

func NewSMTP(cfg config.EmailConfig, siteURL string) *SMTP {
	return &SMTP{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		cfg:    cfg,
		site:   siteURL,
	}
}

func (s *SMTP) send(from, to, subject, htmlBody string, attach func(*gomail.Message)) error {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	if attach != nil {
		attach(m)
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}

func (s *SMTP) SendOTP(to, otp string) error {
	body := fmt.Sprintf(`
        <div style="font-family: sans-serif; padding: 20px;">
            <h2>Verify your Email</h2>
            <p>Your verification code is:</p>
            <h1 style="letter-spacing: 5px; color: #ffd700;">%s</h1>
            <p>This code expires in 10 minutes.</p>
        </div>`, otp)
	return s.send(s.cfg.FromNoReply, to, "Verify your email - NDelight", body, nil)
}

func (s *SMTP) SendPreSignupOTP(to, otp string) error {
	body := fmt.Sprintf(`
        <div style="font-family: sans-serif; padding: 20px;">
            <h2>Verify Your Email</h2>
            <p>Use the code below to complete your sign up:</p>
            <h1 style="letter-spacing: 5px; color: #ffd700;">%s</h1>
            <p>This code expires in 10 minutes.</p>
        </div>`, otp)
	return s.send(s.cfg.FromNoReply, to, "Verify your email to Signup - NDelight", body, nil)
}

func (s *SMTP) SendTicket(booking models.Booking, event models.Event) error {
	customerName := booking.CustomerName
	if customerName == "" {
		customerName = "Guest"
	}

	body := fmt.Sprintf(`
        <div style="font-family: sans-serif; padding: 20px; border: 1px solid #ddd; max-width: 600px; margin: 0 auto;">
            <div style="background: #000; color: #ffd700; padding: 20px; text-align: center;">
                <h1>Your Ticket is Here! 🎟️</h1>
            </div>
            <div style="padding: 20px;">
                <p>Hi %s,</p>
                <p>You are all set for <strong>%s</strong>.</p>
                <div style="background: #f9f9f9; padding: 15px; border-left: 4px solid #ffd700; margin: 20px 0;">
                    <p><strong>Date:</strong> %s</p>
                    <p><strong>Location:</strong> %s</p>
                    <p><strong>Booking ID:</strong> #%s</p>
                    <p><strong>Amount Paid:</strong> ₹%.0f</p>
                </div>
                <p>Please show this email (or the attached QR pass) at the entry.</p>
            </div>
        </div>`,
		customerName, event.Title, event.Date.Format("Mon Jan 2 2006"), event.Location, booking.ID, booking.Amount)

	// The QR pass encodes the booking reference for gate scanning.
	png, err := qrcode.Encode("ndelight:booking:"+booking.ID, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("encode entry pass: %w", err)
	}
	attach := func(m *gomail.Message) {
		m.Attach("entry-pass.png", gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(png)
			return err
		}))
	}

	return s.send(s.cfg.FromTickets, booking.CustomerEmail,
		fmt.Sprintf("Your Ticket for %s", event.Title), body, attach)
}

func (s *SMTP) SendResetLink(to, link string) error {
	body := fmt.Sprintf(`
        <div style="font-family: sans-serif; padding: 20px;">
            <h2>Reset Password</h2>
            <p>Click the link below to reset your password. This link expires in 60 minutes.</p>
            <a href="%s" style="padding: 10px 20px; background: #ffd700; color: #000; text-decoration: none; border-radius: 5px; font-weight: bold;">Reset Password</a>
            <p style="margin-top: 20px; color: #666; font-size: 12px;">If you did not request this, please ignore this email.</p>
        </div>`, link)
	return s.send(s.cfg.FromNoReply, to, "Reset Your Password - NDelight", body, nil)
}

func (s *SMTP) SendApproval(to, fullName, code string) error {
	body := fmt.Sprintf(`
        <div style="font-family: sans-serif; padding: 20px; text-align: center;">
            <h1>Welcome to the Club! 🚀</h1>
            <p>Hi %s,</p>
            <p>Your influencer application for <strong>NDelight</strong> has been approved.</p>
            <p>Your Request Code: <strong>%s</strong></p>
            <p>You can now log in to your dashboard to track earnings and bookings.</p>
            <a href="%s/login.html" style="display:inline-block; padding: 10px 20px; background: #ffd700; color: #000; text-decoration: none; border-radius: 5px; font-weight: bold; margin-top: 20px;">Go to Dashboard</a>
        </div>`, fullName, code, s.site)
	return s.send(s.cfg.FromAdmin, to, "You are Approved! 🌟", body, nil)
}

func (s *SMTP) SendContactNotification(name, email, message string) error {
	body := fmt.Sprintf(`
        <h2>New Website Inquiry</h2>
        <p><strong>Name:</strong> %s</p>
        <p><strong>Email:</strong> %s</p>
        <div style="background:#f9f9f9; padding:15px; border-left:4px solid #ffd700;">
            <p style="white-space: pre-wrap;">%s</p>
        </div>`, name, email, message)
	return s.send(s.cfg.FromNoReply, s.cfg.ContactInbox,
		fmt.Sprintf("New Inquiry from %s", name), body, nil)
}
