package mail

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
)

// OTPMailer delivers password-reset codes over SMTP.
type OTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewOTPMailer(host, port, username, password, from string) *OTPMailer {
	return &OTPMailer{
		host:     strings.TrimSpace(host),
		port:     strings.TrimSpace(port),
		username: username,
		password: password,
		from:     strings.TrimSpace(from),
	}
}

func (m *OTPMailer) SendOTP(ctx context.Context, email, otp string) error {
	if m == nil {
		return errors.New("mailer not configured")
	}
	if m.host == "" || m.port == "" || m.from == "" {
		return errors.New("mailer missing configuration")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	subject := "Your OTP Code"
	body := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; padding: 20px;">
<h2>Password Reset Request</h2>
<p>Your OTP code is:</p>
<h1 style="background:#f4f4f4; display:inline-block; padding:10px 20px; border-radius:5px;">%s</h1>
<p style="margin-top:20px;">This OTP will expire in <b>5 minutes</b>.</p>
<p>If you did not request this, you can ignore this email.</p>
</div>`, otp)

	message := strings.Builder{}
	message.WriteString(fmt.Sprintf("From: \"Password Reset\" <%s>\r\n", m.from))
	message.WriteString(fmt.Sprintf("To: %s\r\n", email))
	message.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	message.WriteString("MIME-Version: 1.0\r\n")
	message.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	message.WriteString(body)
	message.WriteString("\r\n")

	addr := net.JoinHostPort(m.host, m.port)
	var auth smtp.Auth
	if m.username != "" || m.password != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{email}, []byte(message.String()))
}
