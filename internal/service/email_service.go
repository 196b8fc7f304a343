package service

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strings"
	"time"

	"github.com/tuanasish/leave-request/internal/config"
	"github.com/tuanasish/leave-request/internal/i18n"
)

const emailSendTimeout = 15 * time.Second

// EmailService 邮件发送服务
type EmailService struct {
	cfg *config.EmailConfig
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled 是否启用 SMTP 投递
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// SendOTP 发送验证码邮件
func (s *EmailService) SendOTP(ctx context.Context, toEmail, code, otpType string, expireMinutes int, locale string) error {
	subject, text := buildOTPEmailContent(code, otpType, expireMinutes, locale)
	return s.send(ctx, toEmail, subject, text)
}

func (s *EmailService) send(ctx context.Context, toEmail, subject, text string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	ctx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()
	client, err := s.dial(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if s.cfg.Username != "" || s.cfg.Password != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
				return err
			}
		}
	}
	msg := buildEmailMessage(buildFromAddress(s.cfg.From, s.cfg.FromName), toEmail, subject, text)
	return normalizeEmailSendError(deliver(client, s.cfg.From, toEmail, []byte(msg)))
}

// dial 建立 SMTP 连接：use_ssl 为隐式 TLS，use_tls 为 STARTTLS
func (s *EmailService) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprintf("%d", s.cfg.Port))
	tlsConfig := &tls.Config{ServerName: s.cfg.Host}

	var conn net.Conn
	var err error
	if s.cfg.UseSSL {
		dialer := &tls.Dialer{Config: tlsConfig}
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	} else {
		var dialer net.Dialer
		conn, err = dialer.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if s.cfg.UseTLS && !s.cfg.UseSSL {
		if ok, _ := client.Extension("STARTTLS"); !ok {
			client.Close()
			return nil, errors.New("smtp server does not support STARTTLS")
		}
		if err := client.StartTLS(tlsConfig); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

func deliver(client *smtp.Client, from, to string, msg []byte) error {
	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func buildOTPEmailContent(code, otpType string, expireMinutes int, locale string) (string, string) {
	purposeKey := "email.otp.purpose." + strings.ToLower(strings.TrimSpace(otpType))
	purpose := i18n.T(locale, purposeKey)
	if purpose == purposeKey {
		purpose = i18n.T(locale, "email.otp.purpose.default")
	}
	subject := i18n.Sprintf(locale, "email.otp.subject", purpose)
	body := i18n.Sprintf(locale, "email.otp.body", code, purpose, expireMinutes)
	return subject, body
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildEmailMessage(from, to, subject, text string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("Content-Transfer-Encoding: 8bit\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(text)
	return buf.String()
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

var recipientRejectedKeywords = []string{
	"no such recipient",
	"no such user",
	"recipient not found",
	"recipient address rejected",
	"invalid recipient",
	"user unknown",
	"unknown user",
	"unknown mailbox",
	"mailbox unavailable",
}

// isEmailRecipientRejected 收件人不存在或被拒收（550/551/553 或常见文案）
func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	var protoErr *textproto.Error
	if errors.As(err, &protoErr) {
		switch protoErr.Code {
		case 550, 551, 553:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	for _, keyword := range recipientRejectedKeywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
