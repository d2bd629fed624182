package sender

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/wyfcoding/zenstore/internal/notification/domain"
	"github.com/wyfcoding/zenstore/pkg/logger"
)

// SMTPSender 通过 SMTP 投递邮件
type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewSMTPSender(host, port, username, password, from string) domain.Sender {
	return &SMTPSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *SMTPSender) Send(ctx context.Context, target, subject, content string) error {
	logger.Info(ctx, "sending email", "target", target, "subject", subject)

	msg := []byte("To: " + target + "\r\n" +
		"From: " + s.from + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		content + "\r\n")

	auth := smtp.PlainAuth("", s.username, s.password, s.host)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	return smtp.SendMail(addr, auth, s.from, []string{target}, msg)
}
