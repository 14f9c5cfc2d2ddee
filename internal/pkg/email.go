package pkg

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string // 发件人邮箱
	Password string // 授权码/密码
	From     string // 显示的发件人，可与 Username 相同
}

func SendEmail(cfg SMTPConfig, to, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	return d.DialAndSend(m)
}

// DutyAssignedHTML 管理员替人排值日后的通知邮件
func DutyAssignedHTML(fullName, dutyName, dateRange string) string {
	return fmt.Sprintf(`<p>Hallo %s,</p><p>du wurdest für den Dienst <b>%s</b> (%s) eingetragen.</p><p>Bitte trag dir den Termin ein.</p>`, fullName, dutyName, dateRange)
}
