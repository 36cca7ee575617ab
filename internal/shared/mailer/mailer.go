// Package mailer 注册确认邮件发送。
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer SMTP邮件发送器
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New 创建邮件发送器
func New(host string, port int, username, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// SendConfirmation 发送合作方注册确认邮件，confirmURL为带token的激活链接（24小时有效）
func (m *Mailer) SendConfirmation(to, partnerName, confirmURL string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "UniSew - Xác nhận đăng ký đối tác")
	msg.SetBody("text/html", fmt.Sprintf(`
		<p>Xin chào %s,</p>
		<p>Cảm ơn bạn đã đăng ký trở thành đối tác của UniSew.
		Vui lòng nhấn vào liên kết dưới đây để kích hoạt tài khoản (hiệu lực 24 giờ):</p>
		<p><a href="%s">Kích hoạt tài khoản</a></p>
		<p>Nếu bạn không thực hiện đăng ký này, vui lòng bỏ qua email.</p>
	`, partnerName, confirmURL))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("发送确认邮件失败: %w", err)
	}
	return nil
}
