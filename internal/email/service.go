package email

import (
	"fmt"
	"mime"
	"net/smtp"

	"github.com/MubarakOnGit/clickwave-launchpad/internal/domain/order"
)

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Service handles email sending via SMTP
type Service struct {
	host     string
	port     string
	from     string
	sendMail sendMailFunc
}

// NewService creates a new email service
func NewService(host, port, from string) *Service {
	return &Service{
		host:     host,
		port:     port,
		from:     from,
		sendMail: smtp.SendMail,
	}
}

// SendTrackingEmail sends the order confirmation with the tracking link
func (s *Service) SendTrackingEmail(to, customerName, trackingID, trackingURL string) error {
	subject := fmt.Sprintf("Order Confirmation - Tracking ID: %s", trackingID)
	body := BuildTrackingEmailBody(customerName, trackingID, trackingURL)
	return s.send(to, subject, body)
}

// SendStatusUpdate tells the customer their order moved to a new status
func (s *Service) SendStatusUpdate(to, customerName, trackingID string, info order.StatusInfo, trackingURL string) error {
	subject := fmt.Sprintf("Order Update - %s - Tracking ID: %s", info.Label, trackingID)
	body := BuildStatusUpdateBody(customerName, trackingID, info, trackingURL)
	return s.send(to, subject, body)
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, mime.QEncoding.Encode("UTF-8", subject), body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)
	if err := s.sendMail(addr, nil, s.from, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
