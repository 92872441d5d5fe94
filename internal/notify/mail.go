package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
)

type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// MailNotifier emails late arrivals to a fixed recipient list. Other events are ignored.
type MailNotifier struct {
	sender mailSender
	from   string
	to     []string
}

func NewMailNotifier(host string, port int, username, password, from string, to []string) *MailNotifier {
	return &MailNotifier{
		sender: gomail.NewDialer(host, port, username, password),
		from:   from,
		to:     to,
	}
}

func (n *MailNotifier) Notify(_ context.Context, event Event) error {
	if event.Type != EventLateArrival || len(n.to) == 0 {
		return nil
	}
	if err := n.sender.DialAndSend(n.lateArrivalMessage(event)); err != nil {
		return fmt.Errorf("send late arrival mail: %w", err)
	}
	return nil
}

func (n *MailNotifier) lateArrivalMessage(event Event) *gomail.Message {
	who := event.UserName
	if who == "" {
		who = fmt.Sprintf("user #%d", event.UserID)
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", n.to...)
	m.SetHeader("Subject", fmt.Sprintf("Late arrival: %s on %s", who, event.Date))
	m.SetBody("text/plain", fmt.Sprintf("%s logged in at %s, after the daily cutoff.", who, event.At.Format("15:04:05")))
	return m
}
