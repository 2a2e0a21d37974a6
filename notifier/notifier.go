package notifier

import (
	"context"
	"errors"
	"fmt"
	"sekarnet/domain"
	"sekarnet/websocket"
)

var ErrChannelDisabled = errors.New("notification channel not configured")

// Pusher delivers realtime frames; the websocket hub implements it.
type Pusher interface {
	Publish(recipient string, msg *websocket.Message) error
}

// Notifier routes outbox rows to the sender for their channel. Nil senders
// make their channel fail with ErrChannelDisabled.
type Notifier struct {
	email EmailSender
	sms   SMSSender
	push  Pusher
}

func New(email EmailSender, sms SMSSender, push Pusher) *Notifier {
	n := &Notifier{email: email, push: push}
	// avoid a typed-nil interface from a nil *TwilioSMS
	if t, ok := sms.(*TwilioSMS); !ok || t != nil {
		n.sms = sms
	}
	return n
}

func (n *Notifier) Send(ctx context.Context, msg domain.OutboxMessage) error {
	data := map[string]interface{}(msg.Payload)

	switch msg.Channel {
	case domain.ChannelEmail:
		if n.email == nil {
			return ErrChannelDisabled
		}
		rendered, err := Render(msg.Template, data)
		if err != nil {
			return err
		}
		return n.email.SendEmail(ctx, msg.Recipient, rendered)

	case domain.ChannelSMS:
		if n.sms == nil {
			return ErrChannelDisabled
		}
		body, _ := data["message"].(string)
		if body == "" {
			rendered, err := Render(msg.Template, data)
			if err != nil {
				return err
			}
			body = rendered.Text
		}
		return n.sms.SendSMS(ctx, msg.Recipient, body)

	case domain.ChannelPush:
		if n.push == nil {
			return ErrChannelDisabled
		}
		eventType, _ := data["type"].(string)
		if eventType == "" {
			eventType = "notification"
		}
		return n.push.Publish(msg.Recipient, &websocket.Message{Type: eventType, Data: data["data"]})
	}
	return fmt.Errorf("unknown outbox channel %q", msg.Channel)
}

// SendEmail renders template and mails it directly, bypassing the outbox.
func (n *Notifier) SendEmail(ctx context.Context, to, template string, data map[string]interface{}) error {
	if n.email == nil {
		return ErrChannelDisabled
	}
	rendered, err := Render(template, data)
	if err != nil {
		return err
	}
	return n.email.SendEmail(ctx, to, rendered)
}
