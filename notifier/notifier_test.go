package notifier

import (
	"context"
	"errors"
	"sekarnet/domain"
	"sekarnet/websocket"
	"strings"
	"testing"
)

type captureEmail struct {
	to  string
	msg Rendered
}

func (c *captureEmail) SendEmail(_ context.Context, to string, msg Rendered) error {
	c.to, c.msg = to, msg
	return nil
}

type captureSMS struct{ to, body string }

func (c *captureSMS) SendSMS(_ context.Context, to, body string) error {
	c.to, c.body = to, body
	return nil
}

type capturePush struct {
	recipient string
	msg       *websocket.Message
}

func (c *capturePush) Publish(recipient string, msg *websocket.Message) error {
	c.recipient, c.msg = recipient, msg
	return nil
}

func TestTemplatesRenderWithoutPlaceholders(t *testing.T) {
	data := map[string]interface{}{
		"fullName":       "Alice",
		"username":       "alice",
		"email":          "alice@mail.com",
		"customerName":   "Alice",
		"period":         "Mei 2025",
		"dueDate":        "Sabtu, 10 Mei 2025",
		"billNumber":     "INV-000001",
		"amount":         "Rp 250.000",
		"scheduledDate":  "Senin, 12 Mei 2025",
		"address":        "Jl. Melati 3",
		"packageName":    "Home 20",
		"technicianName": "Budi",
		"ticketId":       float64(7),
		"subject":        "Internet mati",
		"status":         "in_progress",
		"update":         "Teknisi menuju lokasi",
		"title":          "Pemeliharaan",
		"message":        "Gangguan pukul 01.00",
	}
	for key := range templates {
		r, err := Render(key, data)
		if err != nil {
			t.Fatalf("%s: %v", key, err)
		}
		for _, part := range []string{r.Subject, r.HTML, r.Text} {
			if strings.Contains(part, "<no value>") || strings.Contains(part, "{{") {
				t.Fatalf("%s rendered a placeholder: %q", key, part)
			}
		}
		if r.Subject == "" || r.Text == "" {
			t.Fatalf("%s rendered an empty subject or text", key)
		}
	}

	r, _ := Render(TemplateSupportTicketUpdate, data)
	if !strings.Contains(r.Text, "#7") {
		t.Fatalf("whole floats should render as integers: %q", r.Text)
	}
}

func TestRenderMissingKeys(t *testing.T) {
	r, err := Render(TemplateWelcome, map[string]interface{}{"fullName": "Alice"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(r.HTML, "<no value>") || strings.Contains(r.Text, "<no value>") {
		t.Fatalf("missing keys must render empty")
	}
	if _, err := Render("nope", nil); err == nil {
		t.Fatalf("expected an error for an unknown template")
	}
}

func TestRenderEscapesHTML(t *testing.T) {
	r, err := Render(TemplateCustom, map[string]interface{}{"subject": "Info", "message": "<script>x</script>"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(r.HTML, "<script>") {
		t.Fatalf("html body was not escaped: %s", r.HTML)
	}
}

func TestSendRouting(t *testing.T) {
	email, sms, push := &captureEmail{}, &captureSMS{}, &capturePush{}
	n := New(email, sms, push)
	ctx := context.Background()

	err := n.Send(ctx, domain.OutboxMessage{
		Channel:   domain.ChannelEmail,
		Template:  TemplatePaymentConfirmed,
		Recipient: "alice@mail.com",
		Payload:   map[string]interface{}{"customerName": "Alice", "billNumber": "INV-000001"},
	})
	if err != nil || email.to != "alice@mail.com" || !strings.Contains(email.msg.HTML, "INV-000001") {
		t.Fatalf("email not routed: %v %+v", err, email)
	}

	err = n.Send(ctx, domain.OutboxMessage{
		Channel:   domain.ChannelSMS,
		Template:  TemplateInstallationScheduled,
		Recipient: "+6281234567890",
		Payload:   map[string]interface{}{"scheduledDate": "Senin", "technicianName": "Budi"},
	})
	if err != nil || sms.to != "+6281234567890" || !strings.Contains(sms.body, "Budi") {
		t.Fatalf("sms not routed: %v %+v", err, sms)
	}

	err = n.Send(ctx, domain.OutboxMessage{
		Channel:   domain.ChannelPush,
		Template:  "notification",
		Recipient: "user:3",
		Payload:   map[string]interface{}{"type": "payment_reminder", "data": map[string]interface{}{"billId": 1}},
	})
	if err != nil || push.recipient != "user:3" || push.msg.Type != "payment_reminder" {
		t.Fatalf("push not routed: %v %+v", err, push)
	}

	if err := n.Send(ctx, domain.OutboxMessage{Channel: "fax"}); err == nil {
		t.Fatalf("expected an error for an unknown channel")
	}
}

func TestDisabledChannels(t *testing.T) {
	var twilio *TwilioSMS
	n := New(nil, twilio, nil)
	ctx := context.Background()

	for _, ch := range []string{domain.ChannelEmail, domain.ChannelSMS, domain.ChannelPush} {
		err := n.Send(ctx, domain.OutboxMessage{Channel: ch, Template: TemplateCustom, Recipient: "x"})
		if !errors.Is(err, ErrChannelDisabled) {
			t.Fatalf("%s: expected ErrChannelDisabled, got %v", ch, err)
		}
	}
	if err := n.SendEmail(ctx, "a@b.c", TemplateCustom, nil); !errors.Is(err, ErrChannelDisabled) {
		t.Fatalf("expected ErrChannelDisabled, got %v", err)
	}
	if NewTwilioSMS(TwilioConfig{}) != nil {
		t.Fatalf("twilio without credentials should be disabled")
	}
}
