package notifier

import (
	"context"
	"errors"
	"sekarnet/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// SMSSender delivers a text message to one phone number.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	From       string
}

type TwilioSMS struct {
	client *twilio.RestClient
	from   string
}

// NewTwilioSMS returns nil when credentials are missing.
func NewTwilioSMS(cfg TwilioConfig) *TwilioSMS {
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.From == "" {
		return nil
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSMS{client: client, from: cfg.From}
}

func (s *TwilioSMS) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	phone := utils.NormalizePhone(to)
	if phone == "" {
		return errors.New("empty phone number")
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetTo(phone)
	params.SetFrom(s.from)
	params.SetBody(body)

	_, err := s.client.Api.CreateMessage(params)
	return err
}
