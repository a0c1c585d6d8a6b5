package services

import (
	"context"
	"fmt"

	"github.com/rpupo63/portfolio-backend/config"
	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// twilioMessages is the part of the Twilio REST client used here.
type twilioMessages interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type TwilioClient struct {
	api  twilioMessages
	from string
}

func NewTwilioClient(cfg config.SMSConfig) *TwilioClient {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioClient{api: client.Api, from: cfg.FromNumber}
}

// SendSMS sends a text message. The Twilio client has no context support, so
// ctx is only checked before the call.
func (c *TwilioClient) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(c.from)
	params.SetBody(body)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("twilio send to %s: %w", to, err)
	}

	if resp.Sid != nil {
		log.Info().Str("sid", *resp.Sid).Msg("Successfully sent SMS via Twilio")
	}
	return nil
}
