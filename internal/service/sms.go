package service

import (
	"context"
	"fmt"

	"fd-rental-backend/internal/logger"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

type twilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, fromNumber string) SMSSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username:   accountSID,
		Password:   authToken,
		AccountSid: accountSID,
	})
	return &twilioSender{client: client, from: fromNumber}
}

func (s *twilioSender) SendSMS(ctx context.Context, to, body string) error {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	logger.ExternalServiceCall(ctx, "twilio", "create_message", "to", to)
	resp, err := s.client.Api.CreateMessage(params)
	if err != nil {
		err = fmt.Errorf("failed to send SMS: %w", err)
		logger.ExternalServiceResult(ctx, "twilio", "create_message", err)
		return err
	}
	sid := ""
	if resp != nil && resp.Sid != nil {
		sid = *resp.Sid
	}
	logger.ExternalServiceResult(ctx, "twilio", "create_message", nil, "sid", sid)
	return nil
}
