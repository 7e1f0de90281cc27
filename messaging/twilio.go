package messaging

import (
	"context"
	"fmt"
	"strings"

	"villagestay/config"
	"villagestay/utils"

	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
	"go.uber.org/zap"
)

// TwilioMessenger delivers outbound texts over the Twilio WhatsApp API.
type TwilioMessenger struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioMessenger(cfg *config.Config) (*TwilioMessenger, error) {
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioWhatsAppFrom == "" {
		return nil, fmt.Errorf("missing Twilio credentials in configuration")
	}

	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.TwilioAccountSID,
		Password: cfg.TwilioAuthToken,
	})

	return &TwilioMessenger{client: client, from: cfg.TwilioWhatsAppFrom}, nil
}

// Send delivers one message to a channel identity. Identities carry the
// "@c.us" suffix internally; Twilio wants "whatsapp:+<number>".
func (t *TwilioMessenger) Send(ctx context.Context, to, body string) error {
	number := strings.TrimSuffix(to, "@c.us")
	if !strings.HasPrefix(number, "+") {
		number = "+" + number
	}

	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(t.from)
	params.SetTo(fmt.Sprintf("whatsapp:%s", number))
	params.SetBody(body)

	resp, err := t.client.Api.CreateMessage(params)
	if err != nil {
		utils.GetLogger().Error("Send: twilio message failed",
			zap.String("to", number), zap.Error(err))
		return fmt.Errorf("failed to send message: %w", err)
	}

	if resp.Sid != nil {
		utils.GetLogger().Debug("message sent", zap.String("sid", *resp.Sid))
	}
	return nil
}
