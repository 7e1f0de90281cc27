package handlers

import (
	"net/http"
	"strings"

	"villagestay/models"
	"villagestay/services/conversation"
	"villagestay/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives Twilio WhatsApp callbacks and feeds them to the
// conversation engine.
type WebhookHandler struct {
	Engine  *conversation.Engine
	BotFrom string
}

func NewWebhookHandler(engine *conversation.Engine, botFrom string) *WebhookHandler {
	return &WebhookHandler{Engine: engine, BotFrom: botFrom}
}

// twilioInbound is the form payload Twilio posts for WhatsApp messages.
type twilioInbound struct {
	MessageSid string `form:"MessageSid"`
	From       string `form:"From"` // "whatsapp:+919876543210"
	To         string `form:"To"`
	Body       string `form:"Body"`
	SmsStatus  string `form:"SmsStatus"`
}

// HandleWebhook acknowledges the callback immediately and hands the message
// to the sender's queue; the reply goes out through the messenger, not the
// webhook response. Queueing here, before the 200, is what keeps two rapid
// messages from one sender in submission order.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	var payload twilioInbound
	if err := c.ShouldBind(&payload); err != nil {
		utils.GetLogger().Warn("HandleWebhook: invalid payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook payload"})
		return
	}

	msg := inboundFromTwilio(payload, h.BotFrom)
	if msg.From != "" {
		h.Engine.Enqueue(msg)
	}

	c.Status(http.StatusOK)
}

// inboundFromTwilio normalizes a Twilio callback into the channel message
// model. Identities are stored as "<number>@c.us" without the plus.
func inboundFromTwilio(p twilioInbound, botFrom string) models.InboundMessage {
	number := strings.TrimPrefix(p.From, "whatsapp:")
	identity := ""
	if number != "" {
		identity = strings.TrimPrefix(number, "+") + "@c.us"
	}

	return models.InboundMessage{
		From:       identity,
		Body:       p.Body,
		IsGroup:    strings.Contains(p.From, "@g.us"),
		IsStatus:   p.Body == "" && p.SmsStatus != "",
		IsFromSelf: p.From != "" && p.From == botFrom,
	}
}
