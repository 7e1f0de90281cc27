package models

// InboundMessage is one message delivered by the messaging transport.
// From is the stable channel identity (e.g. "14155552671@c.us").
type InboundMessage struct {
	From       string `json:"from"`
	Body       string `json:"body"`
	IsGroup    bool   `json:"is_group"`
	IsStatus   bool   `json:"is_status"`
	IsFromSelf bool   `json:"is_from_self"`
}
