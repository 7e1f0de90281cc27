package conversation

import (
	"context"
	"time"

	"villagestay/config"
	"villagestay/messaging"
	"villagestay/services/account"
	"villagestay/services/booking"
	"villagestay/services/intelligence"
	"villagestay/services/inventory"
	"villagestay/services/session"
	"villagestay/models"
	"villagestay/utils"

	"go.uber.org/zap"
)

const turnTimeout = 30 * time.Second

// Engine drives the per-identity conversation: it routes each inbound
// message through the state machine and sends exactly one reply.
type Engine struct {
	Sessions  session.Store
	Accounts  account.Service
	Inventory inventory.Service
	Bookings  booking.Engine
	Advisor   intelligence.Advisor
	Messenger messaging.Messenger
	Clock     utils.Clock

	BotName    string
	AdminPhone string

	routes routeTable
	mail   mailboxes
}

// NewEngine wires a conversation engine and validates its routing table.
func NewEngine(
	sessions session.Store,
	accounts account.Service,
	inv inventory.Service,
	bookings booking.Engine,
	advisor intelligence.Advisor,
	messenger messaging.Messenger,
	clock utils.Clock,
	cfg *config.Config,
) (*Engine, error) {
	e := &Engine{
		Sessions:   sessions,
		Accounts:   accounts,
		Inventory:  inv,
		Bookings:   bookings,
		Advisor:    advisor,
		Messenger:  messenger,
		Clock:      clock,
		BotName:    cfg.BotName,
		AdminPhone: cfg.AdminPhone,
	}
	e.routes = e.buildRoutes()
	if err := e.routes.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// turn is the per-message handler context.
type turn struct {
	sess     *models.Session
	identity string
	// Raw message body, whitespace-trimmed.
	input string
}

// Enqueue adds an inbound message to its sender's queue and returns
// immediately. Queued messages from one sender run strictly in the order
// they were enqueued; distinct senders proceed concurrently.
func (e *Engine) Enqueue(msg models.InboundMessage) {
	if msg.IsGroup || msg.IsStatus || msg.IsFromSelf {
		return
	}
	e.mail.post(msg, func(next models.InboundMessage) {
		e.Dispatch(context.Background(), next)
	})
}

// Dispatch processes one inbound message end to end. Turns for a single
// sender must not run concurrently; Enqueue provides that serialization.
func (e *Engine) Dispatch(ctx context.Context, msg models.InboundMessage) {
	if msg.IsGroup || msg.IsStatus || msg.IsFromSelf {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, turnTimeout)
	defer cancel()

	sess, err := e.Sessions.GetOrCreate(ctx, msg.From)
	if err != nil {
		utils.GetLogger().Error("Dispatch: session load failed",
			zap.String("identity", msg.From), zap.Error(err))
		return
	}
	sess.LastActivityAt = e.Clock.Now()

	reply := e.handle(ctx, sess, msg)

	if err := e.Sessions.Save(ctx, sess); err != nil {
		utils.GetLogger().Error("Dispatch: session save failed",
			zap.String("identity", msg.From), zap.Error(err))
	}
	if err := e.Messenger.Send(ctx, msg.From, reply); err != nil {
		utils.GetLogger().Error("Dispatch: reply send failed",
			zap.String("identity", msg.From), zap.Error(err))
	}
}

// handle routes the message to the handler for the session's current state.
// A handler panic produces the generic recovery reply instead of dropping
// the message.
func (e *Engine) handle(ctx context.Context, sess *models.Session, msg models.InboundMessage) (reply string) {
	defer func() {
		if r := recover(); r != nil {
			utils.GetLogger().Error("handle: handler panicked",
				zap.String("identity", msg.From),
				zap.String("step", string(sess.Step)),
				zap.Any("panic", r))
			reply = `Sorry, something went wrong. Please try again or type "start" to begin.`
		}
	}()

	t := &turn{sess: sess, identity: msg.From, input: trimInput(msg.Body)}

	handler, ok := e.routes[routeKey{sess.Step, sess.SubStep}]
	if !ok {
		// Unknown state, e.g. a session persisted by an older build.
		sess.ToMainMenu()
		return e.helpText()
	}
	return handler(ctx, t)
}
