package conversation

import (
	"sync"

	"villagestay/models"
)

// mailboxes gives each channel identity a FIFO queue so messages apply in
// the order they were posted, even though the webhook acknowledges before
// the turn runs. An identity holds a map entry only while its queue is
// being worked; idle identities leave nothing behind.
type mailboxes struct {
	mu   sync.Mutex
	open map[string]*mailbox
}

type mailbox struct {
	pending []models.InboundMessage
}

// post appends msg to its sender's queue. The first message for an idle
// sender also starts that sender's drainer; an entry in the map means a
// drainer is working that queue.
func (m *mailboxes) post(msg models.InboundMessage, run func(models.InboundMessage)) {
	m.mu.Lock()
	if m.open == nil {
		m.open = make(map[string]*mailbox)
	}
	box, active := m.open[msg.From]
	if !active {
		box = &mailbox{}
		m.open[msg.From] = box
	}
	box.pending = append(box.pending, msg)
	m.mu.Unlock()

	if !active {
		go m.drain(msg.From, box, run)
	}
}

// drain runs queued messages one at a time and removes the sender's entry
// once the queue is empty.
func (m *mailboxes) drain(identity string, box *mailbox, run func(models.InboundMessage)) {
	for {
		m.mu.Lock()
		if len(box.pending) == 0 {
			delete(m.open, identity)
			m.mu.Unlock()
			return
		}
		next := box.pending[0]
		box.pending = box.pending[1:]
		m.mu.Unlock()

		run(next)
	}
}

// idle reports whether every queue has drained.
func (m *mailboxes) idle() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.open) == 0
}
