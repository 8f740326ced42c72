package viewstate

import (
	"sync"
	"time"
)

const DefaultNoticeTTL = 3000 * time.Millisecond

type Channel string

const (
	ChannelError   Channel = "error"
	ChannelSuccess Channel = "success"
)

type NoticeState struct {
	Error   string `json:"error,omitempty"`
	Success string `json:"success,omitempty"`
}

type slot struct {
	msg   string
	gen   uint64
	timer Timer
}

// Notices holds one error and one success message. Each channel keeps a single message that
// is replaced by the next one and disappears after the TTL unless dismissed first.
type Notices struct {
	mu       sync.Mutex
	ttl      time.Duration
	clock    Clock
	slots    map[Channel]*slot
	onChange func()
}

func NewNotices(clock Clock, ttl time.Duration, onChange func()) *Notices {
	if clock == nil {
		clock = realClock{}
	}
	if ttl <= 0 {
		ttl = DefaultNoticeTTL
	}
	if onChange == nil {
		onChange = func() {}
	}
	return &Notices{
		ttl:   ttl,
		clock: clock,
		slots: map[Channel]*slot{
			ChannelError:   {},
			ChannelSuccess: {},
		},
		onChange: onChange,
	}
}

func (n *Notices) Error(msg string) { n.Set(ChannelError, msg) }

func (n *Notices) Success(msg string) { n.Set(ChannelSuccess, msg) }

// Set replaces the message of ch and restarts its timer. An empty message dismisses.
func (n *Notices) Set(ch Channel, msg string) {
	if msg == "" {
		n.Dismiss(ch)
		return
	}
	n.mu.Lock()
	s, ok := n.slots[ch]
	if !ok {
		n.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.gen++
	gen := s.gen
	s.msg = msg
	s.timer = n.clock.AfterFunc(n.ttl, func() { n.expire(ch, gen) })
	n.mu.Unlock()
	n.onChange()
}

func (n *Notices) expire(ch Channel, gen uint64) {
	n.mu.Lock()
	s := n.slots[ch]
	if s.gen != gen || s.msg == "" {
		n.mu.Unlock()
		return
	}
	s.msg = ""
	s.timer = nil
	n.mu.Unlock()
	n.onChange()
}

func (n *Notices) Dismiss(ch Channel) {
	n.mu.Lock()
	s, ok := n.slots[ch]
	if !ok || s.msg == "" {
		n.mu.Unlock()
		return
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
	s.msg = ""
	n.mu.Unlock()
	n.onChange()
}

func (n *Notices) Current(ch Channel) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	if s, ok := n.slots[ch]; ok {
		return s.msg
	}
	return ""
}

func (n *Notices) State() NoticeState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return NoticeState{Error: n.slots[ChannelError].msg, Success: n.slots[ChannelSuccess].msg}
}

// Stop cancels pending timers without clearing the messages.
func (n *Notices) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, s := range n.slots {
		if s.timer != nil {
			s.timer.Stop()
			s.timer = nil
		}
		s.gen++
	}
}
