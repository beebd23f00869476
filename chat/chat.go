package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/zigo/domain"
	"github.com/lazharichir/zigo/domain/events"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrEmptyVendor  = errors.New("vendor is required")
	ErrClosed       = errors.New("chat service is closed")
)

const (
	DefaultReplyDelay = time.Second
	CannedReply       = "Thank you for your inquiry! I'll get back to you with more details shortly."
)

type Sender string

const (
	SenderUser   Sender = "user"
	SenderVendor Sender = "vendor"
)

// ConversationID identifies the thread between an event's planner and one vendor
type ConversationID struct {
	EventID string `json:"eventId"`
	Vendor  string `json:"vendor"`
}

func (c ConversationID) String() string { return c.EventID + "/" + c.Vendor }

// normalized trims the vendor so every entry point lands on the same thread
func (c ConversationID) normalized() ConversationID {
	c.Vendor = strings.TrimSpace(c.Vendor)
	return c
}

type Message struct {
	ID     string    `json:"id"`
	Sender Sender    `json:"sender"`
	Text   string    `json:"text"`
	Vendor string    `json:"vendor"`
	SentAt time.Time `json:"sentAt"`
}

// MessageAppended is published for every user message and vendor reply
type MessageAppended struct {
	EventID string  `json:"eventId"`
	Vendor  string  `json:"vendor"`
	Message Message `json:"message"`
}

func (m MessageAppended) Name() string { return "CHAT_MESSAGE_APPENDED" }

// Responder produces the vendor's answer to a user message. The context is
// cancelled when the pending reply is cancelled.
type Responder interface {
	Reply(ctx context.Context, conv ConversationID, msg Message) (string, error)
}

// CannedResponder always answers with the same text
type CannedResponder struct {
	Text string
}

func (r CannedResponder) Reply(ctx context.Context, _ ConversationID, _ Message) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if r.Text == "" {
		return CannedReply, nil
	}
	return r.Text, nil
}

// EventLookup is satisfied by *domain.Store
type EventLookup interface {
	HasEvent(eventID string) bool
}

type pendingReply struct {
	timer  *time.Timer
	cancel context.CancelFunc
}

// Service keeps vendor conversations in memory and schedules simulated replies.
type Service struct {
	lookup    EventLookup
	responder Responder
	delay     time.Duration
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger

	mu            sync.Mutex
	conversations map[ConversationID][]Message
	pending       map[ConversationID]map[uint64]*pendingReply
	// events dropped by DropEvent; their ids are never reused
	dropped map[string]struct{}
	seq           uint64
	closed        bool
	inflight      sync.WaitGroup

	handlersMu sync.RWMutex
	handlers   []events.Handler
}

type Option func(*Service)

func WithReplyDelay(d time.Duration) Option {
	return func(s *Service) { s.delay = d }
}

func WithResponder(r Responder) Option {
	return func(s *Service) { s.responder = r }
}

func WithClock(fn func() time.Time) Option {
	return func(s *Service) { s.now = fn }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Service) { s.newID = fn }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) { s.log = logger.With().Str("component", "chat").Logger() }
}

// NewService creates a chat service answering with the canned reply after DefaultReplyDelay
func NewService(lookup EventLookup, opts ...Option) *Service {
	s := &Service{
		lookup:        lookup,
		responder:     CannedResponder{},
		delay:         DefaultReplyDelay,
		now:           time.Now,
		newID:         uuid.NewString,
		log:           zerolog.Nop(),
		conversations: make(map[ConversationID][]Message),
		pending:       make(map[ConversationID]map[uint64]*pendingReply),
		dropped:       make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers a handler notified for every appended message
func (s *Service) Subscribe(handler events.Handler) {
	s.handlersMu.Lock()
	defer s.handlersMu.Unlock()
	s.handlers = append(s.handlers, handler)
}

func (s *Service) emit(conv ConversationID, msg Message) {
	event := MessageAppended{EventID: conv.EventID, Vendor: conv.Vendor, Message: msg}

	s.handlersMu.RLock()
	handlers := append([]events.Handler(nil), s.handlers...)
	s.handlersMu.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
}

// Send appends a user message and schedules the vendor's reply
func (s *Service) Send(eventID, vendor, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, ErrEmptyMessage
	}
	conv := ConversationID{EventID: eventID, Vendor: vendor}.normalized()
	if conv.Vendor == "" {
		return Message{}, ErrEmptyVendor
	}
	if !s.lookup.HasEvent(eventID) {
		return Message{}, domain.ErrEventNotFound
	}

	msg := Message{
		ID:     s.newID(),
		Sender: SenderUser,
		Text:   text,
		Vendor: conv.Vendor,
		SentAt: s.now(),
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return Message{}, ErrClosed
	}
	// the event may have been deleted since the lookup
	if _, gone := s.dropped[eventID]; gone {
		s.mu.Unlock()
		return Message{}, domain.ErrEventNotFound
	}
	s.conversations[conv] = append(s.conversations[conv], msg)
	s.schedule(conv, msg)
	s.mu.Unlock()

	s.log.Debug().Str("conversation", conv.String()).Str("message_id", msg.ID).Msg("message sent")
	s.emit(conv, msg)
	return msg, nil
}

// schedule must be called with s.mu held
func (s *Service) schedule(conv ConversationID, prompt Message) {
	s.seq++
	id := s.seq
	ctx, cancel := context.WithCancel(context.Background())

	p := &pendingReply{cancel: cancel}
	if s.pending[conv] == nil {
		s.pending[conv] = make(map[uint64]*pendingReply)
	}
	s.pending[conv][id] = p

	s.inflight.Add(1)
	p.timer = time.AfterFunc(s.delay, func() { s.deliver(ctx, conv, id, prompt) })
}

func (s *Service) deliver(ctx context.Context, conv ConversationID, id uint64, prompt Message) {
	defer s.inflight.Done()
	defer s.forget(conv, id)

	if ctx.Err() != nil {
		return
	}

	text, err := s.responder.Reply(ctx, conv, prompt)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Error().Err(err).Str("conversation", conv.String()).Msg("reply failed")
		}
		return
	}

	reply := Message{
		ID:     s.newID(),
		Sender: SenderVendor,
		Text:   text,
		Vendor: conv.Vendor,
		SentAt: s.now(),
	}

	s.mu.Lock()
	if _, gone := s.dropped[conv.EventID]; gone || s.closed || ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	s.conversations[conv] = append(s.conversations[conv], reply)
	s.mu.Unlock()

	s.log.Debug().Str("conversation", conv.String()).Str("message_id", reply.ID).Msg("vendor replied")
	s.emit(conv, reply)
}

func (s *Service) forget(conv ConversationID, id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending := s.pending[conv]
	if pending == nil {
		return
	}
	if p, ok := pending[id]; ok {
		p.cancel()
		delete(pending, id)
	}
	if len(pending) == 0 {
		delete(s.pending, conv)
	}
}

// Messages returns a conversation in the order messages were appended
func (s *Service) Messages(conv ConversationID) []Message {
	conv = conv.normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message{}, s.conversations[conv]...)
}

// Pending is the number of replies still scheduled for a conversation
func (s *Service) Pending(conv ConversationID) int {
	conv = conv.normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending[conv])
}

// Cancel stops the scheduled replies of a conversation and returns how many were stopped
func (s *Service) Cancel(conv ConversationID) int {
	conv = conv.normalized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelLocked(conv)
}

func (s *Service) cancelLocked(conv ConversationID) int {
	pending := s.pending[conv]
	for _, p := range pending {
		p.cancel()
		if p.timer.Stop() {
			// the callback will never run, so release it here
			s.inflight.Done()
		}
	}
	delete(s.pending, conv)
	return len(pending)
}

// DropEvent cancels the pending replies of every conversation of an event and
// discards its messages. Later sends for the event fail with
// domain.ErrEventNotFound. It returns how many replies were stopped.
func (s *Service) DropEvent(eventID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dropped[eventID] = struct{}{}

	stopped := 0
	for conv := range s.pending {
		if conv.EventID == eventID {
			stopped += s.cancelLocked(conv)
		}
	}
	for conv := range s.conversations {
		if conv.EventID == eventID {
			delete(s.conversations, conv)
		}
	}
	return stopped
}

// Close cancels every scheduled reply and waits for running ones to return.
// Send fails with ErrClosed afterwards.
func (s *Service) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	stopped := 0
	for conv := range s.pending {
		stopped += s.cancelLocked(conv)
	}
	s.mu.Unlock()

	s.inflight.Wait()
	s.log.Info().Int("cancelled_replies", stopped).Msg("chat closed")
}
