package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/fixit237/fixit-go/internal/core/domain"
	"github.com/fixit237/fixit-go/internal/core/ports"
	"github.com/fixit237/fixit-go/internal/metrics"
)

const defaultPollInterval = 5 * time.Second

// ConversationPoller keeps one two-party message thread fresh while its
// view is open: an immediate fetch, then one fetch per tick until the
// context is cancelled or Stop is called.
//
// Outgoing messages are inserted optimistically with a temporary identity;
// every successful fetch replaces the whole list with server truth, in
// server order. A duplicate of a just-sent message may be visible until the
// next fetch overwrites the list; that window is accepted, there is no
// reconciliation.
type ConversationPoller struct {
	api           ports.ChatAPI
	currentUserID string
	otherUserID   string
	interval      time.Duration
	log           zerolog.Logger

	// OnUpdate, when set before Start, runs after each list replacement and
	// after each optimistic insert. Called on the poller's goroutine.
	OnUpdate func([]*domain.Message)

	mu       sync.Mutex
	messages []*domain.Message
	cancel   context.CancelFunc
	done     chan struct{}
}

func NewConversationPoller(api ports.ChatAPI, currentUserID, otherUserID string, interval time.Duration, log zerolog.Logger) *ConversationPoller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	return &ConversationPoller{
		api:           api,
		currentUserID: currentUserID,
		otherUserID:   otherUserID,
		interval:      interval,
		log:           log,
	}
}

// Start fetches immediately, then launches the poll loop. It returns after
// the first fetch completes so callers render an initial list right away.
func (p *ConversationPoller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})

	p.refresh(ctx)

	go func() {
		defer close(p.done)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			}
		}
	}()
}

// Stop cancels the poll loop and waits for it to exit. Safe to call once
// after Start; the view unmounting is the only caller.
func (p *ConversationPoller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}

// Send appends an optimistic message immediately, then issues the real
// send. A successful send forces a refresh so the server's identity and
// ordering take over; a failed send is logged and the optimistic entry
// stays visible with no retry.
func (p *ConversationPoller) Send(ctx context.Context, content string) {
	if content == "" {
		return
	}

	optimistic := &domain.Message{
		ID:        strconv.FormatInt(time.Now().UnixMilli(), 10),
		Sender:    p.currentUserID,
		Recipient: p.otherUserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	p.mu.Lock()
	p.messages = append(p.messages, optimistic)
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	p.notify(snapshot)

	if _, err := p.api.Send(ctx, p.otherUserID, content); err != nil {
		metrics.ChatMessagesSentTotal.WithLabelValues("error").Inc()
		p.log.Error().Err(err).Str("recipient", p.otherUserID).Msg("failed to send message")
		return
	}
	metrics.ChatMessagesSentTotal.WithLabelValues("ok").Inc()

	p.refresh(ctx)
}

// Messages returns a copy of the current list, in display order.
func (p *ConversationPoller) Messages() []*domain.Message {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshotLocked()
}

// refresh replaces the in-memory list with the backend's copy. Fetch
// failures leave the previous list in place.
func (p *ConversationPoller) refresh(ctx context.Context) {
	msgs, err := p.api.Conversation(ctx, p.otherUserID)
	if err != nil {
		metrics.ChatPollTicksTotal.WithLabelValues("error").Inc()
		p.log.Warn().Err(err).Str("other_user", p.otherUserID).Msg("conversation poll failed")
		return
	}
	metrics.ChatPollTicksTotal.WithLabelValues("ok").Inc()

	p.mu.Lock()
	p.messages = msgs
	snapshot := p.snapshotLocked()
	p.mu.Unlock()
	p.notify(snapshot)
}

func (p *ConversationPoller) snapshotLocked() []*domain.Message {
	out := make([]*domain.Message, len(p.messages))
	copy(out, p.messages)
	return out
}

func (p *ConversationPoller) notify(snapshot []*domain.Message) {
	if p.OnUpdate != nil {
		p.OnUpdate(snapshot)
	}
}
