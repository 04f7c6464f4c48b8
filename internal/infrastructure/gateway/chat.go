package gateway

import (
	"context"
	"net/http"

	"github.com/fixit237/fixit-go/internal/core/domain"
)

// ChatGateway implements ports.ChatAPI over /chat. All calls are
// session-guarded: a 401 clears the local session before the error surfaces.
type ChatGateway struct {
	client *Client
}

func NewChatGateway(client *Client) *ChatGateway {
	return &ChatGateway{client: client}
}

type sendMessageRequest struct {
	RecipientID string `json:"recipientId"`
	Content     string `json:"content"`
}

func (g *ChatGateway) Send(ctx context.Context, recipientID, content string) (*domain.Message, error) {
	var msg domain.Message
	err := g.client.doJSON(ctx, call{
		group:        groupChat,
		op:           "send message",
		method:       http.MethodPost,
		path:         "/chat",
		body:         sendMessageRequest{RecipientID: recipientID, Content: content},
		sessionGuard: true,
	}, &msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

func (g *ChatGateway) Conversation(ctx context.Context, otherUserID string) ([]*domain.Message, error) {
	var msgs []*domain.Message
	err := g.client.doJSON(ctx, call{
		group:        groupChat,
		op:           "fetch conversation",
		method:       http.MethodGet,
		path:         "/chat/" + otherUserID,
		sessionGuard: true,
	}, &msgs)
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (g *ChatGateway) Conversations(ctx context.Context) ([]*domain.ConversationSummary, error) {
	var convos []*domain.ConversationSummary
	err := g.client.doJSON(ctx, call{
		group:        groupChat,
		op:           "fetch conversations",
		method:       http.MethodGet,
		path:         "/chat/conversations",
		sessionGuard: true,
	}, &convos)
	if err != nil {
		return nil, err
	}
	return convos, nil
}
