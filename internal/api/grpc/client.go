package grpcapi

import (
	"context"

	"google.golang.org/grpc"

	"hospital-voice-agent/internal/models"
)

// Client calls ConversationService.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Start(ctx context.Context, opts ...grpc.CallOption) (*models.ReplyView, error) {
	out := new(models.ReplyView)
	if err := c.invoke(ctx, "Start", &models.StartRequest{}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Turn(ctx context.Context, sessionID, text string, opts ...grpc.CallOption) (*models.ReplyView, error) {
	out := new(models.ReplyView)
	if err := c.invoke(ctx, "Turn", &models.TurnRequest{SessionID: sessionID, Text: text}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) End(ctx context.Context, sessionID string, opts ...grpc.CallOption) (*models.EndResponse, error) {
	out := new(models.EndResponse)
	if err := c.invoke(ctx, "End", &models.EndRequest{SessionID: sessionID}, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	return c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...)
}
