// Package grpcapi exposes conversations over gRPC as
// hospital.voice.v1.ConversationService.
package grpcapi

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-voice-agent/internal/models"
	"hospital-voice-agent/internal/schema"
	"hospital-voice-agent/internal/service/dialogue"
	"hospital-voice-agent/internal/service/session"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "hospital.voice.v1.ConversationService"

// ConversationServer is the server API of the conversation service.
type ConversationServer interface {
	Start(ctx context.Context, req *models.StartRequest) (*models.ReplyView, error)
	Turn(ctx context.Context, req *models.TurnRequest) (*models.ReplyView, error)
	End(ctx context.Context, req *models.EndRequest) (*models.EndResponse, error)
}

// Sessions is the part of session.Manager the server uses.
type Sessions interface {
	Start(ctx context.Context) (*session.Session, dialogue.Reply)
	Get(id string) (*session.Session, error)
	End(id string) error
}

// Server implements ConversationServer over a session manager.
type Server struct {
	sessions  Sessions
	validator *schema.Validator
}

// Register creates the server and registers it on g.
func Register(g *grpc.Server, sessions Sessions) *Server {
	s := &Server{
		sessions:  sessions,
		validator: schema.New(),
	}
	g.RegisterService(&ServiceDesc, s)
	return s
}

func (s *Server) Start(ctx context.Context, req *models.StartRequest) (*models.ReplyView, error) {
	sess, reply := s.sessions.Start(ctx)
	log.Info().Str("sessionId", sess.ID()).Msg("Conversation started over gRPC")
	v := session.ReplyView(sess.ID(), reply, sess.Ended())
	return &v, nil
}

func (s *Server) Turn(ctx context.Context, req *models.TurnRequest) (*models.ReplyView, error) {
	if req.SessionID == "" {
		return nil, status.Error(codes.InvalidArgument, "sessionId is required")
	}
	sess, err := s.sessions.Get(req.SessionID)
	if err != nil {
		return nil, toStatus(err)
	}
	reply, err := sess.Turn(ctx, req.Text)
	if err != nil {
		return nil, toStatus(err)
	}
	v := session.ReplyView(req.SessionID, reply, sess.Ended())
	return &v, nil
}

func (s *Server) End(ctx context.Context, req *models.EndRequest) (*models.EndResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if err := s.sessions.End(req.SessionID); err != nil {
		return nil, toStatus(err)
	}
	return &models.EndResponse{SessionID: req.SessionID}, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		log.Error().Err(err).Msg("Conversation turn failed")
		return status.Error(codes.Internal, "internal error")
	}
}

// ServiceDesc describes ConversationService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ConversationServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Start", Handler: startHandler},
		{MethodName: "Turn", Handler: turnHandler},
		{MethodName: "End", Handler: endHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hospital/voice/v1/conversation",
}

func startHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.StartRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConversationServer).Start(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Start"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConversationServer).Start(ctx, req.(*models.StartRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func turnHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.TurnRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConversationServer).Turn(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/Turn"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConversationServer).Turn(ctx, req.(*models.TurnRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func endHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(models.EndRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ConversationServer).End(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/End"}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ConversationServer).End(ctx, req.(*models.EndRequest))
	}
	return interceptor(ctx, in, info, handler)
}
