package observability

import (
	"context"
	"path"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"hospital-voice-agent/internal/observability/logging"
	"hospital-voice-agent/internal/observability/metrics"
)

// sessionScoped is implemented by requests that address one conversation.
type sessionScoped interface {
	Session() string
}

// UnaryServerInterceptor counts every call by method and status code and
// logs it with the session id when the request carries one.
func UnaryServerInterceptor(m *metrics.Metrics) grpc.UnaryServerInterceptor {
	logger := logging.WithComponent("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		m.RecordRequest("grpc", info.FullMethod, code.String())

		ev := callEvent(&logger, code).
			Str("method", path.Base(info.FullMethod)).
			Str("code", code.String()).
			Dur("duration", time.Since(start))
		if s, ok := req.(sessionScoped); ok && s.Session() != "" {
			ev = ev.Str("sessionId", s.Session())
		}
		if err != nil {
			ev = ev.Err(err)
		}
		ev.Msg("gRPC call")
		return resp, err
	}
}

// callEvent picks a level: server faults are errors, caller mistakes debug.
func callEvent(l *zerolog.Logger, code codes.Code) *zerolog.Event {
	switch code {
	case codes.OK:
		return l.Info()
	case codes.Internal, codes.Unknown, codes.Unavailable, codes.DataLoss:
		return l.Error()
	default:
		return l.Debug()
	}
}
