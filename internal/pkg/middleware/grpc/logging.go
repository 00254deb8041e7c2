package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/status"

	"github.com/autopeer-io/sentinel/pkg/log"
)

// UnaryServerLoggingInterceptor logs every unary call at debug level and
// failed calls at error level.
func UnaryServerLoggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	if err != nil {
		log.Error(err, "gRPC call failed", "method", info.FullMethod, "code", status.Code(err).String(), "latency", time.Since(start))
		return resp, err
	}
	log.Debug("gRPC call", "method", info.FullMethod, "latency", time.Since(start))
	return resp, nil
}
