package server

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryInterceptor bounds each call by timeout and logs its outcome.
// Failures the caller caused are logged at debug, everything else at warn.
func UnaryInterceptor(timeout time.Duration, log *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		start := time.Now()
		resp, err := handler(ctx, req)
		if err == nil {
			log.Debug("request served",
				zap.String("method", info.FullMethod),
				zap.Duration("took", time.Since(start)))
			return resp, nil
		}

		st := status.Convert(err)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Stringer("code", st.Code()),
			zap.String("error", st.Message()),
			zap.Duration("took", time.Since(start)),
		}
		if isClientError(st) {
			log.Debug("request rejected", fields...)
		} else {
			log.Warn("request failed", fields...)
		}
		return nil, st.Err()
	}
}

func isClientError(st *status.Status) bool {
	switch st.Code() {
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition, codes.Canceled:
		return true
	}
	return false
}
