package services

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"

	"github.com/Riboost-Studio/perfect-menu-print-bridge/internal/model"
)

// PrintTimeout bounds a whole forwarding attempt: dial plus write.
const PrintTimeout = 5 * time.Second

type DialFunc func(ctx context.Context, network, address string) (net.Conn, error)

// --- Print Forwarding ---

// Forwarder writes one payload to one printer per call. It holds no state
// between calls, so a single instance is shared by every connection.
type Forwarder struct {
	Timeout time.Duration
	Dial    DialFunc
	logger  zerolog.Logger
}

func NewForwarder(logger zerolog.Logger) *Forwarder {
	dialer := &net.Dialer{}
	return &Forwarder{
		Timeout: PrintTimeout,
		Dial:    dialer.DialContext,
		logger:  logger,
	}
}

// Forward makes exactly one attempt and always returns exactly one outcome.
func (f *Forwarder) Forward(ctx context.Context, req model.PrintRequest) model.Outcome {
	target := req.Target()
	start := time.Now()

	err := f.send(ctx, req)
	switch {
	case err == nil:
		f.logger.Info().
			Str("target", target).
			Int("bytes", len(req.Payload)).
			Dur("elapsed", time.Since(start)).
			Msg("sent to printer")
		return model.Success()

	case errors.Is(err, ErrPrinterTimeout):
		f.logger.Warn().
			Str("target", target).
			Dur("elapsed", time.Since(start)).
			Msg("printer timeout")
		return model.Failure(model.MsgTimeout)

	default:
		f.logger.Error().Err(err).Str("target", target).Msg("tcp error")
		return model.Failure(err.Error())
	}
}

func (f *Forwarder) send(ctx context.Context, req model.PrintRequest) error {
	ctx, cancel := context.WithTimeout(ctx, f.timeout())
	defer cancel()

	conn, err := f.dial()(ctx, "tcp", req.Target())
	if err != nil {
		return classify(ctx, err)
	}
	defer conn.Close()

	// Closing on expiry unblocks conns whose deadlines are not honoured.
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	f.logger.Debug().Str("target", req.Target()).Int("bytes", len(req.Payload)).Msg("sending data")
	if _, err := conn.Write(req.Payload); err != nil {
		return classify(ctx, err)
	}

	if cw, ok := conn.(interface{ CloseWrite() error }); ok {
		if err := cw.CloseWrite(); err != nil {
			return classify(ctx, err)
		}
	}
	return nil
}

func (f *Forwarder) timeout() time.Duration {
	if f.Timeout <= 0 {
		return PrintTimeout
	}
	return f.Timeout
}

func (f *Forwarder) dial() DialFunc {
	if f.Dial == nil {
		return (&net.Dialer{}).DialContext
	}
	return f.Dial
}

func classify(ctx context.Context, err error) error {
	var netErr net.Error
	if errors.Is(ctx.Err(), context.DeadlineExceeded) ||
		errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrPrinterTimeout, err)
	}
	return err
}
