package auth

import (
	"context"
	"log/slog"
	"time"
)

// DemoOTPCode is the accepted verification code when no override is
// configured. There is no real SMS gateway in this deployment.
const DemoOTPCode = "123456"

const (
	defaultSendDelay   = 2 * time.Second
	defaultVerifyDelay = 1500 * time.Millisecond
)

// OTPService simulates a phone verification provider. Dispatch and
// verification always succeed after a fixed latency; the sleeper is
// injectable so tests run without wall-clock delay.
type OTPService struct {
	code        string
	sendDelay   time.Duration
	verifyDelay time.Duration
	sleep       func(ctx context.Context, d time.Duration)
	logger      *slog.Logger
}

// NewOTPService creates the stub provider. An empty code falls back to
// DemoOTPCode; a nil sleeper falls back to a context-aware real sleep.
func NewOTPService(code string, logger *slog.Logger) *OTPService {
	if code == "" {
		code = DemoOTPCode
	}
	return &OTPService{
		code:        code,
		sendDelay:   defaultSendDelay,
		verifyDelay: defaultVerifyDelay,
		sleep:       sleepCtx,
		logger:      logger,
	}
}

// WithSleeper overrides the latency sleeper and returns the service.
// Tests use it to run without wall-clock delay.
func (s *OTPService) WithSleeper(sleep func(ctx context.Context, d time.Duration)) *OTPService {
	s.sleep = sleep
	return s
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Send pretends to dispatch a code to the phone and returns the code that
// was "sent" so the caller can store its hash.
func (s *OTPService) Send(ctx context.Context, phone string) (string, error) {
	s.sleep(ctx, s.sendDelay)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.logger.Info("otp dispatched", "phone", phone)
	return s.code, nil
}

// Verify checks a submitted code against the accepted one after the
// simulated provider latency.
func (s *OTPService) Verify(ctx context.Context, code string) bool {
	s.sleep(ctx, s.verifyDelay)
	if ctx.Err() != nil {
		return false
	}
	return code == s.code
}
