package auth

import (
	"context"
	"log/slog"
	"testing"
	"time"
)

func TestSubmitPhone(t *testing.T) {
	f := NewFlow()

	if err := f.SubmitPhone("555-123"); err != ErrInvalidPhone {
		t.Fatalf("short phone = %v, want ErrInvalidPhone", err)
	}
	if f.Phase() != PhasePhone {
		t.Errorf("phase = %q, want phone after rejection", f.Phase())
	}

	if err := f.SubmitPhone("+1 (555) 123-4567"); err != nil {
		t.Fatalf("submit phone: %v", err)
	}
	if f.Phase() != PhaseOTP {
		t.Errorf("phase = %q, want otp", f.Phase())
	}
	if f.Phone() != "+1 (555) 123-4567" {
		t.Errorf("phone = %q", f.Phone())
	}

	// Submitting a phone again from the OTP phase is rejected.
	if err := f.SubmitPhone("+1 (555) 999-0000"); err != ErrWrongPhase {
		t.Errorf("re-submit = %v, want ErrWrongPhase", err)
	}
}

func TestValidOTPFormat(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12345a", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidOTPFormat(tt.code); got != tt.want {
			t.Errorf("ValidOTPFormat(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestSubmitOTPFailureLeavesPhaseUnchanged(t *testing.T) {
	f := NewFlow()
	f.SubmitPhone("5551234567")

	// Any number of failed verifications is a no-op.
	for i := 0; i < 3; i++ {
		if err := f.SubmitOTP("654321", false); err != nil {
			t.Fatalf("submit wrong code: %v", err)
		}
		if f.Phase() != PhaseOTP {
			t.Fatalf("phase = %q, want otp after failed verification", f.Phase())
		}
	}

	if err := f.SubmitOTP("123456", true); err != nil {
		t.Fatalf("submit correct code: %v", err)
	}
	if f.Phase() != PhaseProfile {
		t.Errorf("phase = %q, want profile", f.Phase())
	}
}

func TestSubmitOTPFormatRejected(t *testing.T) {
	f := NewFlow()
	f.SubmitPhone("5551234567")

	if err := f.SubmitOTP("12345", true); err != ErrInvalidOTP {
		t.Fatalf("five digits = %v, want ErrInvalidOTP", err)
	}
	if f.Phase() != PhaseOTP {
		t.Errorf("phase = %q, want otp", f.Phase())
	}
}

func TestBackToPhone(t *testing.T) {
	f := NewFlow()
	if err := f.BackToPhone(); err != ErrWrongPhase {
		t.Fatalf("back from phone phase = %v, want ErrWrongPhase", err)
	}
	f.SubmitPhone("5551234567")
	if err := f.BackToPhone(); err != nil {
		t.Fatalf("back: %v", err)
	}
	if f.Phase() != PhasePhone {
		t.Errorf("phase = %q, want phone", f.Phase())
	}
}

func TestCompleteProfile(t *testing.T) {
	f := NewFlow()
	f.SubmitPhone("5551234567")
	f.SubmitOTP("123456", true)

	if _, err := f.CompleteProfile("   ", time.Now()); err != ErrNameRequired {
		t.Fatalf("blank name = %v, want ErrNameRequired", err)
	}

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	user, err := f.CompleteProfile("Maya Chen", now)
	if err != nil {
		t.Fatalf("complete profile: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated user id")
	}
	if user.Name != "Maya Chen" || user.Phone != "5551234567" {
		t.Errorf("user = %+v", user)
	}
	if !user.JoinDate.Equal(now) {
		t.Errorf("join date = %v, want %v", user.JoinDate, now)
	}
}

func TestCompleteProfileWrongPhase(t *testing.T) {
	f := NewFlow()
	if _, err := f.CompleteProfile("Maya", time.Now()); err != ErrWrongPhase {
		t.Fatalf("complete from phone phase = %v, want ErrWrongPhase", err)
	}
}

func TestOTPServiceStub(t *testing.T) {
	svc := NewOTPService("", slog.Default())
	svc.sleep = func(context.Context, time.Duration) {}

	code, err := svc.Send(context.Background(), "5551234567")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if code != DemoOTPCode {
		t.Errorf("code = %q, want demo code", code)
	}
	if !svc.Verify(context.Background(), DemoOTPCode) {
		t.Error("expected demo code to verify")
	}
	if svc.Verify(context.Background(), "654321") {
		t.Error("expected wrong code to fail")
	}
}

func TestOTPServiceCancelledContext(t *testing.T) {
	svc := NewOTPService("", slog.Default())
	svc.sleep = func(context.Context, time.Duration) {}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Send(ctx, "5551234567"); err == nil {
		t.Error("expected error for cancelled send")
	}
	if svc.Verify(ctx, DemoOTPCode) {
		t.Error("expected cancelled verify to fail")
	}
}
