package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ecomart/ecomart/internal/model"
)

// Phase is a login flow phase.
type Phase string

const (
	PhasePhone   Phase = "phone"
	PhaseOTP     Phase = "otp"
	PhaseProfile Phase = "profile"
)

var (
	ErrWrongPhase   = errors.New("auth: operation not valid in current phase")
	ErrInvalidPhone = errors.New("auth: phone number must be at least 10 characters")
	ErrInvalidOTP   = errors.New("auth: code must be exactly 6 digits")
	ErrNameRequired = errors.New("auth: name is required")
)

// Flow is the three-phase login state machine. A rejected submission leaves
// the phase unchanged; there is no error state to recover from.
type Flow struct {
	phase Phase
	phone string
}

func NewFlow() *Flow {
	return &Flow{phase: PhasePhone}
}

// Phase returns the current phase.
func (f *Flow) Phase() Phase {
	return f.phase
}

// Phone returns the number submitted in the phone phase.
func (f *Flow) Phone() string {
	return f.phone
}

// SubmitPhone validates the phone number and moves to the OTP phase. The
// caller dispatches the code on success.
func (f *Flow) SubmitPhone(phone string) error {
	if f.phase != PhasePhone {
		return ErrWrongPhase
	}
	phone = strings.TrimSpace(phone)
	if len(phone) < 10 {
		return ErrInvalidPhone
	}
	f.phone = phone
	f.phase = PhaseOTP
	return nil
}

// ValidOTPFormat reports whether code is exactly six digits.
func ValidOTPFormat(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// SubmitOTP applies a verification outcome. A failed verification keeps
// the flow in the OTP phase with no other state change; re-submitting the
// same wrong code any number of times is indistinguishable from submitting
// it once.
func (f *Flow) SubmitOTP(code string, verified bool) error {
	if f.phase != PhaseOTP {
		return ErrWrongPhase
	}
	if !ValidOTPFormat(code) {
		return ErrInvalidOTP
	}
	if verified {
		f.phase = PhaseProfile
	}
	return nil
}

// BackToPhone returns from the OTP phase to the phone phase.
func (f *Flow) BackToPhone() error {
	if f.phase != PhaseOTP {
		return ErrWrongPhase
	}
	f.phase = PhasePhone
	return nil
}

// CompleteProfile finishes the flow, producing the shopper record. It is
// an unconditional success once a non-empty name is given.
func (f *Flow) CompleteProfile(name string, now time.Time) (model.User, error) {
	if f.phase != PhaseProfile {
		return model.User{}, ErrWrongPhase
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return model.User{}, ErrNameRequired
	}
	return model.User{
		ID:       uuid.NewString(),
		Name:     name,
		Phone:    f.phone,
		JoinDate: now.UTC(),
	}, nil
}
