package store

import (
	"database/sql"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/ecomart/ecomart/internal/model"
)

const (
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5
)

type OTPStore struct {
	db *sql.DB
}

func NewOTPStore(db *sql.DB) *OTPStore {
	return &OTPStore{db: db}
}

func scanOTP(scanner interface{ Scan(...any) error }) (*model.OTPCode, error) {
	var c model.OTPCode
	err := scanner.Scan(&c.ID, &c.Phone, &c.CodeHash, &c.ExpiresAt, &c.UsedAt, &c.Attempts, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const otpCols = `id, phone, code_hash, expires_at, used_at, attempts, created_at`

// Create stores a bcrypt hash of a verification code for the phone number.
// Any previous pending code for the same phone is invalidated so only the
// latest one can verify.
func (s *OTPStore) Create(phone, code string) (*model.OTPCode, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	_, err = s.db.Exec(
		`UPDATE otp_codes SET used_at = ? WHERE phone = ? AND used_at IS NULL`,
		time.Now().UTC(), phone,
	)
	if err != nil {
		return nil, fmt.Errorf("invalidate previous codes: %w", err)
	}

	expiresAt := time.Now().UTC().Add(otpTTL)
	result, err := s.db.Exec(
		`INSERT INTO otp_codes (phone, code_hash, expires_at) VALUES (?, ?, ?)`,
		phone, string(hash), expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert otp code: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	row := s.db.QueryRow(`SELECT `+otpCols+` FROM otp_codes WHERE id = ?`, id)
	return scanOTP(row)
}

// Verify checks a submitted code against the pending one for the phone.
// Every failed attempt is counted; after otpMaxAttempts failures the code is
// burned. On success the code is marked used so it cannot be replayed.
func (s *OTPStore) Verify(phone, code string) (bool, error) {
	row := s.db.QueryRow(
		`SELECT `+otpCols+` FROM otp_codes
		 WHERE phone = ? AND used_at IS NULL AND expires_at > ?
		 ORDER BY created_at DESC LIMIT 1`,
		phone, time.Now().UTC(),
	)
	pending, err := scanOTP(row)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get pending code: %w", err)
	}
	if pending.Attempts >= otpMaxAttempts {
		return false, nil
	}

	if bcrypt.CompareHashAndPassword([]byte(pending.CodeHash), []byte(code)) != nil {
		_, err = s.db.Exec(`UPDATE otp_codes SET attempts = attempts + 1 WHERE id = ?`, pending.ID)
		if err != nil {
			return false, fmt.Errorf("record failed attempt: %w", err)
		}
		return false, nil
	}

	_, err = s.db.Exec(`UPDATE otp_codes SET used_at = ? WHERE id = ?`, time.Now().UTC(), pending.ID)
	if err != nil {
		return false, fmt.Errorf("mark code used: %w", err)
	}
	return true, nil
}

// DeleteExpired prunes codes past their expiry.
func (s *OTPStore) DeleteExpired() (int64, error) {
	result, err := s.db.Exec(`DELETE FROM otp_codes WHERE expires_at <= ?`, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("delete expired codes: %w", err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return count, nil
}
