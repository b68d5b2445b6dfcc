package store

import (
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ecomart/ecomart/internal/database"
	"github.com/ecomart/ecomart/internal/model"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, us *UserStore, phone string) *model.User {
	t.Helper()
	u, err := us.Create(model.User{
		ID:       uuid.NewString(),
		Name:     "Test Shopper",
		Phone:    phone,
		JoinDate: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	u := createTestUser(t, us, "+15551234567")
	if u.Name != "Test Shopper" {
		t.Errorf("name = %q, want %q", u.Name, "Test Shopper")
	}

	got, err := us.GetByID(u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got == nil || got.Phone != "+15551234567" {
		t.Fatalf("get by id = %+v, want phone +15551234567", got)
	}

	byPhone, err := us.GetByPhone("+15551234567")
	if err != nil {
		t.Fatalf("get by phone: %v", err)
	}
	if byPhone == nil || byPhone.ID != u.ID {
		t.Fatalf("get by phone = %+v, want id %s", byPhone, u.ID)
	}
}

func TestUserGetMissing(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	got, err := us.GetByID(uuid.NewString())
	if err != nil {
		t.Fatalf("get missing user: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing user, got %+v", got)
	}
}

func TestUserReLoginRefreshesProfile(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)

	first := createTestUser(t, us, "+15551234567")

	second, err := us.Create(model.User{
		ID:       uuid.NewString(),
		Name:     "Renamed Shopper",
		Phone:    "+15551234567",
		JoinDate: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("create again: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-login created a new account: %s != %s", second.ID, first.ID)
	}
	if second.Name != "Renamed Shopper" {
		t.Errorf("name = %q, want %q", second.Name, "Renamed Shopper")
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u := createTestUser(t, us, "+15551234567")

	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	if len(sess.Token) != 64 {
		t.Errorf("token length = %d, want 64 hex chars", len(sess.Token))
	}
	if !sess.ExpiresAt.After(time.Now()) {
		t.Errorf("session expires in the past: %v", sess.ExpiresAt)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.UserID != u.ID {
		t.Fatalf("get by token = %+v, want user %s", got, u.ID)
	}

	if err := ss.DeleteByToken(sess.Token); err != nil {
		t.Fatalf("delete session: %v", err)
	}
	got, err = ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil after logout, got %+v", got)
	}
}

func TestSessionExpiredNotReturned(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u := createTestUser(t, us, "+15551234567")
	sess, err := ss.Create(u.ID)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	_, err = db.Exec(`UPDATE sessions SET expires_at = ? WHERE id = ?`,
		time.Now().UTC().Add(-time.Hour), sess.ID)
	if err != nil {
		t.Fatalf("backdate session: %v", err)
	}

	got, err := ss.GetByToken(sess.Token)
	if err != nil {
		t.Fatalf("get expired session: %v", err)
	}
	if got != nil {
		t.Errorf("expired session returned: %+v", got)
	}

	count, err := ss.DeleteExpired()
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if count != 1 {
		t.Errorf("deleted %d sessions, want 1", count)
	}
}

func TestSessionDeleteForUser(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	ss := NewSessionStore(db)

	u := createTestUser(t, us, "+15551234567")
	first, _ := ss.Create(u.ID)
	second, _ := ss.Create(u.ID)

	if err := ss.DeleteForUser(u.ID); err != nil {
		t.Fatalf("delete for user: %v", err)
	}
	for _, token := range []string{first.Token, second.Token} {
		got, err := ss.GetByToken(token)
		if err != nil {
			t.Fatalf("get by token: %v", err)
		}
		if got != nil {
			t.Errorf("session survived DeleteForUser: %+v", got)
		}
	}
}

func TestOTPVerify(t *testing.T) {
	db := setupTestDB(t)
	os := NewOTPStore(db)

	created, err := os.Create("+15551234567", "123456")
	if err != nil {
		t.Fatalf("create code: %v", err)
	}
	if created.CodeHash == "123456" {
		t.Fatal("code stored in plaintext")
	}

	ok, err := os.Verify("+15551234567", "000000")
	if err != nil {
		t.Fatalf("verify wrong code: %v", err)
	}
	if ok {
		t.Error("wrong code verified")
	}

	ok, err = os.Verify("+15551234567", "123456")
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Error("correct code rejected")
	}

	// A used code cannot be replayed.
	ok, err = os.Verify("+15551234567", "123456")
	if err != nil {
		t.Fatalf("replay verify: %v", err)
	}
	if ok {
		t.Error("used code verified again")
	}
}

func TestOTPNewCodeInvalidatesPrevious(t *testing.T) {
	db := setupTestDB(t)
	os := NewOTPStore(db)

	if _, err := os.Create("+15551234567", "111111"); err != nil {
		t.Fatalf("create first code: %v", err)
	}
	if _, err := os.Create("+15551234567", "222222"); err != nil {
		t.Fatalf("create second code: %v", err)
	}

	ok, err := os.Verify("+15551234567", "111111")
	if err != nil {
		t.Fatalf("verify old code: %v", err)
	}
	if ok {
		t.Error("superseded code still verifies")
	}

	ok, err = os.Verify("+15551234567", "222222")
	if err != nil {
		t.Fatalf("verify current code: %v", err)
	}
	if !ok {
		t.Error("current code rejected")
	}
}

func TestOTPMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	os := NewOTPStore(db)

	if _, err := os.Create("+15551234567", "123456"); err != nil {
		t.Fatalf("create code: %v", err)
	}
	for i := 0; i < otpMaxAttempts; i++ {
		ok, err := os.Verify("+15551234567", "999999")
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if ok {
			t.Fatal("wrong code verified")
		}
	}

	// Code is burned even with the right value.
	ok, err := os.Verify("+15551234567", "123456")
	if err != nil {
		t.Fatalf("verify after lockout: %v", err)
	}
	if ok {
		t.Error("code verified after max attempts")
	}
}
