package store

import (
	"database/sql"
	"fmt"

	"github.com/ecomart/ecomart/internal/model"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func scanUser(scanner interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := scanner.Scan(&u.ID, &u.Name, &u.Phone, &u.JoinDate)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

const userCols = `id, name, phone, join_date`

// Create persists a user. An existing record for the same phone is
// replaced; the demo flow has no duplicate-account handling, a re-login
// simply refreshes the profile.
func (s *UserStore) Create(u model.User) (*model.User, error) {
	_, err := s.db.Exec(
		`INSERT INTO users (id, name, phone, join_date) VALUES (?, ?, ?, ?)
		 ON CONFLICT(phone) DO UPDATE SET name = excluded.name`,
		u.ID, u.Name, u.Phone, u.JoinDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return s.GetByPhone(u.Phone)
}

func (s *UserStore) GetByID(id string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *UserStore) GetByPhone(phone string) (*model.User, error) {
	row := s.db.QueryRow(`SELECT `+userCols+` FROM users WHERE phone = ?`, phone)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user by phone: %w", err)
	}
	return u, nil
}

func (s *UserStore) Delete(id string) error {
	_, err := s.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}
