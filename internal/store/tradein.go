package store

import (
	"database/sql"
	"fmt"

	"github.com/ecomart/ecomart/internal/model"
)

type TradeInStore struct {
	db *sql.DB
}

func NewTradeInStore(db *sql.DB) *TradeInStore {
	return &TradeInStore{db: db}
}

func scanTradeIn(scanner interface{ Scan(...any) error }) (*model.TradeIn, error) {
	var t model.TradeIn
	err := scanner.Scan(&t.ID, &t.UserID, &t.Category, &t.Item, &t.Reason,
		&t.Condition, &t.Description, &t.EstimatedValue, &t.PointsAwarded, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

const tradeInCols = `id, user_id, category, item, reason, condition, description, estimated_value, points_awarded, created_at`

func (s *TradeInStore) Create(t *model.TradeIn) (*model.TradeIn, error) {
	result, err := s.db.Exec(
		`INSERT INTO trade_ins (user_id, category, item, reason, condition, description, estimated_value, points_awarded)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.UserID, t.Category, t.Item, t.Reason, t.Condition, t.Description,
		t.EstimatedValue, t.PointsAwarded,
	)
	if err != nil {
		return nil, fmt.Errorf("insert trade-in: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

// GetByID returns a trade-in record, or nil if not found.
func (s *TradeInStore) GetByID(id int64) (*model.TradeIn, error) {
	row := s.db.QueryRow(`SELECT `+tradeInCols+` FROM trade_ins WHERE id = ?`, id)
	t, err := scanTradeIn(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trade-in by id: %w", err)
	}
	return t, nil
}

// ListForUser returns a user's trade-ins, newest first.
func (s *TradeInStore) ListForUser(userID string) ([]*model.TradeIn, error) {
	rows, err := s.db.Query(
		`SELECT `+tradeInCols+` FROM trade_ins WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list trade-ins for user: %w", err)
	}
	defer rows.Close()

	var tradeIns []*model.TradeIn
	for rows.Next() {
		t, err := scanTradeIn(rows)
		if err != nil {
			return nil, fmt.Errorf("scan trade-in: %w", err)
		}
		tradeIns = append(tradeIns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade-ins: %w", err)
	}
	return tradeIns, nil
}
