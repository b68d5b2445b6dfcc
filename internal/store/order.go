package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ecomart/ecomart/internal/model"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

func scanOrder(scanner interface{ Scan(...any) error }) (*model.Order, error) {
	var o model.Order
	var customerJSON string
	err := scanner.Scan(&o.ID, &o.Number, &o.Delivery, &o.Payment,
		&o.Subtotal, &o.Tax, &o.DeliveryFee, &o.EcoDiscount, &o.Total,
		&customerJSON, &o.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(customerJSON), &o.CustomerInfo); err != nil {
		return nil, fmt.Errorf("decode customer info: %w", err)
	}
	return &o, nil
}

const orderCols = `id, number, delivery, payment, subtotal, tax, delivery_fee, eco_discount, total, customer_info, created_at`

// Create persists an order and its line items in one transaction.
func (s *OrderStore) Create(userID string, order *model.Order) (*model.Order, error) {
	customerJSON, err := json.Marshal(order.CustomerInfo)
	if err != nil {
		return nil, fmt.Errorf("encode customer info: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.Exec(
		`INSERT INTO orders (number, user_id, delivery, payment, subtotal, tax, delivery_fee, eco_discount, total, customer_info)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.Number, userID, order.Delivery, order.Payment,
		order.Subtotal, order.Tax, order.DeliveryFee, order.EcoDiscount, order.Total,
		string(customerJSON),
	)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	orderID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	for _, line := range order.Items {
		_, err = tx.Exec(
			`INSERT INTO order_items (order_id, product_id, name, unit_price, quantity, sustainability_score)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			orderID, line.ProductID, line.Name, line.UnitPrice, line.Quantity, line.SustainabilityScore,
		)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	return s.GetByID(orderID)
}

// GetByID returns an order with its items, or nil if not found.
func (s *OrderStore) GetByID(id int64) (*model.Order, error) {
	row := s.db.QueryRow(`SELECT `+orderCols+` FROM orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get order by id: %w", err)
	}
	if err := s.loadItems(order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListForUser returns a user's orders, newest first.
func (s *OrderStore) ListForUser(userID string) ([]*model.Order, error) {
	rows, err := s.db.Query(
		`SELECT `+orderCols+` FROM orders WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list orders for user: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate orders: %w", err)
	}
	for _, order := range orders {
		if err := s.loadItems(order); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *OrderStore) loadItems(order *model.Order) error {
	rows, err := s.db.Query(
		`SELECT product_id, name, unit_price, quantity, sustainability_score
		 FROM order_items WHERE order_id = ? ORDER BY id`,
		order.ID,
	)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity, &line.SustainabilityScore)
		if err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, line)
	}
	return rows.Err()
}
