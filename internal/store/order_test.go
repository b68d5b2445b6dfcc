package store

import (
	"testing"

	"github.com/google/uuid"

	"github.com/ecomart/ecomart/internal/model"
)

func intPtr(v int) *int { return &v }

func testOrder() *model.Order {
	return &model.Order{
		Number: uuid.NewString(),
		Items: []model.CartLine{
			{ProductID: 1, Name: "Organic Bananas", UnitPrice: 2.99, Quantity: 2, SustainabilityScore: intPtr(85)},
			{ProductID: 3, Name: "Whole Wheat Bread", UnitPrice: 3.49, Quantity: 1},
		},
		Delivery: model.DeliveryEco,
		Payment:  "card",
		Subtotal: 9.47,
		Tax:      0.76,
		EcoDiscount: 0.47,
		Total:    9.76,
		CustomerInfo: model.CustomerInfo{
			FirstName: "Ada",
			LastName:  "Green",
			Email:     "ada@example.com",
			Phone:     "+15551234567",
			Address:   "1 Elm St",
			City:      "Springfield",
			ZipCode:   "12345",
		},
	}
}

func TestOrderCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	os := NewOrderStore(db)

	u := createTestUser(t, us, "+15551234567")

	created, err := os.Create(u.ID, testOrder())
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if created.ID == 0 {
		t.Error("order id not assigned")
	}
	if len(created.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(created.Items))
	}
	if created.Items[0].Name != "Organic Bananas" {
		t.Errorf("item[0].Name = %q", created.Items[0].Name)
	}
	if created.Items[0].SustainabilityScore == nil || *created.Items[0].SustainabilityScore != 85 {
		t.Errorf("item[0] sustainability score = %v, want 85", created.Items[0].SustainabilityScore)
	}
	if created.Items[1].SustainabilityScore != nil {
		t.Errorf("item[1] sustainability score = %v, want nil", created.Items[1].SustainabilityScore)
	}
	if created.CustomerInfo.Email != "ada@example.com" {
		t.Errorf("customer email = %q", created.CustomerInfo.Email)
	}
	if created.Delivery != model.DeliveryEco {
		t.Errorf("delivery = %q, want %q", created.Delivery, model.DeliveryEco)
	}
}

func TestOrderGetMissing(t *testing.T) {
	db := setupTestDB(t)
	os := NewOrderStore(db)

	got, err := os.GetByID(42)
	if err != nil {
		t.Fatalf("get missing order: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil for missing order, got %+v", got)
	}
}

func TestOrderListForUser(t *testing.T) {
	db := setupTestDB(t)
	us := NewUserStore(db)
	os := NewOrderStore(db)

	u := createTestUser(t, us, "+15551234567")
	other := createTestUser(t, us, "+15559876543")

	if _, err := os.Create(u.ID, testOrder()); err != nil {
		t.Fatalf("create first order: %v", err)
	}
	if _, err := os.Create(u.ID, testOrder()); err != nil {
		t.Fatalf("create second order: %v", err)
	}
	if _, err := os.Create(other.ID, testOrder()); err != nil {
		t.Fatalf("create other user's order: %v", err)
	}

	orders, err := os.ListForUser(u.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 2 {
		t.Fatalf("orders = %d, want 2", len(orders))
	}
	if orders[0].ID < orders[1].ID {
		t.Error("orders not newest first")
	}
	for _, o := range orders {
		if len(o.Items) != 2 {
			t.Errorf("order %d items = %d, want 2", o.ID, len(o.Items))
		}
	}
}
