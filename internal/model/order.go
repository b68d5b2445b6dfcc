package model

import "time"

// Delivery options.
const (
	DeliveryStandard = "standard"
	DeliveryEco      = "eco"
	DeliveryExpress  = "express"
)

// CustomerInfo is the shipping contact collected during checkout.
type CustomerInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	ZipCode   string `json:"zip_code"`
}

// PaymentInfo is held only for the lifetime of a checkout session. Card
// details are never persisted.
type PaymentInfo struct {
	Method     string `json:"method"`
	CardNumber string `json:"card_number,omitempty"`
	ExpiryDate string `json:"expiry_date,omitempty"`
	CVV        string `json:"cvv,omitempty"`
}

// Order is the immutable snapshot produced when a checkout is submitted.
type Order struct {
	ID           int64        `json:"id"`
	Number       string       `json:"number"`
	Items        []CartLine   `json:"items"`
	Delivery     string       `json:"delivery"`
	Payment      string       `json:"payment"`
	Subtotal     float64      `json:"subtotal"`
	Tax          float64      `json:"tax"`
	DeliveryFee  float64      `json:"delivery_fee"`
	EcoDiscount  float64      `json:"eco_discount"`
	Total        float64      `json:"total"`
	CustomerInfo CustomerInfo `json:"customer_info"`
	CreatedAt    time.Time    `json:"created_at"`
}
