package domain

import "time"

// Client is a customer that invoices are issued to.
type Client struct {
	ID        string    `json:"_id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Phone     string    `json:"phone" bson:"phone"`
	Address   string    `json:"address" bson:"address"`
	GSTIN     string    `json:"gstin" bson:"gstin"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
