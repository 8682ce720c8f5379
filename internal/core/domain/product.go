package domain

import "time"

// Product is an item of the catalogue managed through the API.
type Product struct {
	ID          string    `json:"id" bson:"_id"`
	ProductName string    `json:"product_name" bson:"product_name"`
	Image       string    `json:"image" bson:"image"`
	Price       float64   `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
