package model

import "time"

// Order は注文を表す。
// MainFoodIDが論理キーであり、同一キーへの再注文は全フィールドを上書きする
// （last-write-wins、マージなし）。
type Order struct {
	ID         string
	MainFoodID string
	FoodName   string
	FoodImage  string
	Price      float64
	Quantity   int
	BuyerName  string
	BuyerEmail string
	OrderedAt  time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
