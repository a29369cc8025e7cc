// Package model はドメインモデルを定義する。
package model

import "time"

// Food はカフェのメニュー項目を表す。
// AddedByEmailが所有者識別子であり、/my-added-foodsのフィルタに使用される。
type Food struct {
	ID           string
	Name         string
	Image        string
	Category     string
	Quantity     int
	Price        float64
	Origin       string
	Description  string
	AddedByName  string
	AddedByEmail string
	OrderCount   int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
