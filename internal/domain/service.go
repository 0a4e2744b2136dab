package domain

import "github.com/shopspring/decimal"

type Service struct {
	ID              int64
	Name            string
	Category        string
	DurationMinutes int
	Price           decimal.Decimal
}
