package domain

import "time"

type User struct {
	ID        int64
	Username  string
	FirstName string
	Phone     string
	CreatedAt time.Time
}
