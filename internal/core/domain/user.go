package domain

import "github.com/govalues/decimal"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID       uint64
	Login    string
	Password string
	Email    string
	Role     string
	Balance  decimal.Decimal
}
