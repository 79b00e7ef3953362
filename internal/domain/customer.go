package domain

import (
	"strings"
	"time"
)

// Customer is soft deleted through Active.
type Customer struct {
	ID               int64
	Name             string
	Surname          string
	Phone            string
	Email            string
	Address          string
	NationalID       string
	RegistrationDate time.Time
	Active           bool
}

func NewCustomer(name, surname, phone, email, address, nationalID string) *Customer {
	return &Customer{
		Name:             strings.TrimSpace(name),
		Surname:          strings.TrimSpace(surname),
		Phone:            strings.TrimSpace(phone),
		Email:            strings.TrimSpace(email),
		Address:          strings.TrimSpace(address),
		NationalID:       strings.TrimSpace(nationalID),
		RegistrationDate: Today(),
		Active:           true,
	}
}

func (c *Customer) FullName() string {
	return strings.TrimSpace(c.Name + " " + c.Surname)
}

// Today returns the current date at midnight UTC.
func Today() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
