package models

import "strings"

// NotAvailable is the placeholder for fields the admin never provided.
const NotAvailable = "N/A"

// User is a single entry in the directory. Email is the primary
// identifier and is stored lowercase; City is the only field the update
// command may change after creation.
type User struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
	City  string `json:"city" yaml:"city"`
}

// Normalized returns a copy with missing fields defaulted and the email
// lowercased. Applied to every record on load so malformed persisted data
// never leaks past the store.
func (u User) Normalized() User {
	out := User{
		Name:  u.Name,
		Email: strings.ToLower(u.Email),
		Phone: u.Phone,
		City:  u.City,
	}
	if out.Name == "" {
		out.Name = NotAvailable
	}
	if out.Phone == "" {
		out.Phone = NotAvailable
	}
	if out.City == "" {
		out.City = NotAvailable
	}
	return out
}
