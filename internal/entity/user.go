package entity

import "context"

// User is the CRM operator who creates meetings.
type User struct {
	ID        string `json:"id" yaml:"id"`
	FirstName string `json:"firstName" yaml:"firstName"`
	LastName  string `json:"lastName" yaml:"lastName"`
	Email     string `json:"email" yaml:"email"`
	Deleted   bool   `json:"deleted" yaml:"deleted"`
}

type UserRepositoryInterface interface {
	UpsertUser(ctx context.Context, u *User) error
}
