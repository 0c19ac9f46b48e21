package entity

import "context"

type Contact struct {
	ID          string `json:"id" yaml:"id"`
	FullName    string `json:"fullName" yaml:"fullName"`
	Email       string `json:"email,omitempty" yaml:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty" yaml:"phoneNumber"`
	Deleted     bool   `json:"deleted" yaml:"deleted"`
}

type ContactRepositoryInterface interface {
	UpsertContact(ctx context.Context, c *Contact) error
}
