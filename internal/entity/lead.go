package entity

import (
	"context"
)

type Lead struct {
	ID              string `json:"id" yaml:"id"`
	LeadName        string `json:"leadName" yaml:"leadName"`
	LeadEmail       string `json:"leadEmail,omitempty" yaml:"leadEmail"`
	LeadPhoneNumber string `json:"leadPhoneNumber,omitempty" yaml:"leadPhoneNumber"`
	Deleted         bool   `json:"deleted" yaml:"deleted"`
}

type LeadRepositoryInterface interface {
	UpsertLead(ctx context.Context, lead *Lead) error
}
