package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type InvoiceStatus string

const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
)

func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusPending, InvoiceStatusPaid:
		return true
	default:
		return false
	}
}

// InvoiceItem is one billable line. ServiceID holds the payment provider's
// product identifier.
type InvoiceItem struct {
	ID           snowflake.ID `json:"_id"`
	ServiceID    string       `json:"serviceId"`
	ServiceName  string       `json:"serviceName"`
	ServicePrice float64      `json:"servicePrice"`
}

type Invoice struct {
	ID           snowflake.ID                     `gorm:"primaryKey;autoIncrement:false" json:"_id"`
	UserID       snowflake.ID                     `gorm:"column:user_id;not null;index:ix_invoices_user_id" json:"user"`
	InvoiceItems datatypes.JSONSlice[InvoiceItem] `gorm:"column:invoice_items;not null" json:"invoiceItems"`
	Total        float64                          `gorm:"not null;default:0" json:"total"`
	Status       InvoiceStatus                    `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	PaymentDate  *time.Time                       `gorm:"column:payment_date" json:"paymentDate,omitempty"`
	PaymentLink  string                           `gorm:"column:payment_link" json:"paymentLink,omitempty"`
	CreatedAt    time.Time                        `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time                        `gorm:"not null" json:"updatedAt"`
}

func (Invoice) TableName() string {
	return "invoices"
}
