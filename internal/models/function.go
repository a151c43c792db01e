package models

import "errors"

type FunctionType string

const (
	FunctionAccounting FunctionType = "accounting"
	FunctionTax        FunctionType = "tax"
	FunctionCompliance FunctionType = "compliance"
	FunctionAudit      FunctionType = "audit"
)

var ErrInvalidFunctionType = errors.New("invalid function type")

// Function is one entry of the fixed business-function catalog.
type Function struct {
	ID          uint64       `gorm:"primarykey" json:"id"`
	Name        string       `gorm:"type:varchar(100);not null" json:"name"`
	Description string       `gorm:"type:varchar(500)" json:"description"`
	Type        FunctionType `gorm:"type:varchar(50);uniqueIndex;not null" json:"type"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
}

// FunctionCatalog returns the seeded catalog in its canonical order.
func FunctionCatalog() []Function {
	return []Function{
		{Name: "Accounting", Description: "Financial reporting and accounting", Type: FunctionAccounting, IsActive: true},
		{Name: "Tax", Description: "Tax compliance and filing", Type: FunctionTax, IsActive: true},
		{Name: "Compliance", Description: "Regulatory compliance", Type: FunctionCompliance, IsActive: true},
		{Name: "Audit", Description: "Internal and external audits", Type: FunctionAudit, IsActive: true},
	}
}

// ParseFunctionType validates a function type name.
func ParseFunctionType(raw string) (FunctionType, error) {
	switch ft := FunctionType(raw); ft {
	case FunctionAccounting, FunctionTax, FunctionCompliance, FunctionAudit:
		return ft, nil
	default:
		return "", ErrInvalidFunctionType
	}
}
