package models

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Product represents a catalog item in the store.
type Product struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Name        string          `json:"name" gorm:"type:varchar(100);not null" validate:"required,max=100"`
	Description string          `json:"description" gorm:"type:varchar(250)" validate:"omitempty,max=250"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2)" validate:"required"`
	Available   bool            `json:"available"`
	Category    Category        `json:"category" gorm:"type:smallint"`
}

// UnmarshalJSON decodes a product, requiring the category key to be
// present. The Category zero value is UNKNOWN, which is a legitimate
// category, so absence has to be detected here rather than by the
// struct validator.
func (p *Product) UnmarshalJSON(data []byte) error {
	type productAlias Product
	aux := struct {
		Category *Category `json:"category"`
		*productAlias
	}{productAlias: (*productAlias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Category == nil {
		return fmt.Errorf("category is required")
	}
	p.Category = *aux.Category
	return nil
}
