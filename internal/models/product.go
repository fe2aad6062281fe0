package models

// Product represents a catalog record.
type Product struct {
	ID            uint    `json:"id" gorm:"primaryKey"`
	Name          string  `json:"name" gorm:"size:100;not null" validate:"required,max=100"`
	Description   string  `json:"description" gorm:"size:500" validate:"max=500"`
	Category      string  `json:"category" gorm:"size:50;not null" validate:"required,max=50"`
	Brand         string  `json:"brand" gorm:"size:50" validate:"max=50"`
	Price         float64 `json:"price" gorm:"not null" validate:"gte=0"`
	StockQuantity int     `json:"stock_quantity" gorm:"not null" validate:"gte=0"`
	SKU           string  `json:"sku" gorm:"size:50;not null;uniqueIndex" validate:"required,max=50"`
}
