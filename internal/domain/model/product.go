package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 商品。nameがユニークでUpsertの同一判定キーになる。
type Product struct {
	ID           int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"name"`
	PricePerUnit decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_per_unit"`
	Stock        decimal.Decimal `gorm:"type:numeric(12,3);not null" json:"stock"`
	CreatedAt    time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
