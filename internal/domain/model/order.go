package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文。作成後は変更しない（編集・キャンセル操作は無い）。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      time.Time       `gorm:"not null;autoCreateTime" json:"timestamp"`
	Total          decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
}
