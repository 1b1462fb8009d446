package repository

import (
	"context"

	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
)

type InventoryRepository interface {
	// 在庫が足りるときだけ減算
	DecreaseStockIfEnough(ctx context.Context, productID int64, qty decimal.Decimal) (bool, error)

	// 調整履歴作成
	CreateAdjustment(ctx context.Context, adjustment model.StockAdjustment) error

	// 調整履歴を新しい順で返す
	ListAdjustments(ctx context.Context, productID int64) ([]model.StockAdjustment, error)
}
