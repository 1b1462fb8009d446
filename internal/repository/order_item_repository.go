package repository

import (
	"context"

	"pos/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	// id昇順＝作成順で返す（レシートの行順）
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
}
