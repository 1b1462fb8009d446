package usecase

import (
	"context"
	"strings"
	"time"

	"pos/internal/domain/model"
	"pos/internal/receipt"
	repo "pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// レシートの保存先（ファイルなど）
type ReceiptStore interface {
	Save(orderID int64, text string) error
}

// CheckoutUsecase はカートを確定済み注文に変換する。
// 検証〜コミットは1トランザクションで、部分的な書き込みは残さない。
type CheckoutUsecase struct {
	cart     *model.Cart
	tx       repo.TransactionManager
	receipts ReceiptStore
}

func NewCheckoutUsecase(cart *model.Cart, tx repo.TransactionManager, receipts ReceiptStore) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:     cart,
		tx:       tx,
		receipts: receipts,
	}
}

type CheckoutInput struct {
	IdempotencyKey string
}

type CheckoutOutput struct {
	Order   OrderOutput `json:"order"`
	Receipt string      `json:"receipt"`
}

// Checkout はカート全量を検証してから、注文＋明細＋在庫減算を一括で書く。
// 検証エラー時はカートをそのまま残す（数量を直して再実行できる）。
func (u *CheckoutUsecase) Checkout(ctx context.Context, in CheckoutInput) (CheckoutOutput, error) {
	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}

	var (
		committed model.Order
		items     []model.OrderItem
		replayed  bool
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら既存の注文を返す（二重送信で売り過ぎない）。
		// 前回成功でカートが空になっていても再送は通るよう、空判定より先に引く。
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, key)
		if err != nil {
			return &PersistenceError{Err: err}
		}
		if found {
			prior, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return &PersistenceError{Err: err}
			}
			committed = existing
			items = prior
			replayed = true
			return nil
		}

		// 空カートの判定は新規注文の経路にだけ掛かる
		entries := u.cart.Entries()
		if len(entries) == 0 {
			return &EmptyCartError{}
		}

		// まず全エントリを検証し切る。書き込みはその後。
		products := make([]model.Product, 0, len(entries))
		for _, e := range entries {
			p, err := r.Products().FindByID(ctx, e.ProductID)
			if err == repo.ErrNotFound {
				return &ProductNotFoundError{ProductID: e.ProductID}
			}
			if err != nil {
				return &PersistenceError{Err: err}
			}
			if p.Stock.LessThan(e.Quantity) {
				return &InsufficientStockError{ProductName: p.Name}
			}
			products = append(products, p)
		}

		// 明細は確定時点の価格のスナップショット
		now := time.Now()
		total := decimal.Zero
		items = make([]model.OrderItem, 0, len(entries))
		for i, e := range entries {
			p := products[i]
			line := p.PricePerUnit.Mul(e.Quantity)
			items = append(items, model.OrderItem{
				ProductID:           p.ID,
				ProductNameSnapshot: p.Name,
				UnitPriceSnapshot:   p.PricePerUnit,
				Quantity:            e.Quantity,
				LineTotal:           line,
				CreatedAt:           now,
			})
			total = total.Add(line)
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			Timestamp:      now,
			Total:          total,
			IdempotencyKey: key,
		})
		if err != nil {
			return &PersistenceError{Err: err}
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return &PersistenceError{Err: err}
		}

		// 条件付き減算。検証済みでも0件更新なら巻き戻す。
		for i, e := range entries {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, e.ProductID, e.Quantity)
			if err != nil {
				return &PersistenceError{Err: err}
			}
			if !ok {
				return &InsufficientStockError{ProductName: products[i].Name}
			}
		}

		committed = model.Order{ID: orderID, Timestamp: now, Total: total, IdempotencyKey: key}
		return nil
	})
	if err != nil {
		return CheckoutOutput{}, err
	}

	text := receipt.Render(committed, items)
	out := CheckoutOutput{
		Order:   toOrderOutput(committed, items),
		Receipt: text,
	}

	if !replayed {
		u.cart.Clear()
		if err := u.receipts.Save(committed.ID, text); err != nil {
			// 注文はコミット済みなので、結果を添えてレシート書き込み失敗だけ伝える
			return out, &PersistenceError{Err: err}
		}
	}

	return out, nil
}
