package usecase

import (
	"context"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はセッションカートの業務ロジックです。
// カートは在庫を一切触らない。在庫が効くのはレジ締めだけ。
type CartUsecase struct {
	cart        *model.Cart
	productRepo repo.ProductRepository
}

func NewCartUsecase(cart *model.Cart, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		cart:        cart,
		productRepo: productRepo,
	}
}

// 行の単価・金額は表示時点の商品価格で計算する
// （確定済みのline_totalとは別物）。
type CartLine struct {
	ProductID  int64           `json:"product_id"`
	Name       string          `json:"name"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   decimal.Decimal `json:"quantity"`
	LineAmount decimal.Decimal `json:"line_amount"`
}

type CartView struct {
	Lines []CartLine      `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// AddItem はカートに追加（同一商品は数量加算）。在庫上限はここでは見ない。
func (u *CartUsecase) AddItem(ctx context.Context, productID int64, qty decimal.Decimal) (CartView, error) {
	if productID <= 0 {
		return CartView{}, &ValidationError{Field: "product_id", Reason: "must be positive"}
	}
	if !qty.IsPositive() {
		return CartView{}, &ValidationError{Field: "quantity", Reason: "must be > 0"}
	}

	// 商品の存在チェック
	if _, err := u.productRepo.FindByID(ctx, productID); err != nil {
		if err == repo.ErrNotFound {
			return CartView{}, &ProductNotFoundError{ProductID: productID}
		}
		return CartView{}, &PersistenceError{Err: err}
	}

	u.cart.Add(productID, qty)
	return u.View(ctx)
}

// RemoveItem はエントリごと削除する。
func (u *CartUsecase) RemoveItem(ctx context.Context, productID int64) (CartView, error) {
	if !u.cart.Remove(productID) {
		return CartView{}, &NotFoundError{Entity: "cart item"}
	}
	return u.View(ctx)
}

func (u *CartUsecase) Clear(ctx context.Context) (CartView, error) {
	u.cart.Clear()
	return u.View(ctx)
}

// View は追加順の行と合計を返す。
// 価格は毎回ストアから読み直すので、追加後の価格変更が表示に反映される。
func (u *CartUsecase) View(ctx context.Context) (CartView, error) {
	entries := u.cart.Entries()

	lines := make([]CartLine, 0, len(entries))
	total := decimal.Zero

	for _, e := range entries {
		p, err := u.productRepo.FindByID(ctx, e.ProductID)
		if err == repo.ErrNotFound {
			return CartView{}, &ProductNotFoundError{ProductID: e.ProductID}
		}
		if err != nil {
			return CartView{}, &PersistenceError{Err: err}
		}

		amount := p.PricePerUnit.Mul(e.Quantity)
		lines = append(lines, CartLine{
			ProductID:  p.ID,
			Name:       p.Name,
			UnitPrice:  p.PricePerUnit,
			Quantity:   e.Quantity,
			LineAmount: amount,
		})
		total = total.Add(amount)
	}

	return CartView{Lines: lines, Total: total}, nil
}
