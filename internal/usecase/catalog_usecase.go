package usecase

import (
	"context"
	"strings"

	"pos/internal/domain/model"
	repo "pos/internal/repository"

	"github.com/shopspring/decimal"
)

// CatalogUsecase は売場外での商品メンテナンス（追加・上書き・削除・一覧）。
type CatalogUsecase struct {
	tx          repo.TransactionManager
	productRepo repo.ProductRepository
}

func NewCatalogUsecase(tx repo.TransactionManager, productRepo repo.ProductRepository) *CatalogUsecase {
	return &CatalogUsecase{
		tx:          tx,
		productRepo: productRepo,
	}
}

type UpsertProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock decimal.Decimal
}

// Upsert は名前だけを同一判定キーにする。
// 既存なら価格と在庫を上書き（加算ではない）、無ければ新規作成。
func (u *CatalogUsecase) Upsert(ctx context.Context, in UpsertProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, &ValidationError{Field: "name", Reason: "required"}
	}
	if in.Price.IsNegative() {
		return model.Product{}, &ValidationError{Field: "price", Reason: "must be >= 0"}
	}
	if in.Stock.IsNegative() {
		return model.Product{}, &ValidationError{Field: "stock", Reason: "must be >= 0"}
	}

	var out model.Product

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		existing, found, err := r.Products().FindByName(ctx, name)
		if err != nil {
			return &PersistenceError{Err: err}
		}

		if !found {
			created, err := r.Products().Create(ctx, model.Product{
				Name:         name,
				PricePerUnit: in.Price,
				Stock:        in.Stock,
			})
			if err != nil {
				return &PersistenceError{Err: err}
			}
			out = created
			return nil
		}

		delta := in.Stock.Sub(existing.Stock)
		existing.PricePerUnit = in.Price
		existing.Stock = in.Stock
		if err := r.Products().Update(ctx, existing); err != nil {
			return &PersistenceError{Err: err}
		}

		// 在庫を動かしたときだけ履歴を残す
		if !delta.IsZero() {
			adj := model.StockAdjustment{
				ProductID: existing.ID,
				Delta:     delta,
				Reason:    "catalog upsert",
			}
			if err := r.Inventory().CreateAdjustment(ctx, adj); err != nil {
				return &PersistenceError{Err: err}
			}
		}

		out = existing
		return nil
	})
	if err != nil {
		return model.Product{}, err
	}
	return out, nil
}

// Delete は注文履歴に参照が残っていても消せる
// （明細側がスナップショットを持つので履歴は壊れない）。
func (u *CatalogUsecase) Delete(ctx context.Context, productID int64) error {
	if productID <= 0 {
		return &ValidationError{Field: "product_id", Reason: "must be positive"}
	}

	err := u.productRepo.Delete(ctx, productID)
	if err == repo.ErrNotFound {
		return &NotFoundError{Entity: "product"}
	}
	if err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}

// List は名前昇順の全商品。
func (u *CatalogUsecase) List(ctx context.Context) ([]model.Product, error) {
	products, err := u.productRepo.List(ctx)
	if err != nil {
		return []model.Product{}, &PersistenceError{Err: err}
	}
	return products, nil
}

// ListAdjustments は商品1件の在庫調整履歴（新しい順）。
func (u *CatalogUsecase) ListAdjustments(ctx context.Context, productID int64) ([]model.StockAdjustment, error) {
	if productID <= 0 {
		return nil, &ValidationError{Field: "product_id", Reason: "must be positive"}
	}

	var out []model.StockAdjustment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return &NotFoundError{Entity: "product"}
			}
			return &PersistenceError{Err: err}
		}

		adjustments, err := r.Inventory().ListAdjustments(ctx, productID)
		if err != nil {
			return &PersistenceError{Err: err}
		}
		out = adjustments
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
