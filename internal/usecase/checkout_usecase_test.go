package usecase_test

import (
	"context"
	"errors"
	"testing"

	"pos/internal/domain/model"
	repo "pos/internal/repository"
	"pos/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// CoTxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type CoTxManagerMock struct {
	Repos repo.TxRepos
	// fnがエラーを返した＝全体ロールバックの扱い
	CommitErr error
}

func (m *CoTxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	if err := fn(m.Repos); err != nil {
		return err
	}
	return m.CommitErr
}

type CoTxReposMock struct {
	products   repo.ProductRepository
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	inventory  repo.InventoryRepository
}

func (r *CoTxReposMock) Products() repo.ProductRepository     { return r.products }
func (r *CoTxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *CoTxReposMock) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *CoTxReposMock) Inventory() repo.InventoryRepository  { return r.inventory }

// =====================
// Repository mocks (Checkout向け：衝突回避)
// =====================

type CoProductRepoMock struct{ mock.Mock }

func (m *CoProductRepoMock) List(ctx context.Context) ([]model.Product, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *CoProductRepoMock) FindByName(ctx context.Context, name string) (model.Product, bool, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) Update(ctx context.Context, p model.Product) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoProductRepoMock) Delete(ctx context.Context, id int64) error {
	panic("not used in CheckoutUsecase tests")
}

type CoOrderRepoMock struct{ mock.Mock }

func (m *CoOrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoOrderRepoMock) List(ctx context.Context, page int, limit int) ([]model.Order, int64, error) {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoOrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *CoOrderRepoMock) FindByIdempotencyKey(ctx context.Context, key string) (model.Order, bool, error) {
	args := m.Called(ctx, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type CoOrderItemRepoMock struct{ mock.Mock }

func (m *CoOrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *CoOrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CoInventoryRepoMock struct{ mock.Mock }

func (m *CoInventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, productID int64, qty decimal.Decimal) (bool, error) {
	args := m.Called(ctx, productID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *CoInventoryRepoMock) CreateAdjustment(ctx context.Context, adj model.StockAdjustment) error {
	panic("not used in CheckoutUsecase tests")
}

func (m *CoInventoryRepoMock) ListAdjustments(ctx context.Context, productID int64) ([]model.StockAdjustment, error) {
	panic("not used in CheckoutUsecase tests")
}

type ReceiptStoreMock struct{ mock.Mock }

func (m *ReceiptStoreMock) Save(orderID int64, text string) error {
	args := m.Called(orderID, text)
	return args.Error(0)
}

// =====================
// Helpers
// =====================

type checkoutFixture struct {
	cart      *model.Cart
	products  *CoProductRepoMock
	orders    *CoOrderRepoMock
	items     *CoOrderItemRepoMock
	inventory *CoInventoryRepoMock
	receipts  *ReceiptStoreMock
	uc        *usecase.CheckoutUsecase
}

func newCheckoutFixture() *checkoutFixture {
	f := &checkoutFixture{
		cart:      model.NewCart(),
		products:  new(CoProductRepoMock),
		orders:    new(CoOrderRepoMock),
		items:     new(CoOrderItemRepoMock),
		inventory: new(CoInventoryRepoMock),
		receipts:  new(ReceiptStoreMock),
	}
	tx := &CoTxManagerMock{Repos: &CoTxReposMock{
		products:   f.products,
		orders:     f.orders,
		orderItems: f.items,
		inventory:  f.inventory,
	}}
	f.uc = usecase.NewCheckoutUsecase(f.cart, tx, f.receipts)
	return f
}

func eqDec(want decimal.Decimal) interface{} {
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()
	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)

	_, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	var ec *usecase.EmptyCartError
	assert.ErrorAs(t, err, &ec)

	// 書き込みは一切しない
	f.orders.AssertNotCalled(t, "Create")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough")
}

func TestCheckout_ProductDeletedAfterAdding(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(7, decimal.NewFromInt(1))

	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(7)).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	var pnf *usecase.ProductNotFoundError
	assert.ErrorAs(t, err, &pnf)
	assert.Equal(t, int64(7), pnf.ProductID)

	// カートは残す（修正して再実行できる）
	assert.Equal(t, 1, f.cart.Len())
	f.orders.AssertNotCalled(t, "Create")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough")
}

// 1件でも在庫不足なら全体を中止。他の商品の在庫が足りていても書き込みは無し。
func TestCheckout_InsufficientStockAbortsWholeCart(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(1, decimal.NewFromInt(1))
	f.cart.Add(2, decimal.NewFromInt(1))

	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Milk (per kg)", PricePerUnit: decimal.NewFromInt(150), Stock: decimal.NewFromInt(10),
	}, nil)
	f.products.On("FindByID", mock.Anything, int64(2)).Return(model.Product{
		ID: 2, Name: "Rice Pudding", PricePerUnit: decimal.NewFromInt(90), Stock: decimal.NewFromFloat(0.5),
	}, nil)

	_, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	var ins *usecase.InsufficientStockError
	assert.ErrorAs(t, err, &ins)
	assert.Equal(t, "Rice Pudding", ins.ProductName)

	assert.Equal(t, 2, f.cart.Len())
	f.orders.AssertNotCalled(t, "Create")
	f.items.AssertNotCalled(t, "CreateBulk")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough")
	f.receipts.AssertNotCalled(t, "Save")
}

func TestCheckout_Success(t *testing.T) {
	f := newCheckoutFixture()
	half := decimal.NewFromFloat(0.5)
	f.cart.Add(1, half)
	f.cart.Add(1, half) // 加算で1.0になる

	price := decimal.NewFromInt(150)
	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Milk (per kg)", PricePerUnit: price, Stock: decimal.NewFromInt(10),
	}, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Total.Equal(price) && o.IdempotencyKey != ""
	})).Return(int64(42), nil)
	f.items.On("CreateBulk", mock.Anything, int64(42), mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 1 {
			return false
		}
		it := items[0]
		return it.ProductNameSnapshot == "Milk (per kg)" &&
			it.Quantity.Equal(decimal.NewFromInt(1)) &&
			it.UnitPriceSnapshot.Equal(price) &&
			it.LineTotal.Equal(price)
	})).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), eqDec(decimal.NewFromInt(1))).Return(true, nil)
	f.receipts.On("Save", int64(42), mock.MatchedBy(func(text string) bool {
		return len(text) > 0
	})).Return(nil)

	out, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	assert.NoError(t, err)

	assert.Equal(t, int64(42), out.Order.ID)
	assert.True(t, out.Order.Total.Equal(price))
	assert.Equal(t, 1, len(out.Order.Items))
	assert.Contains(t, out.Receipt, "*** MILK SHOP RECEIPT ***")
	assert.Contains(t, out.Receipt, "Milk (per kg)    1.00 × 150.00 =  150.00")
	assert.Contains(t, out.Receipt, "TOTAL: 150.00")

	// 成功時だけカートが空になる
	assert.Equal(t, 0, f.cart.Len())

	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
	f.receipts.AssertExpectations(t)
}

// 確定時の価格が使われる（カート追加時の価格ではない）
func TestCheckout_UsesPriceAtCheckoutTime(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(1, decimal.NewFromInt(1))

	newPrice := decimal.NewFromInt(160)
	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Milk (per kg)", PricePerUnit: newPrice, Stock: decimal.NewFromInt(10),
	}, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.Total.Equal(newPrice)
	})).Return(int64(1), nil)
	f.items.On("CreateBulk", mock.Anything, int64(1), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].LineTotal.Equal(newPrice)
	})).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), mock.Anything).Return(true, nil)
	f.receipts.On("Save", int64(1), mock.Anything).Return(nil)

	out, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	assert.NoError(t, err)
	assert.True(t, out.Order.Items[0].LineTotal.Equal(newPrice))
}

// 永続化が落ちたら全体が失敗。カートとレシートは無事。
func TestCheckout_PersistenceFailureRollsBack(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(1, decimal.NewFromInt(1))

	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Milk (per kg)", PricePerUnit: decimal.NewFromInt(150), Stock: decimal.NewFromInt(10),
	}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("connection reset"))

	_, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	var pe *usecase.PersistenceError
	assert.ErrorAs(t, err, &pe)

	assert.Equal(t, 1, f.cart.Len())
	f.items.AssertNotCalled(t, "CreateBulk")
	f.receipts.AssertNotCalled(t, "Save")
}

// 同じidempotency keyの再送は既存注文を返し、在庫を二重に減らさない
func TestCheckout_IdempotentReplay(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(1, decimal.NewFromInt(1))

	existing := model.Order{ID: 7, Total: decimal.NewFromInt(150), IdempotencyKey: "key-1"}
	priorItems := []model.OrderItem{{
		OrderID:             7,
		ProductID:           1,
		ProductNameSnapshot: "Milk (per kg)",
		UnitPriceSnapshot:   decimal.NewFromInt(150),
		Quantity:            decimal.NewFromInt(1),
		LineTotal:           decimal.NewFromInt(150),
	}}
	f.orders.On("FindByIdempotencyKey", mock.Anything, "key-1").Return(existing, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(7)).Return(priorItems, nil)

	out, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Order.ID)

	f.orders.AssertNotCalled(t, "Create")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough")
	f.receipts.AssertNotCalled(t, "Save")
}

// 初回成功でカートが空になった後の再送でも、同じキーなら既存注文が返る
func TestCheckout_ReplayAfterCartCleared(t *testing.T) {
	f := newCheckoutFixture()
	// カートは空のまま

	existing := model.Order{ID: 7, Total: decimal.NewFromInt(150), IdempotencyKey: "key-1"}
	priorItems := []model.OrderItem{{
		OrderID:             7,
		ProductID:           1,
		ProductNameSnapshot: "Milk (per kg)",
		UnitPriceSnapshot:   decimal.NewFromInt(150),
		Quantity:            decimal.NewFromInt(1),
		LineTotal:           decimal.NewFromInt(150),
	}}
	f.orders.On("FindByIdempotencyKey", mock.Anything, "key-1").Return(existing, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(7)).Return(priorItems, nil)

	out, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{IdempotencyKey: "key-1"})
	assert.NoError(t, err)
	assert.Equal(t, int64(7), out.Order.ID)
	assert.Contains(t, out.Receipt, "TOTAL: 150.00")

	f.orders.AssertNotCalled(t, "Create")
	f.inventory.AssertNotCalled(t, "DecreaseStockIfEnough")
	f.receipts.AssertNotCalled(t, "Save")
}

// レシート書き込みが落ちても注文はコミット済み。結果はエラーと一緒に返る。
func TestCheckout_ReceiptSaveFailureStillReturnsOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.cart.Add(1, decimal.NewFromInt(1))

	price := decimal.NewFromInt(150)
	f.orders.On("FindByIdempotencyKey", mock.Anything, mock.Anything).Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(1)).Return(model.Product{
		ID: 1, Name: "Milk (per kg)", PricePerUnit: price, Stock: decimal.NewFromInt(10),
	}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	f.items.On("CreateBulk", mock.Anything, int64(42), mock.Anything).Return(nil)
	f.inventory.On("DecreaseStockIfEnough", mock.Anything, int64(1), mock.Anything).Return(true, nil)
	f.receipts.On("Save", int64(42), mock.Anything).Return(errors.New("disk full"))

	out, err := f.uc.Checkout(context.Background(), usecase.CheckoutInput{})
	var pe *usecase.PersistenceError
	assert.ErrorAs(t, err, &pe)

	// 売上自体は成立している
	assert.Equal(t, int64(42), out.Order.ID)
	assert.True(t, out.Order.Total.Equal(price))
	assert.Equal(t, 0, f.cart.Len())
}
