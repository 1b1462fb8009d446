package model

import "github.com/shopspring/decimal"

// オペレーター1人分のセッションカート。永続化しない。
// 追加順を保持する（レシートの行順になる）。
type Cart struct {
	keys       []int64
	quantities map[int64]decimal.Decimal
}

type CartEntry struct {
	ProductID int64
	Quantity  decimal.Decimal
}

func NewCart() *Cart {
	return &Cart{quantities: map[int64]decimal.Decimal{}}
}

// 同一商品は数量加算（置き換えではない）
func (c *Cart) Add(productID int64, qty decimal.Decimal) {
	if _, ok := c.quantities[productID]; !ok {
		c.keys = append(c.keys, productID)
	}
	c.quantities[productID] = c.quantities[productID].Add(qty)
}

// エントリ全体を削除する。部分減算はしない。
func (c *Cart) Remove(productID int64) bool {
	if _, ok := c.quantities[productID]; !ok {
		return false
	}
	delete(c.quantities, productID)
	for i, k := range c.keys {
		if k == productID {
			c.keys = append(c.keys[:i], c.keys[i+1:]...)
			break
		}
	}
	return true
}

func (c *Cart) Clear() {
	c.keys = nil
	c.quantities = map[int64]decimal.Decimal{}
}

func (c *Cart) Len() int {
	return len(c.keys)
}

// 追加順のエントリ一覧
func (c *Cart) Entries() []CartEntry {
	entries := make([]CartEntry, 0, len(c.keys))
	for _, k := range c.keys {
		entries = append(entries, CartEntry{ProductID: k, Quantity: c.quantities[k]})
	}
	return entries
}

func (c *Cart) Quantity(productID int64) (decimal.Decimal, bool) {
	q, ok := c.quantities[productID]
	return q, ok
}
