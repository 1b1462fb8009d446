package db

import (
	"pos/internal/domain/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Migrate はPOSが使うテーブルを作る。
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.StockAdjustment{},
	)
}

// Seed はカタログが空のときだけデフォルト商品を投入する。
func Seed(gormDB *gorm.DB) error {
	var count int64
	if err := gormDB.Model(&model.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []struct {
		name  string
		price int64
	}{
		{"Milk (per kg)", 150},
		{"Yogurt (per kg)", 200},
		{"Sweets (per dish)", 100},
		{"Dhai Bhale", 120},
		{"Cream Chaat", 130},
		{"Rice Pudding", 90},
		{"Desi Ghee (250g)", 250},
	}

	products := make([]model.Product, 0, len(defaults))
	for _, d := range defaults {
		products = append(products, model.Product{
			Name:         d.name,
			PricePerUnit: decimal.NewFromInt(d.price),
			Stock:        decimal.NewFromInt(100),
		})
	}
	return gormDB.Create(&products).Error
}
