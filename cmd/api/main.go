package main

import (
	"time"

	"pos/internal/config"
	"pos/internal/domain/model"
	"pos/internal/handler"
	"pos/internal/infra/db"
	infraRepo "pos/internal/infra/repository"
	"pos/internal/receipt"
	"pos/internal/server"
	"pos/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くても起動できる
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := db.Migrate(gormDB); err != nil {
		panic(err)
	}
	//初回起動時はデフォルト商品を投入
	if err := db.Seed(gormDB); err != nil {
		panic(err)
	}

	//レシート書き出し先
	receiptStore, err := receipt.NewFileStore(cfg.ReceiptDir)
	if err != nil {
		panic(err)
	}

	//Repository（GORM実装）生成
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	tx := infraRepo.NewTxManagerGorm(gormDB)

	//オペレーター1人分のセッションカート
	cart := model.NewCart()

	//Usecase生成
	cartUC := usecase.NewCartUsecase(cart, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(cart, tx, receiptStore)
	catalogUC := usecase.NewCatalogUsecase(tx, productRepo)
	orderUC := usecase.NewOrderUsecase(tx)
	authUC := usecase.NewAuthUsecase(cfg.OperatorPasswordHash, cfg.JWTSecret, 12*time.Hour)

	//Handler生成
	h := server.Handlers{
		Auth:     handler.NewAuthHandler(authUC),
		Product:  handler.NewProductHandler(catalogUC),
		Cart:     handler.NewCartHandler(cartUC),
		Checkout: handler.NewCheckoutHandler(checkoutUC),
		Order:    handler.NewOrderHandler(orderUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, cfg, h); err != nil {
		panic(err)
	}
}
