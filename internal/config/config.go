package config

import (
	"fmt"
	"os"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	ReceiptDir string // レシートの書き出し先

	JWTSecret            string // JWT署名シークレット
	OperatorPasswordHash string // オペレーターのbcryptハッシュ

	GoEnv string // dev/prod
}

// Loadは環境変数
// DB接続（DATABASE_URL / POSTGRES_*）はinfra/db側が直接読む。
func Load() (Config, error) {
	cfg := Config{
		Port:                 getenv("PORT", "8080"),
		ReceiptDir:           getenv("RECEIPT_DIR", "./receipts"),
		JWTSecret:            os.Getenv("JWT_SECRET"),
		OperatorPasswordHash: os.Getenv("OPERATOR_PASSWORD_HASH"),
		GoEnv:                getenv("GO_ENV", "dev"),
	}

	//必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.OperatorPasswordHash == "" {
		return Config{}, fmt.Errorf("OPERATOR_PASSWORD_HASH is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}
