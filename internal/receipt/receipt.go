// Package receipt は確定済み注文を固定幅のテキストに整形する。
// Renderは純関数で、明細のスナップショット以外は何も読まない。
package receipt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"pos/internal/domain/model"
)

const timeLayout = "2006-01-02 15:04:05"

// Render は注文1件のレシート本文を作る。明細は渡された順（＝作成順）。
func Render(o model.Order, items []model.OrderItem) string {
	sep := strings.Repeat("-", 40)

	lines := []string{
		"*** MILK SHOP RECEIPT ***",
		fmt.Sprintf("Order #%d   %s", o.ID, o.Timestamp.Format(timeLayout)),
		sep,
	}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%-15s %5s × %6s = %7s",
			it.ProductNameSnapshot,
			it.Quantity.StringFixed(2),
			it.UnitPriceSnapshot.StringFixed(2),
			it.LineTotal.StringFixed(2),
		))
	}
	lines = append(lines,
		sep,
		"TOTAL: "+o.Total.StringFixed(2),
		"Thank you!",
	)

	return strings.Join(lines, "\n")
}

// FileStore は注文IDからファイル名を決めてレシートを書き出す。
type FileStore struct {
	dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) Save(orderID int64, text string) error {
	path := filepath.Join(s.dir, fmt.Sprintf("receipt_%d.txt", orderID))
	return os.WriteFile(path, []byte(text), 0o644)
}
