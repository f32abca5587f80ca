package safety

import (
	"embed"
	"fmt"
	"os"
)

//go:embed data/curated.yaml data/rules.yaml
var embedded embed.FS

// readData 讀取外部檔案，path 為空時使用內建資料
func readData(path, builtin string) ([]byte, error) {
	if path == "" {
		return embedded.ReadFile("data/" + builtin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
