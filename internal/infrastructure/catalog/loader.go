package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"vibestyle/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Default は、組み込みのカタログを返します
func Default() domain.Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		// 組み込みのYAMLは常に正しい
		return domain.DefaultCatalog()
	}
	return c
}

// LoadFile は、YAMLファイルからカタログを読み込みます
func LoadFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Catalog{}, fmt.Errorf("カタログファイルの読み込みに失敗: %w", err)
	}
	return Parse(data)
}

// Parse は、YAMLからカタログを解析し、内容を検証します
func Parse(data []byte) (domain.Catalog, error) {
	var c domain.Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return domain.Catalog{}, fmt.Errorf("カタログのYAML解析に失敗: %w", err)
	}
	if err := validate(c); err != nil {
		return domain.Catalog{}, err
	}
	return c, nil
}

// validate は、空のカタログや重複・空のプリセットを検出します
func validate(c domain.Catalog) error {
	if c.IsEmpty() {
		return fmt.Errorf("カタログにはカラーとヘアスタイルが1つ以上必要です")
	}

	names := make(map[string]bool, len(c.Palettes))
	for i, p := range c.Palettes {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("palettes[%d] の name が空です", i)
		}
		if domain.IsUnchangedLabel(p.Name) {
			return fmt.Errorf("palettes[%d] の name %q は予約されています", i, p.Name)
		}
		if names[p.Name] {
			return fmt.Errorf("カラー名 %q が重複しています", p.Name)
		}
		names[p.Name] = true
	}

	ids := make(map[string]bool, len(c.Hairstyles))
	styleNames := make(map[string]bool, len(c.Hairstyles))
	for i, h := range c.Hairstyles {
		if strings.TrimSpace(h.ID) == "" || strings.TrimSpace(h.Name) == "" {
			return fmt.Errorf("hairstyles[%d] の id または name が空です", i)
		}
		if domain.IsUnchangedLabel(h.Name) {
			return fmt.Errorf("hairstyles[%d] の name %q は予約されています", i, h.Name)
		}
		if ids[h.ID] {
			return fmt.Errorf("ヘアスタイルID %q が重複しています", h.ID)
		}
		if styleNames[h.Name] {
			return fmt.Errorf("ヘアスタイル名 %q が重複しています", h.Name)
		}
		ids[h.ID] = true
		styleNames[h.Name] = true
	}
	return nil
}
