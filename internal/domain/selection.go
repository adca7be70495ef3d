package domain

import "strings"

// Unchanged は、意図的に変更しなかった次元（カラーまたはスタイル）を示すセンチネルラベルです
const Unchanged = "unchanged"

// 旧フロントエンドが書き込んでいたセンチネルラベル
const (
	legacyUnchangedColor = "Original Tone"
	legacyUnchangedStyle = "Original Cut"
)

// ColorRefinement は、スタイルを適用しない場合のテクニック名です
const ColorRefinement = "Color Refinement"

// IsUnchangedLabel は、ラベルがセンチネル値かどうかを判定します
func IsUnchangedLabel(label string) bool {
	return label == Unchanged || label == legacyUnchangedColor || label == legacyUnchangedStyle
}

// Selection は、ワークベンチで選択されているプリセットとトグルの状態です
type Selection struct {
	Color        Palette
	Style        Hairstyle
	IncludeColor bool
	IncludeStyle bool
}

// NewSelection は、カタログの先頭プリセットを選択し両方のトグルをオンにしたSelectionを作成します
func NewSelection(catalog Catalog) Selection {
	sel := Selection{IncludeColor: true, IncludeStyle: true}
	if len(catalog.Palettes) > 0 {
		sel.Color = catalog.Palettes[0]
	}
	if len(catalog.Hairstyles) > 0 {
		sel.Style = catalog.Hairstyles[0]
	}
	return sel
}

// HasAnyDimension は、カラーまたはスタイルのどちらかが有効かを判定します
func (s Selection) HasAnyDimension() bool {
	return s.IncludeColor || s.IncludeStyle
}

// ColorLabel は、履歴に記録するカラーラベルを返します
func (s Selection) ColorLabel() string {
	if !s.IncludeColor {
		return Unchanged
	}
	return s.Color.Name
}

// StyleLabel は、履歴に記録するスタイルラベルを返します
func (s Selection) StyleLabel() string {
	if !s.IncludeStyle {
		return Unchanged
	}
	return s.Style.Name
}

// Technique は、適用したテクニックの表示名を返します
func (s Selection) Technique() string {
	if s.IncludeStyle {
		return s.Style.Name
	}
	return ColorRefinement
}

// ResultLabel は、比較スライダーの変換後ラベルを返します
func (s Selection) ResultLabel() string {
	if !s.HasAnyDimension() {
		return "NO CHANGE"
	}
	var parts []string
	if s.IncludeColor {
		parts = append(parts, strings.ToUpper(s.Color.Name))
	}
	if s.IncludeStyle {
		parts = append(parts, strings.ToUpper(s.Style.Name))
	}
	return strings.Join(parts, " • ")
}

// Replay は、履歴エントリのラベルからSelectionを再構築します。
// カタログに存在しないラベルは現在の選択を維持したままトグルだけをオフにします。
func (s Selection) Replay(entry TransformationResult, catalog Catalog) Selection {
	next := s

	switch {
	case IsUnchangedLabel(entry.ColorLabel):
		next.IncludeColor = false
	default:
		if p, ok := catalog.PaletteByName(entry.ColorLabel); ok {
			next.Color = p
			next.IncludeColor = true
		} else {
			next.IncludeColor = false
		}
	}

	switch {
	case IsUnchangedLabel(entry.StyleLabel):
		next.IncludeStyle = false
	default:
		if h, ok := catalog.HairstyleByName(entry.StyleLabel); ok {
			next.Style = h
			next.IncludeStyle = true
		} else {
			next.IncludeStyle = false
		}
	}

	return next
}
