package domain

import (
	"fmt"
	"strings"
)

// 分析テキストのフォールバック
const (
	AnalysisEmptyFallback  = "High-ticket transformation verified."
	AnalysisFailedFallback = "Signature luxury aesthetic confirmed."
)

// PromptGenerator は、選択状態からGemini APIに送信する指示文を組み立てるドメインサービスです
type PromptGenerator struct{}

// NewPromptGenerator は新しいPromptGeneratorインスタンスを作成します
func NewPromptGenerator() *PromptGenerator {
	return &PromptGenerator{}
}

// TransformDirective は、画像変換用の指示文を返します。
// カラーとスタイルのどちらも有効でない場合は空文字を返します。
func (pg *PromptGenerator) TransformDirective(sel Selection) string {
	var mode string
	switch {
	case sel.IncludeColor && sel.IncludeStyle:
		mode = fmt.Sprintf("Apply a high-ticket %q haircut finished with a premium %q color.", sel.Style.Name, sel.Color.Name)
	case sel.IncludeColor:
		mode = fmt.Sprintf("Keep the original haircut but transform the hair color to a high-luxury %q.", sel.Color.Name)
	case sel.IncludeStyle:
		mode = fmt.Sprintf("Keep the original hair color but transform the hairstyle into a precise %q.", sel.Style.Name)
	default:
		return ""
	}

	var builder strings.Builder
	builder.WriteString("Act as a world-class celebrity hair colorist specializing in Bronx Luxury.\n")
	builder.WriteString(mode)
	builder.WriteString("\nMaintain professional studio lighting. Only modify hair. High-end fashion editorial quality.\n")
	builder.WriteString("Ensure the blend is seamless. Results must look realistic and expensive.")
	return builder.String()
}

// AnalysisPrompt は、分析テキスト生成用のプロンプトを返します
func (pg *PromptGenerator) AnalysisPrompt(sel Selection) string {
	return fmt.Sprintf("You are an elite salon business consultant.\n"+
		"Analyze why %q is a high-ticket look in the luxury Bronx market.\n"+
		"Keep it confident, exclusive, and under 30 words.", pg.combo(sel))
}

// combo は、分析対象のルック名を返します
func (pg *PromptGenerator) combo(sel Selection) string {
	switch {
	case sel.IncludeColor && sel.IncludeStyle:
		return fmt.Sprintf("a %s with %s", sel.Style.Name, sel.Color.Name)
	case sel.IncludeColor:
		return sel.Color.Name
	default:
		return sel.Style.Name
	}
}
