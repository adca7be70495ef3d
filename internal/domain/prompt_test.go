package domain

import (
	"strings"
	"testing"
)

func TestPromptGenerator_TransformDirective(t *testing.T) {
	pg := NewPromptGenerator()
	sel := NewSelection(DefaultCatalog())

	both := pg.TransformDirective(sel)
	if !strings.Contains(both, `"Wolf Cut" haircut finished with a premium "Icy Platinum" color`) {
		t.Errorf("両方オンの指示文が正しくありません: %s", both)
	}

	sel.IncludeStyle = false
	if got := pg.TransformDirective(sel); !strings.Contains(got, "Keep the original haircut") {
		t.Errorf("カラーのみの指示文が正しくありません: %s", got)
	}

	sel.IncludeStyle, sel.IncludeColor = true, false
	if got := pg.TransformDirective(sel); !strings.Contains(got, "Keep the original hair color") {
		t.Errorf("スタイルのみの指示文が正しくありません: %s", got)
	}

	sel.IncludeStyle = false
	if got := pg.TransformDirective(sel); got != "" {
		t.Errorf("両方オフでは空文字が期待されました: %s", got)
	}
}

func TestPromptGenerator_AnalysisPrompt(t *testing.T) {
	pg := NewPromptGenerator()
	sel := NewSelection(DefaultCatalog())

	if got := pg.AnalysisPrompt(sel); !strings.Contains(got, `"a Wolf Cut with Icy Platinum"`) {
		t.Errorf("組み合わせの分析プロンプトが正しくありません: %s", got)
	}
	sel.IncludeStyle = false
	if got := pg.AnalysisPrompt(sel); !strings.Contains(got, `"Icy Platinum"`) {
		t.Errorf("カラーのみの分析プロンプトが正しくありません: %s", got)
	}
}
