package web

import (
	"embed"
	"html/template"
	"io"
	"math"
	"net/http"
	"strconv"
	"strings"

	"vibestyle/internal/application"
	"vibestyle/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// renderer は、埋め込みテンプレートでページを描画します
type renderer struct {
	page *template.Template
}

func newRenderer() *renderer {
	funcs := template.FuncMap{
		"imageURL": imageURL,
		"label":    displayLabel,
		"upper":    strings.ToUpper,
		"pct":      formatPercent,
	}
	return &renderer{
		page: template.Must(template.New("index.html").Funcs(funcs).ParseFS(templateFS, "templates/index.html")),
	}
}

func (r *renderer) render(w io.Writer, data pageData) error {
	return r.page.Execute(w, data)
}

// pageData は、ワークベンチページのテンプレートに渡す値です
type pageData struct {
	View        application.WorkbenchView
	Geometry    domain.SliderGeometry
	BeforeLabel string
	AfterLabel  string
	Palettes    []paletteOption
	Hairstyles  []hairstyleOption
	Error       string
	Lead        leadView
	// RefreshSeconds は、自動的にページを再読み込みするまでの秒数です（0で無効）
	RefreshSeconds int
	RefreshTarget  string
	Slider         sliderBounds
}

// sliderBounds は、ページのスクリプトがポインタ移動時の計算に使う境界値です
type sliderBounds struct {
	Min   float64
	Max   float64
	Floor float64
}

type paletteOption struct {
	domain.Palette
	Selected bool
}

type hairstyleOption struct {
	domain.Hairstyle
	Selected bool
}

type sizeOption struct {
	Value string
	Label string
}

// leadView は、リード獲得フォームの表示状態です
type leadView struct {
	Status domain.LeadFormStatus
	Studio string
	Sizes  []sizeOption
}

// IsSuccess は、送信成功の表示かどうかを返します
func (l leadView) IsSuccess() bool { return l.Status == domain.LeadSuccess }

// IsError は、送信失敗の表示かどうかを返します
func (l leadView) IsError() bool { return l.Status == domain.LeadError }

// buildPage は、ワークベンチの状態とクエリからページの値を組み立てます
func (h *Handler) buildPage(view application.WorkbenchView, r *http.Request) pageData {
	q := r.URL.Query()

	page := pageData{
		View:        view,
		Geometry:    domain.NewSliderState().Geometry(),
		BeforeLabel: domain.DefaultBeforeLabel,
		AfterLabel:  view.AfterLabel,
		Error:       formatNotice(q.Get("error")),
		Lead:        newLeadView(q.Get("lead"), q.Get("studio")),
		Slider: sliderBounds{
			Min:   domain.SliderMin,
			Max:   domain.SliderMax,
			Floor: domain.SliderScaleFloor,
		},
	}
	if page.AfterLabel == "" {
		page.AfterLabel = domain.DefaultAfterLabel
	}

	for _, p := range view.Catalog.Palettes {
		page.Palettes = append(page.Palettes, paletteOption{
			Palette:  p,
			Selected: view.Selection.IncludeColor && p.Name == view.Selection.Color.Name,
		})
	}
	for _, s := range view.Catalog.Hairstyles {
		page.Hairstyles = append(page.Hairstyles, hairstyleOption{
			Hairstyle: s,
			Selected:  view.Selection.IncludeStyle && s.ID == view.Selection.Style.ID,
		})
	}

	switch {
	case page.Lead.IsError():
		page.RefreshSeconds = int(domain.LeadErrorResetDelay.Seconds())
		page.RefreshTarget = "/#partner"
	case view.Status == domain.StatusFailed:
		page.RefreshSeconds = max(int(math.Ceil(h.options.FailureResetDelay.Seconds())), 1)
		page.RefreshTarget = "/#workbench"
	}
	return page
}

func newLeadView(status, studio string) leadView {
	view := leadView{Status: domain.LeadIdle}
	switch status {
	case domain.LeadSuccess.String():
		view.Status = domain.LeadSuccess
		view.Studio = studio
	case domain.LeadError.String():
		view.Status = domain.LeadError
	}
	for _, size := range domain.AllEmployeeSizes() {
		view.Sizes = append(view.Sizes, sizeOption{Value: string(size), Label: size.DisplayName()})
	}
	return view
}

// formatPercent は、CSSの長さに使う割合を小数点以下4桁までで返します
func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*10000)/10000, 'f', -1, 64)
}

// imageURL は、サーバーが組み立てた画像参照をテンプレートで安全なURLとして扱います
func imageURL(ref string) template.URL {
	if strings.HasPrefix(ref, "data:image/") || strings.HasPrefix(ref, "https://") {
		return template.URL(ref)
	}
	return template.URL(domain.PlaceholderBefore)
}

// displayLabel は、センチネルラベルを表示用に置き換えます
func displayLabel(label string) string {
	if domain.IsUnchangedLabel(label) {
		return "Original"
	}
	return label
}
