package web

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"

	// アップロードを受け付ける画像形式
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"vibestyle/internal/domain"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
)

// uploadField は、アップロードフォームのファイルフィールド名です
const uploadField = "portrait"

// statusResponse は、ポーリング用の生成状態です
type statusResponse struct {
	Status    string `json:"status"`
	Loading   bool   `json:"loading"`
	Notice    string `json:"notice,omitempty"`
	Confirmed bool   `json:"confirmed"`
	Analysis  string `json:"analysis,omitempty"`
}

// sliderResponse は、比較スライダーの描画値とクリップ幅（px）です
type sliderResponse struct {
	domain.SliderGeometry
	ClipWidthPixels float64 `json:"clipWidthPixels"`
}

// handleIndex は、ワークベンチのページを描画します
func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := h.workbench(r).Snapshot()
	page := h.buildPage(view, r)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := h.renderer.render(w, page); err != nil {
		h.logger.Error("ページの描画に失敗しました", zap.Error(err))
	}
}

// handleUpload は、アップロードされたポートレートを変換前画像に設定します
func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.options.MaxUploadBytes)

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.respondError(w, r, errUploadTooLarge)
			return
		}
		h.respondError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.respondError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err))
		return
	}

	img, err := decodeUpload(data)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.workbench(r).Upload(img); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.logger.Info("ポートレートをアップロードしました", zap.String("mime", img.MIMEType), zap.Int("bytes", len(img.Data)))
	h.respondOK(w, r)
}

// decodeUpload は、アップロードされたバイト列が対応形式の画像であることを確認します
func decodeUpload(data []byte) (domain.Image, error) {
	if len(data) == 0 {
		return domain.Image{}, fmt.Errorf("%w: 空のファイルです", domain.ErrInvalidImage)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrInvalidImage, err)
	}
	return domain.NewImage(data, "image/"+format), nil
}

// handleToggle は、カラーまたはスタイルの適用を切り替えます
func (h *Handler) handleToggle(w http.ResponseWriter, r *http.Request) {
	wb := h.workbench(r)
	switch chi.URLParam(r, "dimension") {
	case "color":
		wb.ToggleColor()
	case "style":
		wb.ToggleStyle()
	default:
		http.NotFound(w, r)
		return
	}
	h.respondOK(w, r)
}

// handleSelectColor は、カラープリセットを選択します
func (h *Handler) handleSelectColor(w http.ResponseWriter, r *http.Request) {
	if err := h.workbench(r).SelectColor(r.FormValue("name")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r)
}

// handleSelectStyle は、ヘアスタイルプリセットを選択します
func (h *Handler) handleSelectStyle(w http.ResponseWriter, r *http.Request) {
	if err := h.workbench(r).SelectStyle(r.FormValue("id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r)
}

// handleGenerate は、画像変換を実行します。ブラウザが切断しても変換は中断しません。
func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	wb := h.workbench(r)

	_, err := wb.Generate(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		h.respondOK(w, r)
	case errors.Is(err, domain.ErrTransformFailed):
		// 失敗の通知はワークベンチの状態として表示される
		h.respondOK(w, r)
	default:
		h.respondError(w, r, err)
	}
}

// handleStatus は、現在の生成状態をJSONで返します
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	view := h.workbench(r).Snapshot()
	writeJSON(w, http.StatusOK, statusResponse{
		Status:    view.Status.String(),
		Loading:   view.Loading(),
		Notice:    view.Notice,
		Confirmed: view.Confirmed,
		Analysis:  view.Analysis,
	})
}

// handleDownload は、変換結果の画像をファイルとして返します
func (h *Handler) handleDownload(w http.ResponseWriter, r *http.Request) {
	img, err := h.workbench(r).Download()
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if img.IsRemote() {
		http.Redirect(w, r, img.URL, http.StatusFound)
		return
	}

	filename := fmt.Sprintf("VibeStyle-%d.png", h.now().UnixMilli())
	w.Header().Set("Content-Type", img.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	_, _ = w.Write(img.Data)
}

// handleSlider は、ポインタ位置から比較スライダーの描画値を計算します。ページのスクリプトは同じ計算をその場で行います。
func (h *Handler) handleSlider(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	x, errX := strconv.ParseFloat(q.Get("x"), 64)
	left, errLeft := strconv.ParseFloat(q.Get("left"), 64)
	width, errWidth := strconv.ParseFloat(q.Get("width"), 64)
	if errX != nil || errLeft != nil || errWidth != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "x, left, width は数値で指定してください"})
		return
	}

	geometry := domain.NewSliderState().Move(x, left, width).Geometry()
	writeJSON(w, http.StatusOK, sliderResponse{
		SliderGeometry:  geometry,
		ClipWidthPixels: geometry.ClipWidthPixels(width),
	})
}

// handleReplay は、履歴エントリをワークベンチに復元します
func (h *Handler) handleReplay(w http.ResponseWriter, r *http.Request) {
	if err := h.workbench(r).Replay(chi.URLParam(r, "id")); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondRedirect(w, r, "/#workbench")
}

// handleClearHistory は、このセッションの履歴を削除します
func (h *Handler) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.workbench(r).ClearHistory(r.Context()); err != nil {
		h.logger.Warn("履歴の削除に失敗しました", zap.String("session", sessionID(r)), zap.Error(err))
		h.respondError(w, r, err)
		return
	}
	h.respondOK(w, r)
}
