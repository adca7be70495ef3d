package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"vibestyle/internal/domain"
)

// errUploadTooLarge は、アップロードが上限サイズを超えた場合のエラーです
var errUploadTooLarge = errors.New("アップロードされた画像が大きすぎます")

// エラーコード
const (
	codeInFlight          = "in_flight"
	codeNothingToApply    = "nothing_to_apply"
	codeInvalidImage      = "invalid_image"
	codeUploadTooLarge    = "upload_too_large"
	codeUnknownPreset     = "unknown_preset"
	codeHistoryNotFound   = "history_not_found"
	codeNothingToDownload = "nothing_to_download"
	codeInternal          = "internal"
)

// classifyError は、エラーをコードとHTTPステータスに変換します
func classifyError(err error) (string, int) {
	switch {
	case errors.Is(err, domain.ErrGenerationInFlight):
		return codeInFlight, http.StatusConflict
	case errors.Is(err, domain.ErrNothingToApply):
		return codeNothingToApply, http.StatusBadRequest
	case errors.Is(err, errUploadTooLarge):
		return codeUploadTooLarge, http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidImage):
		return codeInvalidImage, http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownPreset):
		return codeUnknownPreset, http.StatusBadRequest
	case errors.Is(err, domain.ErrHistoryEntryNotFound):
		return codeHistoryNotFound, http.StatusNotFound
	case errors.Is(err, domain.ErrNothingToDownload):
		return codeNothingToDownload, http.StatusNotFound
	default:
		return codeInternal, http.StatusInternalServerError
	}
}

// formatNotice は、エラーコードを利用者向けの通知文にフォーマットします
func formatNotice(code string) string {
	switch code {
	case "":
		return ""
	case codeInFlight:
		return "A vibe is already calculating. Hold tight."
	case codeNothingToApply:
		return "Switch on color or style before generating."
	case codeInvalidImage:
		return "Upload a JPEG, PNG, GIF or WebP portrait first."
	case codeUploadTooLarge:
		return "That portrait is too large. Try a smaller file."
	case codeUnknownPreset:
		return "That preset is no longer in the studio catalog."
	case codeHistoryNotFound:
		return "That look is no longer in your history."
	case codeNothingToDownload:
		return "Generate a vibe before downloading."
	default:
		return "Something went wrong. Please try again."
	}
}

// wantsJSON は、クライアントがJSONの応答を求めているかを判定します
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// respondOK は、操作の成功を返します。フォーム送信の場合はページに戻します。
func (h *Handler) respondOK(w http.ResponseWriter, r *http.Request) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	http.Redirect(w, r, "/#workbench", http.StatusSeeOther)
}

// respondRedirect は、フォーム送信の場合に指定先へ戻します
func (h *Handler) respondRedirect(w http.ResponseWriter, r *http.Request, target string) {
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// respondError は、操作の失敗を返します。フォーム送信の場合はエラーコード付きでページに戻します。
func (h *Handler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	code, status := classifyError(err)
	if wantsJSON(r) {
		writeJSON(w, status, map[string]string{"error": code, "message": formatNotice(code)})
		return
	}
	http.Redirect(w, r, "/?error="+url.QueryEscape(code)+"#workbench", http.StatusSeeOther)
}

// writeJSON は、値をJSONとして書き込みます
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
