package web

import (
	"net/http"
	"net/url"

	"vibestyle/internal/domain"

	"go.uber.org/zap"
)

// handleLead は、リード獲得フォームを受け付けて送信します
func (h *Handler) handleLead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirectLead(w, r, domain.LeadError, "", http.StatusBadRequest)
		return
	}

	lead, err := h.leads.Prepare(domain.LeadData{
		FullName:      r.PostForm.Get("FullName"),
		ContactPhone:  r.PostForm.Get("ContactPhone"),
		BusinessEmail: r.PostForm.Get("BusinessEmail"),
		BusinessName:  r.PostForm.Get("BusinessName"),
		EmployeeSize:  domain.EmployeeSize(r.PostForm.Get("EmployeeSize")),
	})
	if err != nil {
		h.logger.Info("リード情報が不正です", zap.Error(err))
		h.redirectLead(w, r, domain.LeadError, "", http.StatusBadRequest)
		return
	}

	if !h.leads.Submit(r.Context(), lead) {
		h.redirectLead(w, r, domain.LeadError, "", http.StatusBadGateway)
		return
	}
	h.redirectLead(w, r, domain.LeadSuccess, lead.BusinessName, http.StatusOK)
}

// redirectLead は、フォームの送信結果をページに戻します
func (h *Handler) redirectLead(w http.ResponseWriter, r *http.Request, status domain.LeadFormStatus, studio string, code int) {
	if wantsJSON(r) {
		writeJSON(w, code, map[string]string{"lead": status.String(), "studio": studio})
		return
	}

	q := url.Values{}
	q.Set("lead", status.String())
	if studio != "" {
		q.Set("studio", studio)
	}
	http.Redirect(w, r, "/?"+q.Encode()+"#partner", http.StatusSeeOther)
}
