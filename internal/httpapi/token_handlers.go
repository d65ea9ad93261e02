package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"backdesk.app/internal/notify"
	"backdesk.app/internal/obs"
	"backdesk.app/internal/token"
)

// handleTokensCollection serves /v1/tokens.
func (a *API) handleTokensCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.listTokens(w, r)
	default:
		methodNotAllowed(w, r, http.MethodGet)
	}
}

// handleTokenResource serves /v1/tokens/{jti}.
func (a *API) handleTokenResource(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodDelete:
		a.revokeToken(w, r)
	default:
		methodNotAllowed(w, r, http.MethodDelete)
	}
}

func (a *API) listTokens(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireAdministrator(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	filter := token.ListFilter{
		Page:    parseIntDefault(q.Get("page"), 1),
		PerPage: parseIntDefault(q.Get("per_page"), token.DefaultPerPage),
		Search:  strings.TrimSpace(q.Get("q")),
		Status:  strings.TrimSpace(q.Get("status")),
		OrderBy: strings.TrimSpace(q.Get("order_by")),
		Order:   strings.TrimSpace(q.Get("order")),
	}

	page, err := a.tokens.List(r.Context(), principal, filter)
	if err != nil {
		a.handleTokenError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (a *API) revokeToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := a.requireAdministrator(w, r)
	if !ok {
		obs.CountRevocation("unauthorized")
		return
	}

	jti := strings.TrimPrefix(r.URL.Path, "/v1/tokens/")
	if jti == "" || strings.Contains(jti, "/") {
		obs.CountRevocation("bad_request")
		writeError(w, r, http.StatusBadRequest, "missing or malformed token identifier")
		return
	}

	meta := token.RequestMeta{
		IPAddress: clientIP(r),
		UserAgent: r.UserAgent(),
	}

	result, err := a.tokens.Revoke(r.Context(), principal, jti, meta)
	if err != nil {
		switch {
		case errors.Is(err, token.ErrAlreadyRevoked):
			obs.CountRevocation("conflict")
		case errors.Is(err, token.ErrNotFound):
			obs.CountRevocation("not_found")
		case errors.Is(err, token.ErrInvalidInput):
			obs.CountRevocation("bad_request")
		default:
			obs.CountRevocation("error")
		}
		a.handleTokenError(w, r, err)
		return
	}

	obs.CountRevocation("ok")
	if a.hub != nil {
		a.hub.Publish(notify.Event{
			Kind:      "token.revoked",
			JTI:       result.JTI,
			Message:   "access token revoked",
			Timestamp: time.Now().UTC(),
		})
	}
	writeJSON(w, http.StatusOK, result)
}

func (a *API) handleTokenError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, token.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid request")
	case errors.Is(err, token.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "token not found")
	case errors.Is(err, token.ErrAlreadyRevoked):
		writeError(w, r, http.StatusConflict, "token already revoked")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
