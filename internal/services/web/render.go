package web

import (
	"bytes"
	"net/http"

	"github.com/a-h/templ"

	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/flash"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
	"github.com/louisbranch/mindvsmachine/internal/services/web/templates"
)

const pageTitle = "Mind vs Machine"

// writePage buffers the full document so a render failure never ships half a page.
func (a *app) writePage(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	var buf bytes.Buffer
	if err := page.Render(httpx.RequestContext(r), &buf); err != nil {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("render page")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	_ = httpx.WriteHTML(w, status, buf.Bytes())
}

// writeError renders a typed failure page and logs server-side faults.
func (a *app) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		a.logger.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	dark := a.visitors.Get(visitorIDFromRequest(r)).Settings.DarkMode
	a.writePage(w, r, status, templates.ErrorPage(pageTitle, dark, status, apperrors.Message(err)))
}

// redirectWith stores notice and sends the browser back to the dashboard.
func redirectWith(w http.ResponseWriter, r *http.Request, notice flash.Notice) {
	flash.Write(w, notice)
	httpx.WriteRedirect(w, r, "/")
}
