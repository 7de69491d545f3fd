package web

import (
	"bytes"
	"net/http"

	apperrors "github.com/louisbranch/mindvsmachine/internal/services/web/platform/errors"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/flash"
	"github.com/louisbranch/mindvsmachine/internal/services/web/platform/httpx"
	"github.com/louisbranch/mindvsmachine/internal/storage/export"
)

const (
	exportKindFile     = "file"
	exportKindDownload = "download"
)

func (a *app) handleExport(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	if len(rounds) == 0 {
		redirectWith(w, r, flash.Info("Nothing to export yet."))
		return
	}
	path, err := export.ExportFile(a.exportDir, rounds, a.now())
	if err != nil {
		a.logger.Error().Err(err).Str("dir", a.exportDir).Msg("export failed")
		redirectWith(w, r, flash.Error("❌ Export failed"))
		return
	}
	a.metrics.ObserveExport(exportKindFile)
	a.logger.Info().Str("path", path).Int("rounds", len(rounds)).Msg("history exported")
	redirectWith(w, r, flash.Success("✅ Exported to "+path))
}

func (a *app) handleDownload(w http.ResponseWriter, r *http.Request) {
	rounds, err := a.store.ListRounds(r.Context())
	if err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not load round history.", err))
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, rounds); err != nil {
		a.writeError(w, r, err)
		return
	}
	a.metrics.ObserveExport(exportKindDownload)
	_ = httpx.WriteAttachment(w, "text/csv; charset=utf-8", export.Filename(a.now()), &buf)
}

func (a *app) handleClear(w http.ResponseWriter, r *http.Request) {
	a.visitors.Update(visitorIDFromRequest(r), func(state *visitorState) {
		state.ConfirmDelete = true
	})
	httpx.WriteRedirect(w, r, "/")
}

func (a *app) handleClearConfirm(w http.ResponseWriter, r *http.Request) {
	visitorID := visitorIDFromRequest(r)
	if !a.visitors.Get(visitorID).ConfirmDelete {
		redirectWith(w, r, flash.Notice{Kind: flash.KindWarning, Message: "Click Clear All Data first to confirm deletion."})
		return
	}
	if err := a.store.ClearRounds(r.Context()); err != nil {
		a.writeError(w, r, apperrors.Wrap(apperrors.KindUnavailable, "Could not clear round history.", err))
		return
	}
	a.visitors.ClearLastRounds()
	a.visitors.Update(visitorID, func(state *visitorState) {
		state.ConfirmDelete = false
	})
	a.metrics.ObserveClear()
	a.logger.Info().Str("visitor", visitorID).Msg("history cleared")
	redirectWith(w, r, flash.Success("✅ All data cleared!"))
}

func (a *app) handleClearCancel(w http.ResponseWriter, r *http.Request) {
	a.visitors.Update(visitorIDFromRequest(r), func(state *visitorState) {
		state.ConfirmDelete = false
	})
	httpx.WriteRedirect(w, r, "/")
}
