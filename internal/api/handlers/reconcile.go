package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/reconlab/wba-recon/internal/api/dto"
	"github.com/reconlab/wba-recon/internal/application/reconcile"
	"github.com/reconlab/wba-recon/internal/domain/matcher"
	"github.com/reconlab/wba-recon/internal/export"
	"github.com/reconlab/wba-recon/internal/infrastructure/config"
	"github.com/reconlab/wba-recon/internal/ingest"
)

// maxUploadBytes caps the in-memory portion of multipart parsing. Larger
// uploads spill to temp files.
const maxUploadBytes = 32 << 20

// ReconcileHandler runs a reconciliation over two uploaded workbooks.
type ReconcileHandler struct {
	svc      *reconcile.Service
	defaults config.MatchingConfig
	logger   *slog.Logger
}

// NewReconcileHandler creates a reconcile handler. The defaults supply the
// matching tolerances used when the request does not override them.
func NewReconcileHandler(svc *reconcile.Service, defaults config.MatchingConfig, logger *slog.Logger) *ReconcileHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReconcileHandler{svc: svc, defaults: defaults, logger: logger}
}

// Run handles POST /api/reconcile.
//
// Expects a multipart form with two file fields, "journal" and "wba".
// Optional form values override the configured tolerances:
// date_window_days, amount_tolerance, similarity_threshold. The "format"
// value selects the response: "xlsx" (default) streams the report workbook,
// "json" returns the run summary.
func (h *ReconcileHandler) Run(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError("expected multipart form with journal and wba files"))
		return
	}

	journalFile, _, err := r.FormFile("journal")
	if err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError("missing journal file"))
		return
	}
	defer journalFile.Close()

	wbaFile, _, err := r.FormFile("wba")
	if err != nil {
		WriteError(w, http.StatusBadRequest, dto.BadRequestError("missing wba file"))
		return
	}
	defer wbaFile.Close()

	journal, err := ingest.ReadJournal(journalFile, h.logger)
	if err != nil {
		h.writeIngestError(w, "journal", err)
		return
	}
	wba, err := ingest.ReadWBA(wbaFile, h.logger)
	if err != nil {
		h.writeIngestError(w, "wba", err)
		return
	}

	cfg := matcher.ConfigWithTolerance(
		FormInt(r, "date_window_days", h.defaults.DateWindowDays),
		FormFloat(r, "amount_tolerance", h.defaults.AmountTolerance),
		FormFloat(r, "similarity_threshold", h.defaults.SimilarityThreshold),
	)

	res, err := h.svc.Run(r.Context(), journal, wba, cfg)
	if err != nil {
		if errors.Is(err, matcher.ErrInvalidConfig) {
			WriteError(w, http.StatusUnprocessableEntity, dto.ValidationError(err.Error()))
			return
		}
		h.logger.Error("reconciliation failed", "error", err)
		WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	if r.FormValue("format") == "json" {
		WriteJSON(w, http.StatusOK, dto.NewReconcileResponse(res))
		return
	}

	filename := fmt.Sprintf("reconciliation_%s.xlsx", res.StartedAt.UTC().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("X-Run-ID", res.RunID)
	if err := export.Write(w, res); err != nil {
		// Headers are already out; all we can do is log.
		h.logger.Error("workbook streaming failed", "run_id", res.RunID, "error", err)
	}
}

func (h *ReconcileHandler) writeIngestError(w http.ResponseWriter, side string, err error) {
	if errors.Is(err, ingest.ErrColumnMapping) {
		WriteError(w, http.StatusUnprocessableEntity,
			dto.ValidationError(fmt.Sprintf("%s file: %v", side, err)))
		return
	}
	WriteError(w, http.StatusBadRequest,
		dto.BadRequestError(fmt.Sprintf("%s file is not a readable workbook", side)))
}
