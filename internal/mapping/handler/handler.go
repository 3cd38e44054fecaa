package handler

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"sheetops/internal/apperr"
	"sheetops/internal/config"
	"sheetops/internal/mapping/model"
	mapSvc "sheetops/internal/mapping/service"
	"sheetops/internal/middleware"
	"sheetops/internal/respond"
)

const (
	DownloadName = "mapped_data.xlsx"
	SheetName    = "Mapped_Data"
)

type previewResponse struct {
	Summary model.Summary   `json:"summary"`
	Preview respond.Preview `json:"preview"`
}

// Map maps the portal upload onto the catalogue upload and returns
// mapped_data.xlsx, or JSON when preview is set. No file is produced unless
// both inputs carry the key columns.
func Map(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		if err := respond.ParseForm(r, 32<<20); err != nil {
			respond.Error(w, log, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		opt, err := options(r, cfg)
		if err != nil {
			respond.Error(w, log, err)
			return
		}

		portal, portalName, err := respond.Upload(r, "portal", respond.Atoi(r.FormValue("portal_header_row"), 1))
		if err != nil {
			respond.Error(w, log, err)
			return
		}
		catalogue, catalogueName, err := respond.Upload(r, "catalogue", respond.Atoi(r.FormValue("catalogue_header_row"), 1))
		if err != nil {
			respond.Error(w, log, err)
			return
		}

		out, sum, err := mapSvc.Run(portal, catalogue, opt)
		if err != nil {
			log.Warn().Err(err).Str("portal", portalName).Str("catalogue", catalogueName).Msg("mapping rejected")
			respond.Error(w, log, err)
			return
		}

		log.Info().
			Str("portal", portalName).
			Str("catalogue", catalogueName).
			Str("method", string(sum.Method)).
			Float64("threshold", sum.Threshold).
			Int("rows", sum.Rows).
			Int("matched", sum.Matched).
			Int("unmatched", sum.Unmatched).
			Dur("elapsed", time.Since(start)).
			Msg("map done")

		if respond.ToBool(r.FormValue("preview"), false) {
			respond.JSON(w, http.StatusOK, previewResponse{Summary: sum, Preview: respond.NewPreview(out, cfg.PreviewRows)})
			return
		}
		w.Header().Set("X-Outcome-Status", "applied")
		w.Header().Set("X-Outcome-Message", fmt.Sprintf("matched %d of %d rows", sum.Matched, sum.Rows))
		respond.XLSX(w, log, out, DownloadName, SheetName)
	}
}

// options reads method, threshold and the normalization switches. The
// threshold must be a whole number in [50,100]; it defaults to the configured
// value.
func options(r *http.Request, cfg config.Config) (model.Options, error) {
	method, err := model.ParseMethod(r.FormValue("method"))
	if err != nil {
		return model.Options{}, apperr.InvalidInput(err.Error(), nil)
	}

	threshold := float64(cfg.DefaultThreshold)
	if s := r.FormValue("threshold"); s != "" {
		f, ok := respond.ParseFloat(s)
		if !ok || f != math.Trunc(f) || f < model.MinThreshold || f > model.MaxThreshold {
			return model.Options{}, apperr.InvalidInput(
				fmt.Sprintf("threshold must be a whole number between %d and %d, got %q", model.MinThreshold, model.MaxThreshold, s), nil)
		}
		threshold = f
	}

	return model.Options{
		Method:     method,
		Threshold:  threshold,
		Workers:    cfg.MatchWorkers,
		IgnoreCase: respond.ToBool(r.FormValue("ignore_case"), false),
		TrimSpaces: respond.ToBool(r.FormValue("trim_spaces"), false),
	}, nil
}
