package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"sheetops/internal/apperr"
	"sheetops/internal/config"
	"sheetops/internal/edit/model"
	editSvc "sheetops/internal/edit/service"
	"sheetops/internal/middleware"
	"sheetops/internal/respond"
)

// DownloadName is the file name of the edited workbook.
const DownloadName = "modified_file.xlsx"

// Outcome headers on download responses.
const (
	HeaderStatus  = "X-Outcome-Status"
	HeaderMessage = "X-Outcome-Message"
)

type commandResult struct {
	Command   string        `json:"command"`
	Operation model.Kind    `json:"operation"`
	Outcome   model.Outcome `json:"outcome"`
	Kind      string        `json:"kind,omitempty"`
}

type previewResponse struct {
	Status  model.Status    `json:"status"`
	Results []commandResult `json:"results"`
	Preview respond.Preview `json:"preview"`
}

// Edit applies the form's command fields in order to the uploaded file and
// returns the result as modified_file.xlsx, or as JSON when preview is set.
// The dataset is returned even when a command fails: failed commands leave
// it unchanged and the outcome headers say why.
func Edit(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := logger.With().Str("rid", middleware.GetRequestID(r)).Logger()

		if err := respond.ParseForm(r, 32<<20); err != nil {
			respond.Error(w, log, err)
			return
		}
		defer r.MultipartForm.RemoveAll()

		commands := nonEmpty(r.MultipartForm.Value["command"])
		if len(commands) == 0 {
			respond.Error(w, log, apperr.InvalidInput("command is required", nil))
			return
		}

		ds, filename, err := respond.Upload(r, "file", respond.Atoi(r.FormValue("header_row"), 1))
		if err != nil {
			respond.Error(w, log, err)
			return
		}

		out, results := editSvc.RunAll(ds, commands)
		status := overall(results)
		for _, res := range results {
			ev := log.Info()
			if res.Outcome.Status == model.StatusFailed {
				ev = log.Warn().Str("kind", res.Outcome.ErrorKind())
			}
			ev.Str("command", res.Command).
				Str("operation", string(res.Operation.Kind())).
				Str("status", string(res.Outcome.Status)).
				Int("affected", res.Outcome.Affected).
				Msg(res.Outcome.Message)
		}
		log.Info().
			Str("file", filename).
			Int("rows_in", ds.Len()).
			Int("rows_out", out.Len()).
			Str("status", string(status)).
			Dur("elapsed", time.Since(start)).
			Msg("edit done")

		if respond.ToBool(r.FormValue("preview"), false) {
			resp := previewResponse{
				Status:  status,
				Results: make([]commandResult, len(results)),
				Preview: respond.NewPreview(out, cfg.PreviewRows),
			}
			for i, res := range results {
				resp.Results[i] = commandResult{
					Command:   res.Command,
					Operation: res.Operation.Kind(),
					Outcome:   res.Outcome,
					Kind:      res.Outcome.ErrorKind(),
				}
			}
			respond.JSON(w, http.StatusOK, resp)
			return
		}

		w.Header().Set(HeaderStatus, string(status))
		w.Header().Set(HeaderMessage, headerText(messages(results)))
		respond.XLSX(w, log, out, DownloadName, "Sheet1")
	}
}

// overall is failed if any command failed, noop if none applied.
func overall(results []editSvc.Result) model.Status {
	status := model.StatusNoOp
	for _, res := range results {
		switch res.Outcome.Status {
		case model.StatusFailed:
			return model.StatusFailed
		case model.StatusApplied:
			status = model.StatusApplied
		}
	}
	return status
}

func messages(results []editSvc.Result) string {
	msgs := make([]string, 0, len(results))
	for _, res := range results {
		msgs = append(msgs, res.Outcome.Message)
	}
	return strings.Join(msgs, "; ")
}

// headerText makes s safe for a single header line: whitespace runs collapse
// to one space, and bytes outside printable ASCII plus '%' itself are
// percent-encoded, so clients recover the text with decodeURIComponent.
func headerText(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < 0x20 || c > 0x7e || c == '%' {
			fmt.Fprintf(&b, "%%%02X", c)
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func nonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
