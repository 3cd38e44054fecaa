// Package respond writes HTTP responses for the service handlers.
package respond

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"sheetops/internal/apperr"
	"sheetops/internal/fileio"
	"sheetops/internal/table"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error   string   `json:"error"`
	Kind    string   `json:"kind"`
	Columns []string `json:"columns,omitempty"`
}

// Preview is the first rows of a dataset.
type Preview struct {
	Columns []string        `json:"columns"`
	Rows    [][]table.Value `json:"rows"`
	Total   int             `json:"total"`
}

func NewPreview(ds *table.Dataset, n int) Preview {
	return Preview{Columns: ds.Columns(), Rows: ds.Head(n), Total: ds.Len()}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

// Error writes err as an ErrorBody. Unclassified errors become 500 and are
// logged; the body then carries no internal detail.
func Error(w http.ResponseWriter, log zerolog.Logger, err error) {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		err = apperr.InvalidInput(fmt.Sprintf("request body exceeds %d bytes", mbe.Limit), err)
		JSON(w, http.StatusRequestEntityTooLarge, body(err))
		return
	}

	ae, ok := apperr.As(err)
	if !ok {
		ae, _ = apperr.As(apperr.Internal(err))
	}
	status := ae.StatusCode()
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("request failed")
	}
	JSON(w, status, body(ae))
}

func body(err error) ErrorBody {
	ae, _ := apperr.As(err)
	msg := ae.Error()
	if ae.Kind() == apperr.KindInternal {
		msg = ae.Msg()
	}
	return ErrorBody{Error: msg, Kind: ae.Kind().String(), Columns: ae.Columns()}
}

// XLSX serializes ds and sends it as a download named filename. Serialization
// happens before any header is written so a failure still yields a clean
// error response.
func XLSX(w http.ResponseWriter, log zerolog.Logger, ds *table.Dataset, filename, sheet string) {
	var buf bytes.Buffer
	if err := fileio.WriteXLSX(&buf, ds, sheet); err != nil {
		Error(w, log, apperr.Internal(err))
		return
	}
	w.Header().Set("Content-Type", fileio.XLSXContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		log.Warn().Err(err).Msg("write download")
	}
}
