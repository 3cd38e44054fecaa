package respond

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"sheetops/internal/apperr"
	"sheetops/internal/fileio"
	"sheetops/internal/table"
)

func Atoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return def
	}
	return i
}

func ToBool(s string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// ParseFloat is strict: it reports whether s held a finite number.
func ParseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ParseForm parses a multipart body, spilling file parts past maxMemory to
// disk. Oversized bodies keep their *http.MaxBytesError so Error answers 413.
func ParseForm(r *http.Request, maxMemory int64) error {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return err
		}
		return apperr.InvalidInput("bad multipart form", err)
	}
	return nil
}

// Upload loads the spreadsheet sent in form field as a dataset. The file
// format comes from the uploaded file name.
func Upload(r *http.Request, field string, headerRow int) (*table.Dataset, string, error) {
	f, fh, err := r.FormFile(field)
	if err != nil {
		return nil, "", apperr.InvalidInput(fmt.Sprintf("missing file %q", field), err)
	}
	defer f.Close()

	ds, err := fileio.Read(f, fh.Filename, headerRow)
	if err != nil {
		return nil, fh.Filename, err
	}
	return ds, fh.Filename, nil
}
