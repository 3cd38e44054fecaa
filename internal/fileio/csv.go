package fileio

import (
	"bufio"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"sheetops/internal/table"
)

// readCSV reads CSV with headerRow (1-based), auto-detecting the encoding and
// converting to UTF-8. Valid UTF-8 (with or without BOM) always wins over
// the detector, which tends to report ASCII-heavy UTF-8 as latin-1.
func readCSV(r io.Reader, headerRow int) (*table.Dataset, error) {
	br := bufio.NewReader(r)

	peek, _ := br.Peek(4096)
	dec := transform.NewReader(br, csvDecoder(peek))

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = normalizeCell(rec[i])
		}
		rows = append(rows, rec)
	}
	return rowsToDataset(rows, headerRow, inferCell)
}

func csvDecoder(peek []byte) transform.Transformer {
	utf := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	if len(peek) == 0 || validUTF8Prefix(peek) {
		return utf
	}

	cs := "utf-8"
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		cs = strings.ToLower(det.Charset)
	}
	var enc encoding.Encoding
	switch cs {
	case "windows-1251", "cp1251":
		enc = charmap.Windows1251
	case "koi8-r":
		enc = charmap.KOI8R
	case "iso-8859-1":
		enc = charmap.ISO8859_1
	case "windows-1252":
		enc = charmap.Windows1252
	case "utf-16le":
		enc = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case "utf-16be":
		enc = unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	default:
		// undetected single-byte text: latin-1 never fails to decode
		enc = charmap.Windows1252
	}
	return unicode.BOMOverride(enc.NewDecoder())
}

// validUTF8Prefix reports whether b is valid UTF-8, ignoring a rune cut off
// at the end of the peek window.
func validUTF8Prefix(b []byte) bool {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return utf8.Valid(b)
}
