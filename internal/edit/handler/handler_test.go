package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderText(t *testing.T) {
	tests := map[string]string{
		"renamed column \"A\" to \"B\"": "renamed column \"A\" to \"B\"",
		"  kept 3 rows,\n removed\t1 ":  "kept 3 rows, removed 1",
		"column \"Größe\" not found":    "column \"Gr%C3%B6%C3%9Fe\" not found",
		"bell\x07 and 50%":              "bell%07 and 50%25",
	}
	for in, want := range tests {
		assert.Equal(t, want, headerText(in), in)
	}
}
