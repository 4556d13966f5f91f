package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ternarybob/batchpdf/internal/registry"
)

func TestRegister_WiresAllRecognizedOperations(t *testing.T) {
	reg := registry.New()
	Register(reg)

	want := []string{
		"merge", "split", "rotate", "extract_pages", "extract_text",
		"extract_images", "ocr", "convert_to_images", "add_password",
		"compress", "optimize_web",
	}
	for _, op := range want {
		_, ok := reg.Lookup(op)
		assert.True(t, ok, "expected operation %q to be registered", op)
	}
	assert.Len(t, reg.Enumerate(), len(want))
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		suffix string
		ext    string
		want   string
	}{
		{"same extension", "/tmp/a.pdf", "_merged", ".pdf", "/tmp/a_merged.pdf"},
		{"preserve extension when empty", "/tmp/dir/report.pdf", "_web", "", "/tmp/dir/report_web.pdf"},
		{"no directory component", "a.pdf", "_compressed", ".pdf", "a_compressed.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outputPath(tt.in, tt.suffix, tt.ext))
		})
	}
}

func TestParsePageRanges_Default(t *testing.T) {
	got := parsePageRanges(nil)
	assert.Equal(t, []pageRange{{1, -1}}, got)
}

func TestParsePageRanges_Explicit(t *testing.T) {
	params := map[string]interface{}{
		"page_ranges": [][2]int{{1, 3}, {5, -1}},
	}
	got := parsePageRanges(params)
	assert.Equal(t, []pageRange{{1, 3}, {5, -1}}, got)
}

func TestSelectionString(t *testing.T) {
	tests := []struct {
		name      string
		r         pageRange
		pageCount int
		want      string
	}{
		{"to last page", pageRange{1, -1}, 10, "1-10"},
		{"bounded range", pageRange{2, 4}, 10, "2-4"},
		{"end beyond page count clamps", pageRange{2, 100}, 10, "2-10"},
		{"single page when end not greater", pageRange{5, 5}, 10, "5"},
		{"single page when end less than start", pageRange{5, 3}, 10, "5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectionString(tt.r, tt.pageCount))
		})
	}
}

func TestParsePageRotations_Default(t *testing.T) {
	got := parsePageRotations(nil)
	assert.Equal(t, map[int]int{1: 90}, got)
}

func TestParsePageRotations_Explicit(t *testing.T) {
	params := map[string]interface{}{
		"page_rotations": map[int]int{2: 180, 3: 270},
	}
	got := parsePageRotations(params)
	assert.Equal(t, map[int]int{2: 180, 3: 270}, got)
}

func TestParsePages_Default(t *testing.T) {
	got := parsePages(nil)
	assert.Equal(t, []string{"1"}, got)
}

func TestParsePages_Explicit(t *testing.T) {
	params := map[string]interface{}{"pages": []int{1, 3, 5}}
	got := parsePages(params)
	assert.Equal(t, []string{"1", "3", "5"}, got)
}

func TestAddPassword_RequiresUserPassword(t *testing.T) {
	outcome := AddPassword("a.pdf", nil)
	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Errors)
}

func TestCompress_RejectsOutOfRangeLevel(t *testing.T) {
	outcome := Compress("a.pdf", map[string]interface{}{"compression_level": 99})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Errors[0], "compression_level")
}

func TestOCR_NeverFails(t *testing.T) {
	outcome := OCR("a.pdf", map[string]interface{}{"languages": []string{"fra", "deu"}})
	assert.True(t, outcome.Success)
	assert.NotEmpty(t, outcome.Warnings)
}

func TestOCR_DefaultsToEnglish(t *testing.T) {
	outcome := OCR("a.pdf", nil)
	assert.True(t, outcome.Success)
	assert.Contains(t, outcome.Warnings[0], "eng")
}

func TestMerge_RequiresJobFiles(t *testing.T) {
	outcome := Merge("a.pdf", nil)
	assert.False(t, outcome.Success)
	assert.NotEmpty(t, outcome.Errors)
}

func TestRotate_RejectsInvalidDegree(t *testing.T) {
	outcome := Rotate("a.pdf", map[string]interface{}{
		"page_rotations": map[int]int{1: 45},
	})
	assert.False(t, outcome.Success)
	assert.Contains(t, outcome.Errors[0], "invalid degree")
}
