package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Field is one recognized text line from a document crop.
type Field struct {
	// Text is the recognized line content, whitespace-trimmed.
	Text string `json:"text"`

	// Confidence is the engine's certainty for this line (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// FieldsResult contains the recognition output for one crop.
type FieldsResult struct {
	// FullText is the complete recognized text with original line breaks.
	FullText string `json:"full_text"`

	// Fields lists individual lines with confidences, top to bottom. May be
	// empty when line-level extraction fails; FullText is still populated.
	Fields []Field `json:"fields"`
}

// FieldReader reads text fields from cropped document regions.
type FieldReader struct {
	language string
}

// NewFieldReader creates a reader for the given Tesseract language code
// (e.g. "eng"). The corresponding language data must be installed.
func NewFieldReader(language string) *FieldReader {
	if language == "" {
		language = "eng"
	}
	return &FieldReader{language: language}
}

// ReadFields runs recognition over a cropped document region.
//
// The crop is handed to the engine as PNG bytes; no temporary files are
// written. Line-level confidence extraction is best-effort: if the engine
// cannot produce line boxes the full text is still returned with the Fields
// slice derived from plain line splitting at zero confidence.
func (r *FieldReader) ReadFields(crop image.Image) (*FieldsResult, error) {
	if crop == nil {
		return nil, fmt.Errorf("cannot read fields from nil crop")
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, crop); err != nil {
		return nil, fmt.Errorf("failed to encode crop: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(r.language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("recognition failed: %w", err)
	}

	result := &FieldsResult{FullText: text}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		// Fall back to plain line splitting; the text itself is still good.
		result.Fields = SplitFields(text)
		return result, nil
	}

	for _, box := range boxes {
		line := strings.TrimSpace(box.Word)
		if line == "" {
			continue
		}
		result.Fields = append(result.Fields, Field{
			Text:       line,
			Confidence: box.Confidence / 100.0,
		})
	}
	return result, nil
}

// SplitFields converts raw recognized text into Fields with unknown (zero)
// confidence. Blank lines are dropped.
func SplitFields(text string) []Field {
	var fields []Field
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields = append(fields, Field{Text: line})
	}
	return fields
}
