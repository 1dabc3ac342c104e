package render

import (
	"bytes"
	"encoding/xml"
)

const (
	fontHeightRatio = 0.6
	fontWidthRatio  = 0.85
	fontCharWidth   = 0.55
	fontSizeMin     = 6.0
	fontSizeMax     = 18.0
)

// fontSize fits a label of textLen characters inside a w by h box.
func fontSize(w, h float64, textLen int) float64 {
	n := max(1, textLen)
	byHeight := h * fontHeightRatio
	byWidth := (w * fontWidthRatio) / (float64(n) * fontCharWidth)
	return max(fontSizeMin, min(fontSizeMax, min(byHeight, byWidth)))
}

// truncate shortens label to what fits in width at the given font size.
func truncate(label string, width, size float64) string {
	maxChars := max(3, int(width*fontWidthRatio/(size*fontCharWidth)))
	if len(label) <= maxChars {
		return label
	}
	return label[:maxChars-2] + ".."
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
