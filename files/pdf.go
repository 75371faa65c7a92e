package files

import (
	"bytes"
	"errors"
	"os"

	pdf "rsc.io/pdf"
)

// ExtractPDFText returns the text layer of the PDF at path, capped at
// maxChars to keep report prompts inside the model context window.
func ExtractPDFText(path string, maxChars int) (string, error) {
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	for page := 1; page <= r.NumPage(); page++ {
		p := r.Page(page)
		if p.V.IsNull() {
			continue
		}
		for _, t := range p.Content().Text {
			buf.WriteString(t.S)
		}
		buf.WriteString("\n\n")
		if buf.Len() >= maxChars {
			return buf.String()[:maxChars], nil
		}
	}

	// Scanned PDFs carry no text layer. Raw bytes with NULs blanked still
	// give the model something to work with for hybrid files.
	if buf.Len() == 0 {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		if len(data) == 0 {
			return "", errors.New("pdf appears empty")
		}
		if len(data) > maxChars {
			data = data[:maxChars]
		}
		return string(bytes.ReplaceAll(data, []byte{'\x00'}, []byte{' '})), nil
	}
	return buf.String(), nil
}
