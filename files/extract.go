package files

import (
	"log"
	"os"
	"strings"
)

// InputKind classifies an uploaded report file by how it should reach the model.
type InputKind string

const (
	KindText  InputKind = "text"
	KindPDF   InputKind = "pdf"
	KindImage InputKind = "image"
)

const defaultMaxChars = 12000

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
	".gif": true, ".bmp": true, ".tiff": true,
}

var textExts = map[string]bool{
	".txt": true, ".csv": true, ".md": true, ".json": true, ".xml": true,
}

// ExtractReportText pulls the text out of an uploaded report file. Images
// return KindImage with empty text; the caller sends those to vision instead.
// Unknown extensions are read as text best-effort.
func ExtractReportText(path, ext string) (string, InputKind, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	switch {
	case imageExts[ext]:
		return "", KindImage, nil
	case ext == ".pdf":
		text, err := ExtractPDFText(path, defaultMaxChars)
		if err != nil {
			return "", KindPDF, err
		}
		return text, KindPDF, nil
	default:
		if !textExts[ext] {
			log.Printf("[files][extract] unknown extension %q, reading as text", ext)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", KindText, err
		}
		text := string(data)
		if len(text) > defaultMaxChars {
			text = text[:defaultMaxChars]
		}
		return text, KindText, nil
	}
}
