package docfill

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/javajack/docfill/docx"
	"github.com/javajack/docfill/grid"
	"github.com/javajack/docfill/xlsx"
)

var (
	// ErrInvalidTemplate marks a template that is missing, is not an OOXML
	// zip container, or cannot be parsed.
	ErrInvalidTemplate = errors.New("invalid template")
	// ErrUnsupportedFormat marks a template whose format is neither docx
	// nor xlsx.
	ErrUnsupportedFormat = errors.New("unsupported template format")
	// ErrInvalidPlan marks plan input that cannot be decoded.
	ErrInvalidPlan = errors.New("invalid fill plan")
)

// Format is a template file format.
type Format string

const (
	FormatAuto Format = ""
	FormatDocx Format = "docx"
	FormatXLSX Format = "xlsx"
)

// FormatFromPath maps a file extension to a Format.
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx":
		return FormatDocx, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".doc", ".xls":
		return FormatAuto, fmt.Errorf("%w: %q is a legacy binary format, save it as %sx", ErrUnsupportedFormat, filepath.Base(path), ext)
	default:
		return FormatAuto, fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(path))
	}
}

// DetectFormat inspects the parts of an OOXML package.
func DetectFormat(data []byte) (Format, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return FormatAuto, fmt.Errorf("%w: not a zip container (legacy .doc/.xls or damaged file): %w", ErrInvalidTemplate, err)
	}
	for _, f := range zr.File {
		switch f.Name {
		case "word/document.xml":
			return FormatDocx, nil
		case "xl/workbook.xml":
			return FormatXLSX, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: package holds neither a Word document nor a workbook", ErrUnsupportedFormat)
}

// OpenTemplate opens a template file as a grid document.
func OpenTemplate(path string, cfg *Config) (grid.Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	return OpenTemplateBytes(data, format, cfg)
}

// OpenTemplateReader reads a whole template from r.
func OpenTemplateReader(r io.Reader, format Format, cfg *Config) (grid.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	return OpenTemplateBytes(data, format, cfg)
}

// OpenTemplateBytes parses a template held in memory. FormatAuto detects the
// format from the package contents.
func OpenTemplateBytes(data []byte, format Format, cfg *Config) (grid.Document, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	detected, err := DetectFormat(data)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatAuto:
		format = detected
	case FormatDocx, FormatXLSX:
		if format != detected {
			return nil, fmt.Errorf("%w: expected %s, package holds %s", ErrInvalidTemplate, format, detected)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	switch format {
	case FormatDocx:
		doc, err := docx.Open(data, docx.WithRunStyle(cfg.RunStyle()))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
		}
		return doc, nil
	case FormatXLSX:
		wb, err := xlsx.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
		}
		return wb, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// CheckTemplate verifies that path exists, has a supported extension and
// parses as a template, without filling it.
func CheckTemplate(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidTemplate, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrInvalidTemplate, path)
	}
	doc, err := OpenTemplate(path, nil)
	if err != nil {
		return err
	}
	return doc.Close()
}
