// Package ingest reads a company profile and its financial statements from
// JSON, YAML or XLSX files.
package ingest

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/finanalysis/internal/model"
)

// Format is an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatXLSX Format = "xlsx"
)

// ErrUnknownFormat is returned for file extensions that are not supported.
var ErrUnknownFormat = eris.New("ingest: unknown format")

// Document is one analysis request: who is analysed and which periods.
type Document struct {
	Company    model.Company              `json:"company" yaml:"company"`
	Statements []model.FinancialStatement `json:"statements" yaml:"statements"`
}

// Validate checks the company fields and the statement list, and sorts the
// statements oldest first.
func (d *Document) Validate() error {
	if err := d.Company.Validate(); err != nil {
		return eris.Wrap(err, "ingest: company")
	}
	if err := model.ValidateStatements(d.Statements); err != nil {
		return eris.Wrap(err, "ingest: statements")
	}
	model.SortStatements(d.Statements)
	return nil
}

// DetectFormat picks a Format from a file name.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	}
	return "", eris.Wrapf(ErrUnknownFormat, "ingest: %s", filepath.Base(path))
}

// LoadFile reads and validates a document from disk.
func LoadFile(path string) (*Document, error) {
	f, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return Decode(data, f)
}

// Decode parses and validates a document in the given format.
func Decode(data []byte, f Format) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch f {
	case FormatJSON:
		doc = &Document{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = eris.Wrap(dec.Decode(doc), "ingest: decode json")
	case FormatYAML:
		doc = &Document{}
		err = eris.Wrap(yaml.Unmarshal(data, doc), "ingest: decode yaml")
	case FormatXLSX:
		doc, err = ReadWorkbook(data)
	default:
		return nil, eris.Wrapf(ErrUnknownFormat, "ingest: %q", f)
	}
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}
