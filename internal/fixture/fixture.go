package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gridstate/internal/engine"
	"github.com/roach88/gridstate/internal/ir"
)

// Format is a fixture file encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatCUE  Format = "cue"
)

// Error codes for fixture loading.
const (
	ErrCodeParse             = "E004" // YAML/JSON/CUE syntax or type error
	ErrCodeNotFound          = "E005" // File not found
	ErrCodeBuild             = "E006" // CUE evaluation error
	ErrCodeUnsupportedFormat = "E008" // Unknown file extension
	ErrCodeInvalid           = "E201" // Dataset failed validation
)

// LoadError reports a fixture that could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Message string
	Pos     token.Pos // CUE position if available
	Err     error
}

func (e *LoadError) Error() string {
	loc := e.Path
	if e.Pos.IsValid() {
		loc = fmt.Sprintf("%s:%d:%d", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column())
	}
	if loc == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", loc, e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsLoadError reports whether err is a LoadError with the given code.
func IsLoadError(err error, code string) bool {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Code == code
	}
	return false
}

// Table is a loaded dataset.
type Table struct {
	Locale        string
	SelectionMode engine.SelectionMode
	Columns       []ir.Column
	Rows          []ir.MapRecord
}

// Mode returns the selection mode, defaulting to engine.SelectionMultiple.
func (t *Table) Mode() engine.SelectionMode {
	if t.SelectionMode == "" {
		return engine.SelectionMultiple
	}
	return t.SelectionMode
}

// LocaleTag returns the locale, defaulting to engine.DefaultLocale.
func (t *Table) LocaleTag() string {
	if t.Locale == "" {
		return engine.DefaultLocale.String()
	}
	return t.Locale
}

// Options returns the controller options the fixture configures.
func (t *Table) Options() []engine.Option {
	return []engine.Option{
		engine.WithLocale(t.LocaleTag()),
		engine.WithSelectionMode(t.Mode()),
	}
}

// document is the on-disk shape shared by every format.
type document struct {
	Locale        string    `yaml:"locale" json:"locale"`
	SelectionMode string    `yaml:"selection_mode" json:"selection_mode"`
	Columns       []column  `yaml:"columns" json:"columns"`
	Rows          []rowSpec `yaml:"rows" json:"rows"`
}

type column struct {
	Key    string `yaml:"key" json:"key"`
	Header string `yaml:"header" json:"header"`
}

type rowSpec struct {
	ID       string         `yaml:"id" json:"id"`
	Values   map[string]any `yaml:"values" json:"values"`
	Selected bool           `yaml:"selected" json:"selected"`
	Expanded bool           `yaml:"expanded" json:"expanded"`
}

// FormatOf returns the format implied by a file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".json":
		return FormatJSON, true
	case ".cue":
		return FormatCUE, true
	}
	return "", false
}

// Load reads and validates the fixture at path. The format is chosen by
// file extension.
func Load(path string) (*Table, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, &LoadError{Code: ErrCodeUnsupportedFormat, Path: path, Message: "unsupported fixture extension (want .yaml, .yml, .json or .cue)"}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: "fixture not found", Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Path: path, Message: fmt.Sprintf("reading fixture: %v", err), Err: err}
	}

	t, err := Parse(data, format, path)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) && le.Path == "" {
			le.Path = path
		}
		return nil, err
	}
	return t, nil
}

// Parse decodes and validates fixture bytes. name is used for CUE
// positions and may be empty.
func Parse(data []byte, format Format, name string) (*Table, error) {
	var (
		doc document
		err error
	)
	switch format {
	case FormatYAML:
		err = decodeYAML(data, &doc)
	case FormatJSON:
		err = decodeJSON(data, &doc)
	case FormatCUE:
		err = decodeCUE(data, name, &doc)
	default:
		return nil, &LoadError{Code: ErrCodeUnsupportedFormat, Message: fmt.Sprintf("unknown format %q", format)}
	}
	if err != nil {
		return nil, err
	}
	return build(doc)
}

func decodeYAML(data []byte, doc *document) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing YAML: %v", err), Err: err}
	}
	return nil
}

func decodeJSON(data []byte, doc *document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return &LoadError{Code: ErrCodeParse, Message: fmt.Sprintf("parsing JSON: %v", err), Err: err}
	}
	for i := range doc.Rows {
		for k, v := range doc.Rows[i].Values {
			doc.Rows[i].Values[k] = fromJSONNumber(v)
		}
	}
	return nil
}

// decodeCUE evaluates the file, requires every field to be concrete and
// decodes the exported JSON.
func decodeCUE(data []byte, name string, doc *document) error {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(name))
	if err := v.Err(); err != nil {
		return cueLoadError(ErrCodeBuild, "building CUE value", err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cueLoadError(ErrCodeBuild, "validating CUE value", err)
	}

	out, err := v.MarshalJSON()
	if err != nil {
		return cueLoadError(ErrCodeBuild, "exporting CUE value", err)
	}
	return decodeJSON(out, doc)
}

func cueLoadError(code, what string, err error) *LoadError {
	le := &LoadError{Code: code, Message: fmt.Sprintf("%s: %v", what, err), Err: err}
	if errs := cueerrors.Errors(err); len(errs) > 0 {
		le.Pos = errs[0].Position()
	}
	return le
}

// fromJSONNumber turns json.Number into int64 when integral, float64 otherwise.
func fromJSONNumber(v any) any {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	if i, err := n.Int64(); err == nil {
		return i
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n.String()
}

func build(doc document) (*Table, error) {
	t := &Table{
		Locale:        doc.Locale,
		SelectionMode: engine.SelectionMode(doc.SelectionMode),
		Columns:       make([]ir.Column, len(doc.Columns)),
		Rows:          make([]ir.MapRecord, len(doc.Rows)),
	}

	switch t.SelectionMode {
	case "", engine.SelectionMultiple, engine.SelectionSingle:
	default:
		return nil, &LoadError{Code: ErrCodeInvalid, Message: fmt.Sprintf("unknown selection_mode %q", doc.SelectionMode)}
	}
	if t.Locale != "" {
		if _, err := engine.ParseLocale(t.Locale); err != nil {
			return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Err: err}
		}
	}

	for i, c := range doc.Columns {
		t.Columns[i] = ir.Column{Key: c.Key, Header: c.Header}
	}
	for i, r := range doc.Rows {
		values := r.Values
		if values == nil {
			values = map[string]any{}
		}
		t.Rows[i] = ir.MapRecord{RowID: r.ID, Values: values, Selected: r.Selected, Expanded: r.Expanded}
	}

	if err := ir.Validate(t.Rows, t.Columns); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Err: err}
	}
	return t, nil
}
