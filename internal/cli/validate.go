package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue/token"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/gridstate/internal/fixture"
	"github.com/roach88/gridstate/internal/harness"
	"github.com/roach88/gridstate/internal/ir"
)

// Kinds of files the validate command understands.
const (
	KindFixture  = "fixture"
	KindScenario = "scenario"
)

// ErrCodeScenario marks a scenario that failed to parse or validate.
const ErrCodeScenario = "E301"

// FileValidation is the validation outcome of one file.
type FileValidation struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Valid       bool   `json:"valid"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
	Line        int    `json:"line,omitempty"`
	Rows        int    `json:"rows,omitempty"`
	Columns     int    `json:"columns,omitempty"`
	Steps       int    `json:"steps,omitempty"`
	Fingerprint string `json:"fingerprint,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid bool             `json:"valid"`
	Files []FileValidation `json:"files"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate fixtures and scenarios",
		Long: `Validate dataset fixtures (YAML, JSON or CUE) and scenario files.

A YAML file with a top-level "steps" key is checked as a scenario: its
structure, and every dataset it references. Anything else is checked as a
fixture: syntax, unique non-empty row ids and column keys, a known
selection mode and a parseable locale.

Exit codes:
  0 - Every file is valid
  1 - At least one file is invalid
  2 - Command error (file not found)`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	result := ValidationResult{Valid: true, Files: make([]FileValidation, 0, len(paths))}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			_ = formatter.Error(fixture.ErrCodeNotFound, fmt.Sprintf("cannot read %s", path), nil)
			return WrapExitError(ExitCommandError, "file not found", err)
		}

		var fv FileValidation
		if isScenario(path, data) {
			fv = validateScenarioFile(path)
		} else {
			fv = validateFixtureFile(path)
		}
		formatter.VerboseLog("%s %s: valid=%t", fv.Kind, path, fv.Valid)

		result.Files = append(result.Files, fv)
		if !fv.Valid {
			result.Valid = false
		}
	}

	if formatter.Format == "json" {
		return outputValidateJSON(formatter, result)
	}
	return outputValidateText(formatter, result)
}

// isScenario reports whether a YAML document has a top-level steps key.
func isScenario(path string, data []byte) bool {
	if format, ok := fixture.FormatOf(path); !ok || format != fixture.FormatYAML {
		return false
	}
	var top map[string]any
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&top); err != nil {
		return false
	}
	_, ok := top["steps"]
	return ok
}

func validateFixtureFile(path string) FileValidation {
	fv := FileValidation{Path: path, Kind: KindFixture}
	tbl, err := fixture.Load(path)
	if err != nil {
		fillLoadError(&fv, err)
		return fv
	}
	fp, err := ir.DatasetFingerprint(tbl.Rows, tbl.Columns)
	if err != nil {
		fv.Code = fixture.ErrCodeInvalid
		fv.Message = err.Error()
		return fv
	}
	fv.Valid = true
	fv.Rows = len(tbl.Rows)
	fv.Columns = len(tbl.Columns)
	fv.Fingerprint = fp
	return fv
}

func validateScenarioFile(path string) FileValidation {
	fv := FileValidation{Path: path, Kind: KindScenario}
	scenario, err := harness.LoadScenario(path)
	if err != nil {
		fv.Code = ErrCodeScenario
		fv.Message = err.Error()
		return fv
	}

	baseDir := filepath.Dir(path)
	sources := []harness.DataSource{scenario.DataSource}
	for _, step := range scenario.Steps {
		if step.SetData != nil {
			sources = append(sources, *step.SetData)
		}
	}
	for _, src := range sources {
		tbl, err := src.Load(baseDir)
		if err != nil {
			fillLoadError(&fv, err)
			return fv
		}
		if fv.Rows == 0 {
			fv.Rows = len(tbl.Rows)
			fv.Columns = len(tbl.Columns)
		}
	}
	fv.Valid = true
	fv.Steps = len(scenario.Steps)
	return fv
}

func fillLoadError(fv *FileValidation, err error) {
	var le *fixture.LoadError
	if errors.As(err, &le) {
		fv.Code = le.Code
		fv.Message = le.Message
		fv.Line = getLineFromCuePos(le.Pos)
		return
	}
	fv.Code = fixture.ErrCodeInvalid
	fv.Message = err.Error()
}

// getLineFromCuePos extracts line number from a token.Pos.
func getLineFromCuePos(pos token.Pos) int {
	if pos.IsValid() {
		return pos.Line()
	}
	return 0
}

func outputValidateJSON(formatter *OutputFormatter, result ValidationResult) error {
	if result.Valid {
		return formatter.Success(result)
	}

	first := firstInvalid(result)
	response := CLIResponse{
		Status: "error",
		Data:   result,
		Error: &CLIError{
			Code:    first.Code,
			Message: first.Message,
		},
	}
	encoder := json.NewEncoder(formatter.Writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return err
	}

	// Validation failures = exit code 1
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %s", first.Path))
}

func outputValidateText(formatter *OutputFormatter, result ValidationResult) error {
	w := formatter.Writer
	for _, fv := range result.Files {
		if fv.Valid {
			fmt.Fprintf(w, "\u2713 %s (%s, %d rows, %d columns)\n", fv.Path, fv.Kind, fv.Rows, fv.Columns)
			continue
		}
		fmt.Fprintf(w, "\u2717 %s (%s)\n", fv.Path, fv.Kind)
		if fv.Line > 0 {
			fmt.Fprintf(w, "  line %d\n", fv.Line)
		}
		fmt.Fprintf(w, "  %s: %s\n", fv.Code, fv.Message)
	}

	if !result.Valid {
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed for %s", firstInvalid(result).Path))
	}
	return nil
}

func firstInvalid(result ValidationResult) FileValidation {
	for _, fv := range result.Files {
		if !fv.Valid {
			return fv
		}
	}
	return FileValidation{}
}
