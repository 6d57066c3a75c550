package ir

import (
	"errors"
	"fmt"
)

// ValidationErrorCode categorizes caller errors in table input.
type ValidationErrorCode string

const (
	// ErrCodeEmptyRowID indicates a record with an empty id.
	ErrCodeEmptyRowID ValidationErrorCode = "EMPTY_ROW_ID"

	// ErrCodeDuplicateRowID indicates two records share an id.
	ErrCodeDuplicateRowID ValidationErrorCode = "DUPLICATE_ROW_ID"

	// ErrCodeEmptyColumnKey indicates a column with an empty key.
	ErrCodeEmptyColumnKey ValidationErrorCode = "EMPTY_COLUMN_KEY"

	// ErrCodeDuplicateColumnKey indicates two columns share a key.
	ErrCodeDuplicateColumnKey ValidationErrorCode = "DUPLICATE_COLUMN_KEY"
)

// ValidationError reports input the engine assumes never happens.
// The engine itself does not validate; loaders and the CLI call Validate.
type ValidationError struct {
	Code      ValidationErrorCode
	Message   string
	RowID     string
	ColumnKey string
	Index     int
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	switch {
	case e.RowID != "":
		return fmt.Sprintf("%s: %s (row=%s, index=%d)", e.Code, e.Message, e.RowID, e.Index)
	case e.ColumnKey != "":
		return fmt.Sprintf("%s: %s (column=%s, index=%d)", e.Code, e.Message, e.ColumnKey, e.Index)
	default:
		return fmt.Sprintf("%s: %s (index=%d)", e.Code, e.Message, e.Index)
	}
}

// IsValidationError reports whether err wraps a ValidationError with code.
// An empty code matches any ValidationError.
func IsValidationError(err error, code ValidationErrorCode) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return code == "" || ve.Code == code
	}
	return false
}

// Validate checks the uniqueness contracts of rows and columns.
// All violations are returned joined, columns first.
func Validate[R Record](rows []R, columns []Column) error {
	var errs []error

	keys := make(map[string]int, len(columns))
	for i, c := range columns {
		if c.Key == "" {
			errs = append(errs, &ValidationError{
				Code:    ErrCodeEmptyColumnKey,
				Message: "column key must not be empty",
				Index:   i,
			})
			continue
		}
		if first, dup := keys[c.Key]; dup {
			errs = append(errs, &ValidationError{
				Code:      ErrCodeDuplicateColumnKey,
				Message:   fmt.Sprintf("column key also used at index %d", first),
				ColumnKey: c.Key,
				Index:     i,
			})
			continue
		}
		keys[c.Key] = i
	}

	ids := make(map[string]int, len(rows))
	for i, r := range rows {
		id := r.ID()
		if id == "" {
			errs = append(errs, &ValidationError{
				Code:    ErrCodeEmptyRowID,
				Message: "row id must not be empty",
				Index:   i,
			})
			continue
		}
		if first, dup := ids[id]; dup {
			errs = append(errs, &ValidationError{
				Code:    ErrCodeDuplicateRowID,
				Message: fmt.Sprintf("row id also used at index %d", first),
				RowID:   id,
				Index:   i,
			})
			continue
		}
		ids[id] = i
	}

	return errors.Join(errs...)
}
