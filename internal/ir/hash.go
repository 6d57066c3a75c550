package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainDataset  = "gridstate/dataset/v1"
	DomainSnapshot = "gridstate/snapshot/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data)
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// DatasetFingerprint identifies a (rows, columns) input by content: the
// ordered row ids, the ordered column keys and headers, and the kind and
// string form of every cell value. Two inputs with equal fingerprints
// normalize to identical stores.
func DatasetFingerprint[R Record](rows []R, columns []Column) (string, error) {
	cols := make([]any, len(columns))
	for i, c := range columns {
		cols[i] = []any{c.Key, c.Header}
	}
	rowList := make([]any, len(rows))
	for i, r := range rows {
		values := make([]any, len(columns))
		for j, c := range columns {
			v, _ := r.Field(c.Key)
			values[j] = []any{valueKind(v), ToString(v)}
		}
		rowList[i] = []any{r.ID(), values}
	}
	canonical, err := MarshalCanonical(map[string]any{
		"columns": cols,
		"rows":    rowList,
	})
	if err != nil {
		return "", fmt.Errorf("DatasetFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainDataset, canonical), nil
}

// valueKind tags a cell value so that values with the same string form but
// different comparison behavior fingerprint differently.
func valueKind(v any) string {
	switch v.(type) {
	case nil:
		return "nil"
	case string, []byte:
		return "string"
	case bool:
		return "bool"
	}
	if _, ok := AsNumber(v); ok {
		return "number"
	}
	return "other"
}

// MustDatasetFingerprint is like DatasetFingerprint but panics on error.
// The canonical form only holds strings, so errors indicate a bug.
func MustDatasetFingerprint[R Record](rows []R, columns []Column) string {
	fp, err := DatasetFingerprint(rows, columns)
	if err != nil {
		panic(err)
	}
	return fp
}

// SnapshotHash hashes an already canonical-ready view document.
func SnapshotHash(doc map[string]any) (string, error) {
	canonical, err := MarshalCanonical(doc)
	if err != nil {
		return "", fmt.Errorf("SnapshotHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainSnapshot, canonical), nil
}
