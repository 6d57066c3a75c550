package ir

import (
	"strconv"
	"strings"
)

// CellID composes a row id and a column key into a cell identifier.
//
// Format: "<len(rowID)>:<rowID>:<columnKey>"
//
// The decimal length prefix fixes where the row id ends, so the mapping is
// injective for arbitrary inputs, including ids and keys that contain ':'.
func CellID(rowID, columnKey string) string {
	var b strings.Builder
	b.Grow(len(rowID) + len(columnKey) + 6)
	b.WriteString(strconv.Itoa(len(rowID)))
	b.WriteByte(':')
	b.WriteString(rowID)
	b.WriteByte(':')
	b.WriteString(columnKey)
	return b.String()
}

// SplitCellID is the inverse of CellID.
// Returns ok=false if id was not produced by CellID.
func SplitCellID(id string) (rowID, columnKey string, ok bool) {
	colon := strings.IndexByte(id, ':')
	if colon <= 0 {
		return "", "", false
	}
	n, err := strconv.Atoi(id[:colon])
	if err != nil || n < 0 || strconv.Itoa(n) != id[:colon] {
		return "", "", false
	}
	rest := id[colon+1:]
	if len(rest) < n+1 || rest[n] != ':' {
		return "", "", false
	}
	return rest[:n], rest[n+1:], true
}
