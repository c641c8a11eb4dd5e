package mesh

import "fmt"

// IndexError reports an out-of-range face, vertex or group id
type IndexError struct {
	Kind  string // "face", "vertex" or "group"
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.Kind, e.Index, e.Len)
}

func checkIndex(kind string, index, length int) error {
	if index < 0 || index >= length {
		return &IndexError{Kind: kind, Index: index, Len: length}
	}
	return nil
}
