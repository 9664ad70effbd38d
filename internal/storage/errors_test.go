package storage

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStorageErrorFormat(t *testing.T) {
	base := errors.New("boom")

	withTable := &StorageError{Op: "Insert", Table: "daily_activity", Err: base}
	if got := withTable.Error(); !strings.Contains(got, "Insert") || !strings.Contains(got, "daily_activity") {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(withTable, base) {
		t.Error("StorageError does not unwrap to its cause")
	}

	noTable := &StorageError{Op: "Ping", Err: base}
	if got := noTable.Error(); strings.Contains(got, "()") {
		t.Errorf("Error() = %q, table parens should be absent", got)
	}
}

func TestIsConnectionError(t *testing.T) {
	err := WrapConnectionError("Open", fmt.Errorf("dial tcp: refused"))
	if !IsConnectionError(err) {
		t.Error("wrapped connection error not recognized")
	}
	if IsConnectionError(ErrBatchInsertFailed) {
		t.Error("batch error misclassified as connection error")
	}

	var serr *StorageError
	if !errors.As(err, &serr) {
		t.Fatalf("error type = %T", err)
	}
	if serr.Op != "Open" {
		t.Errorf("Op = %q", serr.Op)
	}
}
