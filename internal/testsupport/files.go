package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// NewInputFixture creates a temp file of size bytes filled with fill,
// standing in for the raw elementary-stream input a DemuxFunc collaborator
// would read. Returns the fixture's path; the file is removed automatically
// with t's temp directory.
func NewInputFixture(t testing.TB, size int64, fill byte) string {
	t.Helper()

	if size <= 0 {
		size = 1
	}

	path := filepath.Join(t.TempDir(), "input.raw")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create input fixture %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = fill
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write input fixture %s: %v", path, err)
		}
		remaining -= toWrite
	}
	return path
}
