package posts

import (
	"io"
	"os"
	"path/filepath"
)

func writeAll(w io.Writer, data []byte) error {
	_, err := w.Write(data)
	return err
}

// writeFileAtomic writes data to a temporary file in the target directory
// and renames it over target, so readers see either the old file or the
// complete new one.
func writeFileAtomic(target string, data []byte, write func(io.Writer, []byte) error) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := write(tmp, data); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return err
	}
	committed = true
	return nil
}
