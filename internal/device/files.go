package device

import (
	"fmt"
	"os"

	"github.com/atomicstack/ultimate-control/internal/transfer"
)

// List returns the entries of a device directory.
func (s *Session) List(dir string) ([]transfer.Entry, error) {
	x, err := s.transferChannel()
	if err != nil {
		return nil, err
	}
	return x.List(dir)
}

// Upload copies a local file to remote.
func (s *Session) Upload(local, remote string, overwrite bool) error {
	if _, err := SplitPath(remote); err != nil {
		return err
	}
	f, err := os.Open(local)
	if err != nil {
		return fmt.Errorf("open %s: %w", local, err)
	}
	defer f.Close()
	x, err := s.transferChannel()
	if err != nil {
		return err
	}
	return x.Upload(f, remote, overwrite)
}

// Download copies remote into a local file.
func (s *Session) Download(remote, local string) error {
	x, err := s.transferChannel()
	if err != nil {
		return err
	}
	f, err := os.Create(local)
	if err != nil {
		return fmt.Errorf("create %s: %w", local, err)
	}
	if err := x.Download(remote, f); err != nil {
		_ = f.Close()
		_ = os.Remove(local)
		return err
	}
	return f.Close()
}

// Delete removes remote. A quiet delete ignores refusals from the server.
func (s *Session) Delete(remote string, quiet bool) error {
	x, err := s.transferChannel()
	if err != nil {
		return err
	}
	return x.Delete(remote, quiet)
}
