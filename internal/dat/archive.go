package dat

import (
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"
	"github.com/nwaples/rardecode/v2"
)

// ErrNoDatEntry is returned when an archive holds no .dat or .xml file.
var ErrNoDatEntry = errors.New("no dat entry in archive")

func isDatEntry(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".dat", ".xml":
		return true
	}
	return false
}

type multiCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiCloser) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		if err := m.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openSource opens a dat file, unpacking it first when it is shipped as a
// zip, 7z, rar or gzip archive. Archives yield their first dat entry.
func openSource(path string) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zip":
		return openZip(path)
	case ".7z":
		return open7z(path)
	case ".rar":
		return openRAR(path)
	case ".gz":
		return openGzip(path)
	}
	return os.Open(path)
}

func openZip(path string) (io.ReadCloser, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !isDatEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = zr.Close()
			return nil, fmt.Errorf("open %s in zip: %w", f.Name, err)
		}
		return &multiCloser{Reader: rc, closers: []io.Closer{zr, rc}}, nil
	}
	_ = zr.Close()
	return nil, ErrNoDatEntry
}

func open7z(path string) (io.ReadCloser, error) {
	r, err := sevenzip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open 7z: %w", err)
	}
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !isDatEntry(f.Name) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("open %s in 7z: %w", f.Name, err)
		}
		return &multiCloser{Reader: rc, closers: []io.Closer{r, rc}}, nil
	}
	_ = r.Close()
	return nil, ErrNoDatEntry
}

func openRAR(path string) (io.ReadCloser, error) {
	r, err := rardecode.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open rar: %w", err)
	}
	for {
		header, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = r.Close()
			return nil, fmt.Errorf("read rar entry: %w", err)
		}
		if header.IsDir || !isDatEntry(header.Name) {
			continue
		}
		return &multiCloser{Reader: r, closers: []io.Closer{r}}, nil
	}
	_ = r.Close()
	return nil, ErrNoDatEntry
}

func openGzip(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("open gzip: %w", err)
	}
	return &multiCloser{Reader: gz, closers: []io.Closer{f, gz}}, nil
}
