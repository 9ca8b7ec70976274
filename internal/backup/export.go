// Copyright (c) 2026 cursor-free Team
// cursor-free - Cursor machine identity reset tool
// This source code is licensed under the MIT license found in the LICENSE file.

package backup

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// Export streams every backup as a Zstandard-compressed tar archive to w and
// returns the number of files written. Records are written oldest first.
func (s *Store) Export(w io.Writer) (int, error) {
	records, err := s.List()
	if err != nil {
		return 0, err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("could not create zstd writer: %w", err)
	}
	tw := tar.NewWriter(zw)

	n := 0
	for i := len(records) - 1; i >= 0; i-- {
		if err := addFile(tw, records[i].Path); err != nil {
			_ = tw.Close()
			_ = zw.Close()
			return n, fmt.Errorf("%w: archive %s: %v", ErrIO, records[i].Path, err)
		}
		n++
	}
	if err := tw.Close(); err != nil {
		_ = zw.Close()
		return n, fmt.Errorf("could not finish tar stream: %w", err)
	}
	if err := zw.Close(); err != nil {
		return n, fmt.Errorf("could not flush zstd writer: %w", err)
	}
	return n, nil
}

func addFile(tw *tar.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	hdr, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return err
	}
	hdr.Name = filepath.Base(path)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err = io.Copy(tw, f)
	return err
}

// ReadArchive lists the file names and contents of an archive produced by
// Export.
func ReadArchive(r io.Reader) (map[string][]byte, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("could not create zstd reader: %w", err)
	}
	defer zr.Close()

	out := map[string][]byte{}
	tr := tar.NewReader(zr)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read tar entry: %w", err)
		}
		data, err := io.ReadAll(tr)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", hdr.Name, err)
		}
		out[hdr.Name] = data
	}
}
