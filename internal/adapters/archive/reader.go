package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"path"
	"sort"
)

// Contents holds the allow-listed files found in an archive, keyed by base
// name, with the allow-listed names that were absent.
type Contents struct {
	Files   map[string]string
	Missing []string
	Ignored int
}

// Read extracts allow-listed entries from zip bytes.
func Read(data []byte, allow []string) (*Contents, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	return extract(zr.File, allow)
}

// ReadFile extracts allow-listed entries from the zip at path.
func ReadFile(name string, allow []string) (*Contents, error) {
	zr, err := zip.OpenReader(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptArchive, err)
	}
	defer zr.Close()
	return extract(zr.File, allow)
}

// extract matches entries by base name, so files nested in folders are
// found. A later entry with the same base name replaces an earlier one.
func extract(entries []*zip.File, allow []string) (*Contents, error) {
	wanted := make(map[string]bool, len(allow))
	for _, a := range allow {
		wanted[a] = true
	}

	c := &Contents{Files: map[string]string{}}
	for _, e := range entries {
		if e.FileInfo().IsDir() {
			continue
		}
		base := path.Base(e.Name)
		if !wanted[base] {
			c.Ignored++
			continue
		}
		text, err := readEntry(e)
		if err != nil {
			return nil, err
		}
		c.Files[base] = text
	}

	for _, a := range allow {
		if _, ok := c.Files[a]; !ok {
			c.Missing = append(c.Missing, a)
		}
	}
	sort.Strings(c.Missing)
	return c, nil
}

func readEntry(e *zip.File) (string, error) {
	rc, err := e.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrCorruptArchive, e.Name, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", ErrCorruptArchive, e.Name, err)
	}
	return string(b), nil
}
