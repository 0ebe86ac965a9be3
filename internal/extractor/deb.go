// Package extractor pulls the format-specific control record out of
// raw package bytes: the control stanza of a .deb, or the header
// fields of an .rpm.
package extractor

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/blakesmith/ar"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// DebianControl extracts the control stanza from a .deb package as
// text, preserved byte-for-byte apart from field order inside the
// archive. A .deb is an ar archive whose control.tar* member holds
// the control file.
func DebianControl(data []byte) (string, error) {
	rd := ar.NewReader(bytes.NewReader(data))

	for {
		header, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read ar header: %w", err)
		}

		// ar member names may carry padding and a trailing slash
		name := strings.TrimRight(strings.TrimSpace(header.Name), "/")
		if !strings.HasPrefix(name, "control.tar") {
			continue
		}

		member, err := io.ReadAll(rd)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", name, err)
		}

		return controlFromTar(member, name)
	}

	return "", fmt.Errorf("control.tar not found in package")
}

// controlFromTar extracts the control file from a control.tar* member,
// decompressing based on the member's extension.
func controlFromTar(data []byte, name string) (string, error) {
	var tarReader *tar.Reader

	switch {
	case strings.HasSuffix(name, ".gz"):
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		defer gr.Close()
		tarReader = tar.NewReader(gr)
	case strings.HasSuffix(name, ".xz"):
		xr, err := xz.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		tarReader = tar.NewReader(xr)
	case strings.HasSuffix(name, ".zst"):
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return "", err
		}
		defer zr.Close()
		tarReader = tar.NewReader(zr)
	default:
		tarReader = tar.NewReader(bytes.NewReader(data))
	}

	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}

		if header.Name == "./control" || header.Name == "control" {
			control, err := io.ReadAll(tarReader)
			if err != nil {
				return "", err
			}
			return string(control), nil
		}
	}

	return "", fmt.Errorf("control file not found in %s", name)
}
