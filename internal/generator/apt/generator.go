// Package apt generates the Packages and Release index documents
// consumed by apt/dpkg tooling.
package apt

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/openbangla/repoindex/internal/extractor"
	"github.com/openbangla/repoindex/internal/models"
	"github.com/openbangla/repoindex/internal/utils"
	"github.com/sirupsen/logrus"
)

// Generator builds APT index documents for a fixed repository identity
type Generator struct {
	origin string
	label  string
}

// NewGenerator creates an APT generator. Empty origin or label fall
// back to ". stable".
func NewGenerator(origin, label string) *Generator {
	if origin == "" {
		origin = ". stable"
	}
	if label == "" {
		label = ". stable"
	}
	return &Generator{origin: origin, label: label}
}

// PackagesIndex renders one control stanza per package, in input
// order, with the pool path, size and digests of the raw artifact
// appended to the extracted control text. Packages whose data has not
// been downloaded, or whose control stanza cannot be extracted, are
// skipped with a diagnostic; they never abort the run. The returned
// document is right-trimmed of trailing whitespace.
func (g *Generator) PackagesIndex(packages []*models.Package) []byte {
	var buf bytes.Buffer

	for _, pkg := range packages {
		data := pkg.Data()
		if data == nil {
			logrus.Warnf("Skipping %s: package data not downloaded", pkg.FileName())
			continue
		}

		control, err := extractor.DebianControl(data)
		if err != nil {
			logrus.Errorf("Failed to extract control data from %s: %v", pkg.FileName(), err)
			continue
		}

		sums := utils.CalculateChecksums(data)

		buf.WriteString(trimRight(control))
		buf.WriteByte('\n')
		fmt.Fprintf(&buf, "Filename: %s\n", PoolPath(pkg))
		fmt.Fprintf(&buf, "Size: %d\n", sums.Size)
		fmt.Fprintf(&buf, "MD5sum: %s\n", sums.MD5)
		fmt.Fprintf(&buf, "SHA1: %s\n", sums.SHA1)
		fmt.Fprintf(&buf, "SHA256: %s\n", sums.SHA256)
		fmt.Fprintf(&buf, "SHA512: %s\n", sums.SHA512)
		buf.WriteByte('\n')
	}

	return bytes.TrimRight(buf.Bytes(), " \t\r\n")
}

// PoolPath returns the storage-relative path a package manager fetches
// the artifact from.
func PoolPath(pkg *models.Package) string {
	return fmt.Sprintf("pool/stable/%s/%s", pkg.Version(), pkg.FileName())
}

func trimRight(s string) string {
	return strings.TrimRight(s, " \t\r\n")
}
