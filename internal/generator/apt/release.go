package apt

import (
	"bytes"
	"fmt"
	"time"

	"github.com/openbangla/repoindex/internal/models"
	"github.com/openbangla/repoindex/internal/utils"
)

// releaseFile is one digest/size entry in the Release document
type releaseFile struct {
	path string
	sums *utils.Checksum
}

// ReleaseIndex renders the Release summary document: repository
// identity, a date taken as the latest creation time across the input
// packages, and per-file digest/size entries for both the plain and
// the gzip-compressed Packages index. The compression is deterministic
// so the embedded digests stay stable across regenerations.
func (g *Generator) ReleaseIndex(packages []*models.Package) ([]byte, error) {
	index := g.PackagesIndex(packages)

	indexGz, err := utils.GzipDeterministic(index)
	if err != nil {
		return nil, fmt.Errorf("failed to compress Packages index: %w", err)
	}

	files := []releaseFile{
		{
			path: fmt.Sprintf("main/binary-%s/Packages", models.ArchAmd64),
			sums: utils.CalculateChecksums(index),
		},
		{
			path: fmt.Sprintf("main/binary-%s/Packages.gz", models.ArchAmd64),
			sums: utils.CalculateChecksums(indexGz),
		},
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Origin: %s\n", g.origin)
	fmt.Fprintf(&buf, "Label: %s\n", g.label)
	fmt.Fprintf(&buf, "Date: %s\n", latestCreated(packages).Format(time.RFC1123Z))

	buf.WriteString("MD5Sum:\n")
	for _, file := range files {
		fmt.Fprintf(&buf, " %s %d %s\n", file.sums.MD5, file.sums.Size, file.path)
	}

	buf.WriteString("SHA1:\n")
	for _, file := range files {
		fmt.Fprintf(&buf, " %s %d %s\n", file.sums.SHA1, file.sums.Size, file.path)
	}

	buf.WriteString("SHA256:\n")
	for _, file := range files {
		fmt.Fprintf(&buf, " %s %d %s\n", file.sums.SHA256, file.sums.Size, file.path)
	}

	buf.WriteString("SHA512:\n")
	for _, file := range files {
		fmt.Fprintf(&buf, " %s %d %s\n", file.sums.SHA512, file.sums.Size, file.path)
	}

	return buf.Bytes(), nil
}

// latestCreated folds the maximum creation time over the pool. An
// empty pool dates the document at the Unix epoch, keeping regeneration
// byte-identical regardless of wall clock.
func latestCreated(packages []*models.Package) time.Time {
	latest := time.Unix(0, 0).UTC()
	for _, pkg := range packages {
		if pkg.Created().After(latest) {
			latest = pkg.Created()
		}
	}
	return latest.UTC()
}
