package models

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"
)

// PackageType represents the packaging format of an artifact
type PackageType int

const (
	TypeUnknown PackageType = iota
	TypeDeb
	TypeRpm
)

// String returns the string representation of PackageType
func (pt PackageType) String() string {
	switch pt {
	case TypeDeb:
		return "deb"
	case TypeRpm:
		return "rpm"
	default:
		return "unknown"
	}
}

// MatchesFamily reports whether packages of this format can serve the
// given distribution family. Ubuntu and Debian are both served by .deb
// packages, Fedora by .rpm packages.
func (pt PackageType) MatchesFamily(f Family) bool {
	switch f {
	case FamilyUbuntu, FamilyDebian:
		return pt == TypeDeb
	case FamilyFedora:
		return pt == TypeRpm
	default:
		return false
	}
}

// Family represents a distribution lineage independent of version
type Family int

const (
	FamilyUbuntu Family = iota
	FamilyDebian
	FamilyFedora
)

// String returns the string representation of Family
func (f Family) String() string {
	switch f {
	case FamilyUbuntu:
		return "ubuntu"
	case FamilyDebian:
		return "debian"
	case FamilyFedora:
		return "fedora"
	default:
		return "unknown"
	}
}

// Arch represents a supported package architecture
type Arch int

const (
	ArchAmd64 Arch = iota
)

// String returns the string representation of Arch
func (a Arch) String() string {
	switch a {
	case ArchAmd64:
		return "amd64"
	default:
		return "unknown"
	}
}

// ParseArch parses an architecture string
func ParseArch(s string) (Arch, bool) {
	if s == "amd64" {
		return ArchAmd64, true
	}
	return 0, false
}

// Dist identifies a target distribution: a family plus an optional
// parsed version. Ubuntu with no version is distinct from Ubuntu 22.04.
type Dist struct {
	Family  Family
	Version *semver.Version
}

// Equal reports whether two distributions match exactly: same family
// and same parsed version (version absent on both sides counts as equal).
func (d Dist) Equal(other Dist) bool {
	if d.Family != other.Family {
		return false
	}
	if d.Version == nil || other.Version == nil {
		return d.Version == nil && other.Version == nil
	}
	return d.Version.Equal(other.Version)
}

// String returns a human-readable identifier like "ubuntu 22.4.0"
func (d Dist) String() string {
	if d.Version == nil {
		return d.Family.String()
	}
	return fmt.Sprintf("%s %s", d.Family, d.Version)
}

// ParseDist parses a distribution identifier such as "ubuntu22.04",
// "debian11" or "fedora38" into a Dist. The second return value is
// false when no distribution keyword is recognized.
func ParseDist(s string) (Dist, bool) {
	d := detectDist(s)
	if d == nil {
		return Dist{}, false
	}
	return *d, true
}

// Package represents one distributable artifact. Classification fields
// are derived once at construction and never recomputed; the raw data
// slot starts empty and is populated at most once by a download step.
type Package struct {
	typ     PackageType
	dist    *Dist
	version string
	url     string
	created time.Time

	mu   sync.RWMutex
	data []byte
}

// Classify derives the packaging type and target distribution of an
// artifact from its filename. It fails when the filename's extension
// is neither .deb nor .rpm.
func Classify(filename, version, url string, created time.Time) (*Package, error) {
	typ, stem, ok := splitExtension(filename)
	if !ok {
		return nil, &IndexError{
			Type:    ErrClassification,
			Package: filename,
			Err:     fmt.Errorf("unrecognized package extension"),
		}
	}

	return &Package{
		typ:     typ,
		dist:    detectDist(stem),
		version: version,
		url:     url,
		created: created,
	}, nil
}

// Type returns the packaging format
func (p *Package) Type() PackageType {
	return p.typ
}

// Dist returns the target distribution, or nil when the filename
// carried no recognizable distribution keyword.
func (p *Package) Dist() *Dist {
	return p.dist
}

// Version returns the declared version string of the package
func (p *Package) Version() string {
	return p.version
}

// DownloadURL returns the URL the package data is fetched from
func (p *Package) DownloadURL() string {
	return p.url
}

// FileName returns the artifact's basename, taken from the final path
// segment of the download URL.
func (p *Package) FileName() string {
	return p.url[strings.LastIndexByte(p.url, '/')+1:]
}

// Created returns the creation timestamp used to date summary documents
func (p *Package) Created() time.Time {
	return p.created
}

// SetData stores the downloaded package bytes. Writes are atomic with
// respect to concurrent readers.
func (p *Package) SetData(data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = data
}

// Data returns the downloaded package bytes, or nil when the package
// has not been fetched yet.
func (p *Package) Data() []byte {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.data
}

// splitExtension strips the final dot-delimited suffix from name and
// maps it to a packaging type. A name whose only dot is the leading
// character has no usable extension.
func splitExtension(name string) (PackageType, string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return TypeUnknown, "", false
	}

	switch name[idx+1:] {
	case "deb":
		return TypeDeb, name[:idx], true
	case "rpm":
		return TypeRpm, name[:idx], true
	default:
		return TypeUnknown, "", false
	}
}

// detectDist scans the filename stem for a distribution keyword. The
// stem is split on '-' and '_'; the first token containing a keyword
// wins.
func detectDist(stem string) *Dist {
	tokens := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '-' || r == '_'
	})

	for _, token := range tokens {
		switch {
		case strings.Contains(token, "ubuntu"):
			return &Dist{Family: FamilyUbuntu, Version: parseDistVersion(token)}
		case strings.Contains(token, "debian"):
			return &Dist{Family: FamilyDebian, Version: parseDistVersion(token)}
		case strings.Contains(token, "fedora"):
			return &Dist{Family: FamilyFedora, Version: parseDistVersion(token)}
		}
	}

	return nil
}

// parseDistVersion extracts the version embedded in a distribution
// token such as "ubuntu22.04" or "fedora36": everything from the first
// alphabetic-to-digit boundary onward is parsed as a lenient semantic
// version. Tokens without such a boundary yield no version.
func parseDistVersion(token string) *semver.Version {
	for i := 1; i < len(token); i++ {
		if isASCIIAlpha(token[i-1]) && isASCIIDigit(token[i]) {
			v, err := semver.NewVersion(token[i:])
			if err != nil {
				return nil
			}
			return v
		}
	}
	return nil
}

func isASCIIAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isASCIIDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
