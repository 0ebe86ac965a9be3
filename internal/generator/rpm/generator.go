// Package rpm generates the primary, filelists, other and repomd
// index documents consumed by dnf/yum tooling.
package rpm

import (
	"encoding/xml"
	"fmt"

	"github.com/openbangla/repoindex/internal/extractor"
	"github.com/openbangla/repoindex/internal/models"
	"github.com/openbangla/repoindex/internal/utils"
	"github.com/sirupsen/logrus"
)

// Package is one RPM artifact's listing entry: the metadata read from
// its header plus the digest, sizes and pool location of the artifact
// itself.
type Package struct {
	Name          string
	Epoch         string
	Version       string
	Release       string
	Arch          string
	Summary       string
	Description   string
	Packager      string
	URL           string
	License       string
	Group         string
	BuildTime     int64
	FileTime      int64
	PackageSize   int64
	InstalledSize int64
	Checksum      string
	Location      string
	Files         []string
}

// FromPackages converts classified packages into listing entries.
// Packages whose data has not been downloaded, or whose header cannot
// be read, are skipped with a diagnostic; they never abort the run.
func FromPackages(packages []*models.Package) []Package {
	var entries []Package

	for _, pkg := range packages {
		data := pkg.Data()
		if data == nil {
			logrus.Warnf("Skipping %s: package data not downloaded", pkg.FileName())
			continue
		}

		meta, err := extractor.RPMRecord(data)
		if err != nil {
			logrus.Errorf("Failed to read RPM header from %s: %v", pkg.FileName(), err)
			continue
		}

		entries = append(entries, Package{
			Name:          meta.Name,
			Epoch:         meta.Epoch,
			Version:       meta.Version,
			Release:       meta.Release,
			Arch:          meta.Arch,
			Summary:       meta.Summary,
			Description:   meta.Description,
			Packager:      meta.Packager,
			URL:           meta.URL,
			License:       meta.License,
			Group:         meta.Group,
			BuildTime:     meta.BuildTime,
			FileTime:      pkg.Created().Unix(),
			PackageSize:   int64(len(data)),
			InstalledSize: meta.InstalledSize,
			Checksum:      utils.CalculateChecksum(data, "sha256"),
			Location:      fmt.Sprintf("pool/stable/%s/%s", pkg.Version(), pkg.FileName()),
			Files:         meta.Files,
		})
	}

	return entries
}

// XML structures for the listing documents

type primaryMetadata struct {
	XMLName       xml.Name     `xml:"metadata"`
	Xmlns         string       `xml:"xmlns,attr"`
	XmlnsRpm      string       `xml:"xmlns:rpm,attr"`
	PackagesCount int          `xml:"packages,attr"`
	Packages      []primaryPkg `xml:"package"`
}

type primaryPkg struct {
	Type        string      `xml:"type,attr"`
	Name        string      `xml:"name"`
	Arch        string      `xml:"arch"`
	Version     xmlVersion  `xml:"version"`
	Checksum    xmlChecksum `xml:"checksum"`
	Summary     string      `xml:"summary"`
	Description string      `xml:"description"`
	Packager    string      `xml:"packager,omitempty"`
	URL         string      `xml:"url,omitempty"`
	Time        xmlTime     `xml:"time"`
	Size        xmlSize     `xml:"size"`
	Location    xmlLocation `xml:"location"`
	Format      xmlFormat   `xml:"format"`
}

type xmlVersion struct {
	Epoch string `xml:"epoch,attr"`
	Ver   string `xml:"ver,attr"`
	Rel   string `xml:"rel,attr"`
}

type xmlChecksum struct {
	Type  string `xml:"type,attr"`
	Pkgid string `xml:"pkgid,attr"`
	Value string `xml:",chardata"`
}

type xmlTime struct {
	File  int64 `xml:"file,attr"`
	Build int64 `xml:"build,attr"`
}

type xmlSize struct {
	Package   int64 `xml:"package,attr"`
	Installed int64 `xml:"installed,attr"`
	Archive   int64 `xml:"archive,attr"`
}

type xmlLocation struct {
	Href string `xml:"href,attr"`
}

type xmlFormat struct {
	License string `xml:"rpm:license,omitempty"`
	Group   string `xml:"rpm:group,omitempty"`
}

type fileLists struct {
	XMLName       xml.Name  `xml:"filelists"`
	Xmlns         string    `xml:"xmlns,attr"`
	PackagesCount int       `xml:"packages,attr"`
	Packages      []listPkg `xml:"package"`
}

type otherdata struct {
	XMLName       xml.Name  `xml:"otherdata"`
	Xmlns         string    `xml:"xmlns,attr"`
	PackagesCount int       `xml:"packages,attr"`
	Packages      []listPkg `xml:"package"`
}

type listPkg struct {
	Pkgid   string     `xml:"pkgid,attr"`
	Name    string     `xml:"name,attr"`
	Arch    string     `xml:"arch,attr"`
	Version xmlVersion `xml:"version"`
	Files   []string   `xml:"file,omitempty"`
}

// PrimaryIndex renders the primary.xml listing, one entry per package,
// in input order.
func PrimaryIndex(entries []Package) ([]byte, error) {
	pkgs := make([]primaryPkg, 0, len(entries))
	for _, e := range entries {
		pkgs = append(pkgs, primaryPkg{
			Type: "rpm",
			Name: e.Name,
			Arch: e.Arch,
			Version: xmlVersion{
				Epoch: e.Epoch,
				Ver:   e.Version,
				Rel:   e.Release,
			},
			Checksum: xmlChecksum{
				Type:  "sha256",
				Pkgid: "YES",
				Value: e.Checksum,
			},
			Summary:     e.Summary,
			Description: e.Description,
			Packager:    e.Packager,
			URL:         e.URL,
			Time: xmlTime{
				File:  e.FileTime,
				Build: e.BuildTime,
			},
			Size: xmlSize{
				Package:   e.PackageSize,
				Installed: e.InstalledSize,
				Archive:   e.PackageSize,
			},
			Location: xmlLocation{Href: e.Location},
			Format: xmlFormat{
				License: e.License,
				Group:   e.Group,
			},
		})
	}

	return marshalDocument(primaryMetadata{
		Xmlns:         "http://linux.duke.edu/metadata/common",
		XmlnsRpm:      "http://linux.duke.edu/metadata/rpm",
		PackagesCount: len(entries),
		Packages:      pkgs,
	})
}

// FileListsIndex renders the filelists.xml listing
func FileListsIndex(entries []Package) ([]byte, error) {
	return marshalDocument(fileLists{
		Xmlns:         "http://linux.duke.edu/metadata/filelists",
		PackagesCount: len(entries),
		Packages:      listEntries(entries, true),
	})
}

// OtherIndex renders the other.xml listing. No changelog data is
// carried, so entries hold identity and version only.
func OtherIndex(entries []Package) ([]byte, error) {
	return marshalDocument(otherdata{
		Xmlns:         "http://linux.duke.edu/metadata/other",
		PackagesCount: len(entries),
		Packages:      listEntries(entries, false),
	})
}

func listEntries(entries []Package, withFiles bool) []listPkg {
	pkgs := make([]listPkg, 0, len(entries))
	for _, e := range entries {
		pkg := listPkg{
			Pkgid: e.Checksum,
			Name:  e.Name,
			Arch:  e.Arch,
			Version: xmlVersion{
				Epoch: e.Epoch,
				Ver:   e.Version,
				Rel:   e.Release,
			},
		}
		if withFiles {
			pkg.Files = e.Files
		}
		pkgs = append(pkgs, pkg)
	}
	return pkgs
}

func marshalDocument(doc interface{}) ([]byte, error) {
	xmlBytes, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return append([]byte(xml.Header), xmlBytes...), nil
}
