package extractor

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/sassoftware/go-rpmutils"
)

// RPMMetadata is the structured package record read from an RPM
// header, sufficient to populate the primary, filelists and other
// repository listings.
type RPMMetadata struct {
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
	InstalledSize int64
	Files         []string
}

// tagReader is the slice of the rpm header API the tag helpers read
// through.
type tagReader interface {
	Get(tag int) (interface{}, error)
}

// RPMRecord reads the header of an .rpm package and returns its
// structured metadata record.
func RPMRecord(data []byte) (*RPMMetadata, error) {
	rpm, err := rpmutils.ReadRpm(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM header: %w", err)
	}

	meta := recordFromTags(rpm.Header)

	files, err := rpm.Header.GetFiles()
	if err == nil {
		for _, f := range files {
			meta.Files = append(meta.Files, f.Name())
		}
	}

	return meta, nil
}

// recordFromTags populates the scalar fields of the record from the
// header tags.
func recordFromTags(hdr tagReader) *RPMMetadata {
	meta := &RPMMetadata{
		Name: stringTag(hdr, rpmutils.NAME),
		// EPOCH is an integer tag; an absent epoch reads as zero
		Epoch:         strconv.FormatInt(intTag(hdr, rpmutils.EPOCH), 10),
		Version:       stringTag(hdr, rpmutils.VERSION),
		Release:       stringTag(hdr, rpmutils.RELEASE),
		Arch:          stringTag(hdr, rpmutils.ARCH),
		Summary:       stringTag(hdr, rpmutils.SUMMARY),
		Description:   stringTag(hdr, rpmutils.DESCRIPTION),
		Packager:      stringTag(hdr, rpmutils.PACKAGER),
		URL:           stringTag(hdr, rpmutils.URL),
		License:       stringTag(hdr, rpmutils.LICENSE),
		Group:         stringTag(hdr, rpmutils.GROUP),
		BuildTime:     intTag(hdr, rpmutils.BUILDTIME),
		InstalledSize: intTag(hdr, rpmutils.SIZE),
	}

	if meta.Release == "" {
		meta.Release = "1"
	}

	return meta
}

// stringTag safely gets a string tag from an RPM header
func stringTag(hdr tagReader, tag int) string {
	val, err := hdr.Get(tag)
	if err != nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	}
	return ""
}

// intTag safely gets an integer tag from an RPM header
func intTag(hdr tagReader, tag int) int64 {
	val, err := hdr.Get(tag)
	if err != nil {
		return 0
	}

	switch v := val.(type) {
	case int:
		return int64(v)
	case int32:
		return int64(v)
	case int64:
		return v
	case uint32:
		return int64(v)
	case uint64:
		return int64(v)
	case []int32:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []uint32:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []uint64:
		if len(v) > 0 {
			return int64(v[0])
		}
	case []int:
		if len(v) > 0 {
			return int64(v[0])
		}
	}
	return 0
}
