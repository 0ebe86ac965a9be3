package rpm

import (
	"encoding/xml"
	"fmt"

	"github.com/openbangla/repoindex/internal/utils"
)

type repomd struct {
	XMLName  xml.Name     `xml:"repomd"`
	Xmlns    string       `xml:"xmlns,attr"`
	XmlnsRpm string       `xml:"xmlns:rpm,attr"`
	Revision int64        `xml:"revision"`
	Data     []repomdData `xml:"data"`
}

type repomdData struct {
	Type         string         `xml:"type,attr"`
	Checksum     repomdChecksum `xml:"checksum"`
	OpenChecksum repomdChecksum `xml:"open-checksum"`
	Location     xmlLocation    `xml:"location"`
	Timestamp    int64          `xml:"timestamp"`
	Size         int64          `xml:"size"`
	OpenSize     int64          `xml:"open-size"`
}

type repomdChecksum struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

// RepoMDIndex renders the three listing documents, compresses each
// deterministically with zstd, and embeds the SHA-256 and size of both
// the plain and compressed form of each into the repomd.xml summary.
// The summary timestamp is the maximum build time across the input,
// zero for an empty pool.
func RepoMDIndex(entries []Package) ([]byte, error) {
	timestamp := int64(0)
	for _, e := range entries {
		if e.BuildTime > timestamp {
			timestamp = e.BuildTime
		}
	}

	listings := []struct {
		typ    string
		render func([]Package) ([]byte, error)
	}{
		{"primary", PrimaryIndex},
		{"filelists", FileListsIndex},
		{"other", OtherIndex},
	}

	var data []repomdData
	for _, listing := range listings {
		doc, err := listing.render(entries)
		if err != nil {
			return nil, err
		}

		compressed, err := utils.ZstdCompress(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to compress %s.xml: %w", listing.typ, err)
		}

		data = append(data, repomdData{
			Type: listing.typ,
			Checksum: repomdChecksum{
				Type:  "sha256",
				Value: utils.CalculateChecksum(compressed, "sha256"),
			},
			OpenChecksum: repomdChecksum{
				Type:  "sha256",
				Value: utils.CalculateChecksum(doc, "sha256"),
			},
			Location:  xmlLocation{Href: fmt.Sprintf("repodata/%s.xml.zst", listing.typ)},
			Timestamp: timestamp,
			Size:      int64(len(compressed)),
			OpenSize:  int64(len(doc)),
		})
	}

	return marshalDocument(repomd{
		Xmlns:    "http://linux.duke.edu/metadata/repo",
		XmlnsRpm: "http://linux.duke.edu/metadata/rpm",
		Revision: timestamp,
		Data:     data,
	})
}
