package models

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Masterminds/semver/v3"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		filename string
		typ      PackageType
		dist     *Dist
	}{
		{
			filename: "OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb",
			typ:      TypeDeb,
			dist:     &Dist{Family: FamilyUbuntu, Version: semver.MustParse("22.04")},
		},
		{
			filename: "OpenBangla-Keyboard_2.0.0-fedora36.rpm",
			typ:      TypeRpm,
			dist:     &Dist{Family: FamilyFedora, Version: semver.MustParse("36")},
		},
		{
			filename: "OpenBangla-Keyboard_2.0.0-debian10-buster.deb",
			typ:      TypeDeb,
			dist:     &Dist{Family: FamilyDebian, Version: semver.MustParse("10")},
		},
		{
			filename: "caprine_2.56.1_amd64.deb",
			typ:      TypeDeb,
			dist:     nil,
		},
		{
			filename: "something-ubuntu.deb",
			typ:      TypeDeb,
			dist:     &Dist{Family: FamilyUbuntu},
		},
	}

	for _, tt := range tests {
		pkg, err := Classify(tt.filename, "2.0.0", "", time.Unix(0, 0))
		if err != nil {
			t.Fatalf("Classify(%s) failed: %v", tt.filename, err)
		}

		if pkg.Type() != tt.typ {
			t.Errorf("Classify(%s) type = %s, want %s", tt.filename, pkg.Type(), tt.typ)
		}

		switch {
		case tt.dist == nil && pkg.Dist() != nil:
			t.Errorf("Classify(%s) dist = %s, want none", tt.filename, pkg.Dist())
		case tt.dist != nil && pkg.Dist() == nil:
			t.Errorf("Classify(%s) dist = none, want %s", tt.filename, tt.dist)
		case tt.dist != nil && !pkg.Dist().Equal(*tt.dist):
			t.Errorf("Classify(%s) dist = %s, want %s", tt.filename, pkg.Dist(), tt.dist)
		}

		if pkg.Version() != "2.0.0" {
			t.Errorf("Classify(%s) version = %s, want 2.0.0", tt.filename, pkg.Version())
		}
	}
}

func TestClassifyUnrecognizedExtension(t *testing.T) {
	for _, filename := range []string{"caprine_2.56.1_amd64.snap", "deb", ".deb", "archive.tar.gz"} {
		_, err := Classify(filename, "", "", time.Unix(0, 0))
		if err == nil {
			t.Errorf("Classify(%s) should have failed", filename)
			continue
		}

		var indexErr *IndexError
		if !errors.As(err, &indexErr) || indexErr.Type != ErrClassification {
			t.Errorf("Classify(%s) error = %v, want classification error", filename, err)
		}
	}
}

func TestParseDistVersion(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"ubuntu24.10", "24.10.0"},
		{"ubuntu22.04", "22.4.0"},
		{"fedora37", "37.0.0"},
		{"ubuntu", ""},
		{"buster", ""},
	}

	for _, tt := range tests {
		v := parseDistVersion(tt.token)
		if tt.want == "" {
			if v != nil {
				t.Errorf("parseDistVersion(%s) = %s, want none", tt.token, v)
			}
			continue
		}
		if v == nil || v.String() != tt.want {
			t.Errorf("parseDistVersion(%s) = %v, want %s", tt.token, v, tt.want)
		}
	}
}

func TestParseDist(t *testing.T) {
	d, ok := ParseDist("ubuntu22.04")
	if !ok {
		t.Fatal("ParseDist(ubuntu22.04) not recognized")
	}
	if d.Family != FamilyUbuntu || d.Version == nil || !d.Version.Equal(semver.MustParse("22.04")) {
		t.Errorf("ParseDist(ubuntu22.04) = %s", d)
	}

	if _, ok := ParseDist("archlinux"); ok {
		t.Error("ParseDist(archlinux) should not be recognized")
	}
}

func TestDistEqual(t *testing.T) {
	versioned := Dist{Family: FamilyUbuntu, Version: semver.MustParse("22.04")}
	unversioned := Dist{Family: FamilyUbuntu}

	if versioned.Equal(unversioned) {
		t.Error("Ubuntu(22.04) should not equal Ubuntu(none)")
	}
	if !versioned.Equal(Dist{Family: FamilyUbuntu, Version: semver.MustParse("22.04")}) {
		t.Error("Ubuntu(22.04) should equal Ubuntu(22.04)")
	}
	if !unversioned.Equal(Dist{Family: FamilyUbuntu}) {
		t.Error("Ubuntu(none) should equal Ubuntu(none)")
	}
	if versioned.Equal(Dist{Family: FamilyFedora, Version: semver.MustParse("22.04")}) {
		t.Error("families must match")
	}
}

func TestFileName(t *testing.T) {
	pkg, err := Classify(
		"OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb",
		"2.0.0",
		"https://github.com/OpenBangla/OpenBangla-Keyboard/releases/download/2.0.0/OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb",
		time.Unix(0, 0),
	)
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if got := pkg.FileName(); got != "OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb" {
		t.Errorf("FileName() = %s", got)
	}
}

func TestDataSlot(t *testing.T) {
	pkg, err := Classify("test_1.0.0.deb", "1.0.0", "test_1.0.0.deb", time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if pkg.Data() != nil {
		t.Error("data slot should start empty")
	}

	payload := []byte("package payload")

	// Concurrent readers must never observe a torn buffer
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if data := pkg.Data(); data != nil && len(data) != len(payload) {
				t.Errorf("observed torn buffer of length %d", len(data))
			}
		}()
	}

	pkg.SetData(payload)
	wg.Wait()

	if string(pkg.Data()) != string(payload) {
		t.Errorf("Data() = %q, want %q", pkg.Data(), payload)
	}
}
