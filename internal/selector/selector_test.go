package selector

import (
	"testing"
	"time"

	"github.com/openbangla/repoindex/internal/models"
)

// pkg is a shorthand for classifying a filename-only package
func pkg(t *testing.T, name string) *models.Package {
	t.Helper()
	p, err := models.Classify(name, "2.0.0", name, time.Unix(0, 0))
	if err != nil {
		t.Fatalf("Classify(%s) failed: %v", name, err)
	}
	return p
}

func openbanglaPool(t *testing.T) []*models.Package {
	names := []string{
		"OpenBangla-Keyboard_2.0.0-debian10-buster.deb",
		"OpenBangla-Keyboard_2.0.0-debian11.deb",
		"OpenBangla-Keyboard_2.0.0-debian9-stretch.deb",
		"OpenBangla-Keyboard_2.0.0-fedora29.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora30.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora31.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora32.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora33.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora34.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora35.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora36.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora37.rpm",
		"OpenBangla-Keyboard_2.0.0-fedora38.rpm",
		"OpenBangla-Keyboard_2.0.0-ubuntu18.04.deb",
		"OpenBangla-Keyboard_2.0.0-ubuntu19.10.deb",
		"OpenBangla-Keyboard_2.0.0-ubuntu20.04.deb",
		"OpenBangla-Keyboard_2.0.0-ubuntu21.04.deb",
		"OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb",
	}

	pool := make([]*models.Package, 0, len(names))
	for _, name := range names {
		pool = append(pool, pkg(t, name))
	}
	return pool
}

func dist(t *testing.T, name string) models.Dist {
	t.Helper()
	d, ok := models.ParseDist(name)
	if !ok {
		t.Fatalf("ParseDist(%s) not recognized", name)
	}
	return d
}

func fileNames(selected []*models.Package) []string {
	names := make([]string, 0, len(selected))
	for _, p := range selected {
		names = append(names, p.FileName())
	}
	return names
}

func assertSelected(t *testing.T, selected []*models.Package, want ...string) {
	t.Helper()
	got := fileNames(selected)
	if len(got) != len(want) {
		t.Fatalf("selected %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("selected[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSelectUbuntuExactVersion(t *testing.T) {
	pool := openbanglaPool(t)

	assertSelected(t, Select(pool, dist(t, "ubuntu18.04")),
		"OpenBangla-Keyboard_2.0.0-ubuntu18.04.deb")
	assertSelected(t, Select(pool, dist(t, "ubuntu20.04")),
		"OpenBangla-Keyboard_2.0.0-ubuntu20.04.deb")
	assertSelected(t, Select(pool, dist(t, "ubuntu22.04")),
		"OpenBangla-Keyboard_2.0.0-ubuntu22.04.deb")
}

func TestSelectFedoraExactVersion(t *testing.T) {
	pool := openbanglaPool(t)

	assertSelected(t, Select(pool, dist(t, "fedora38")),
		"OpenBangla-Keyboard_2.0.0-fedora38.rpm")
}

func TestSelectFallbackToFamily(t *testing.T) {
	pool := openbanglaPool(t)

	// No ubuntu23.04 artifact exists; the whole deb family is returned
	// rather than an empty set.
	selected := Select(pool, dist(t, "ubuntu23.04"))
	if len(selected) != 8 {
		t.Fatalf("fallback selected %d packages, want 8: %v", len(selected), fileNames(selected))
	}
	for _, p := range selected {
		if p.Type() != models.TypeDeb {
			t.Errorf("fallback selected non-deb package %s", p.FileName())
		}
	}
}

func TestSelectDistlessPackages(t *testing.T) {
	// Packages without a distribution marker serve any requested
	// version of their format's families.
	pool := []*models.Package{
		pkg(t, "fcitx-openbangla_3.0.0.deb"),
		pkg(t, "ibus-openbangla_3.0.0.deb"),
	}

	assertSelected(t, Select(pool, dist(t, "ubuntu22.04")),
		"fcitx-openbangla_3.0.0.deb",
		"ibus-openbangla_3.0.0.deb")

	if got := Select(pool, dist(t, "fedora38")); len(got) != 0 {
		t.Errorf("deb packages should not serve fedora, got %v", fileNames(got))
	}
}

func TestSelectDebianSkipsExactnessPass(t *testing.T) {
	pool := openbanglaPool(t)

	// Debian requests return the whole family-filtered set even when
	// an exact version match exists.
	selected := Select(pool, dist(t, "debian11"))
	if len(selected) != 8 {
		t.Fatalf("debian11 selected %d packages, want 8: %v", len(selected), fileNames(selected))
	}
}

func TestSelectEmptyPool(t *testing.T) {
	if got := Select(nil, dist(t, "ubuntu22.04")); len(got) != 0 {
		t.Errorf("empty pool should select nothing, got %d", len(got))
	}
}

func TestSelectPreservesPoolOrderOnTies(t *testing.T) {
	pool := []*models.Package{
		pkg(t, "a-tool_1.0.0-ubuntu22.04.deb"),
		pkg(t, "b-tool_1.0.0-ubuntu22.04.deb"),
	}

	assertSelected(t, Select(pool, dist(t, "ubuntu22.04")),
		"a-tool_1.0.0-ubuntu22.04.deb",
		"b-tool_1.0.0-ubuntu22.04.deb")
}
