// Package selector narrows a pool of classified packages down to the
// subset applicable to one requested distribution.
package selector

import "github.com/openbangla/repoindex/internal/models"

// Select returns the packages from pool that apply to the requested
// distribution. The pool is first filtered to the packaging format of
// the requested family; for the version-sensitive families (Ubuntu and
// Fedora) a second pass keeps only exact family+version matches. When
// the exact pass comes up empty the family-filtered set is returned,
// so a package with an absent or unparsable version still serves any
// requested version of its family.
//
// Debian requests skip the exactness pass and always get the full
// family-filtered set.
func Select(pool []*models.Package, requested models.Dist) []*models.Package {
	var family []*models.Package
	for _, pkg := range pool {
		if pkg.Type().MatchesFamily(requested.Family) {
			family = append(family, pkg)
		}
	}

	if requested.Family == models.FamilyUbuntu || requested.Family == models.FamilyFedora {
		var exact []*models.Package
		for _, pkg := range family {
			if d := pkg.Dist(); d != nil && d.Equal(requested) {
				exact = append(exact, pkg)
			}
		}
		if len(exact) > 0 {
			return exact
		}
	}

	return family
}
