// Package common holds small helpers shared by the static tooling.
package common

import "path"

// PkgAlias returns the default import name of pkgPath, or "" for an empty path.
func PkgAlias(pkgPath string) string {
	if pkgPath == "" {
		return ""
	}

	return path.Base(pkgPath)
}

// ShortName renders a contract as it is written in source and metadata
// files, e.g. "shop.Order" for docmapper/examples/shop.Order.
func ShortName(pkgPath, name string) string {
	if alias := PkgAlias(pkgPath); alias != "" {
		return alias + "." + name
	}

	return name
}

// First returns the first element of s, if any.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Only returns the element of a one-element slice. It reports false for
// empty slices and for slices holding more than one element.
func Only[S ~[]E, E any](s S) (E, bool) {
	if len(s) != 1 {
		var zero E
		return zero, false
	}

	return s[0], true
}
