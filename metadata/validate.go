package metadata

import (
	"fmt"
	"sort"
	"strings"

	"docmapper/internal/diagnostic"
	"docmapper/internal/naming"
)

// Validate checks a metadata file for structural mistakes that can be found
// without loading the contracts themselves.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("metadata_is_nil", "metadata file is nil", "", "")
		return res
	}

	seen := map[string]struct{}{}

	for i := range f.Contracts {
		e := &f.Contracts[i]

		if e.Name == "" {
			res.AddError("missing_contract", fmt.Sprintf("entry %d has no contract name", i), "", "")
			continue
		}

		if !strings.Contains(e.Name, ".") {
			res.AddError("unqualified_contract",
				fmt.Sprintf("contract %q must be qualified as pkg.Name or import/path.Name", e.Name), e.Name, "")
		}

		if _, ok := seen[e.Name]; ok {
			res.AddError("duplicate_contract", fmt.Sprintf("duplicate contract %q", e.Name), e.Name, "")
			continue
		}

		seen[e.Name] = struct{}{}

		validateAccessors(res, e)
		validateIndexes(res, e)
	}

	return res
}

func validateAccessors(res *diagnostic.Diagnostics, e *ContractEntry) {
	getters := make([]string, 0, len(e.Accessors))
	for name := range e.Accessors {
		getters = append(getters, name)
	}

	sort.Strings(getters)

	ids := 0

	for _, getter := range getters {
		a := e.Accessors[getter]

		if naming.Classify(getter) != naming.AccessorGetter {
			res.AddError("not_a_getter",
				fmt.Sprintf("markers can only be attached to getters, %s is not one", getter), e.Name, getter)

			continue
		}

		if _, err := naming.StorageName(getter, naming.Markers{ID: a.ID, Named: a.Named}); err != nil {
			res.AddError("conflicting_markers", err.Error(), e.Name, getter)
		}

		if a.ID {
			ids++
		}

		if a.ID && a.ReadOnly {
			res.AddWarning("readonly_identifier",
				"identifier properties never need a setter, readonly is redundant", e.Name, getter)
		}

		for _, c := range a.Constraints {
			if strings.TrimSpace(c) == "" {
				res.AddError("empty_constraint", "empty validation constraint", e.Name, getter)
			}
		}
	}

	if ids > 1 {
		res.AddError("duplicate_identifier", fmt.Sprintf("%d accessors carry the id marker", ids), e.Name, "")
	}
}

func validateIndexes(res *diagnostic.Diagnostics, e *ContractEntry) {
	names := map[string]struct{}{}

	for i, idx := range e.Indexes {
		if len(idx.Fields) == 0 {
			res.AddError("empty_index", fmt.Sprintf("index %d has no fields", i), e.Name, "")
			continue
		}

		for _, f := range idx.Fields {
			if f.Field == "" {
				res.AddError("empty_index_field", fmt.Sprintf("index %d has a field without name", i), e.Name, "")
			}
		}

		name := idx.Name
		if name == "" {
			name = idx.DefaultName()
		}

		if _, ok := names[name]; ok {
			res.AddError("duplicate_index", fmt.Sprintf("duplicate index %q", name), e.Name, "")
		}

		names[name] = struct{}{}
	}
}
