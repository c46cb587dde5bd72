// Package metadata holds the declarative markers that shape an entity schema.
//
// Markers are attached per getter (identifier, rename, read-only, validation
// constraints, computed value) and per contract (collection rename, indexes).
// They come from a Source: a programmatic Map keyed by contract type, a YAML
// File, or a Chain merging several of them.
//
// Example YAML:
//
//	version: "1"
//	contracts:
//	  - contract: shop.Order
//	    named: purchases
//	    indexes:
//	      - fields: [customer, {field: total, order: desc}]
//	    accessors:
//	      GetNumber: {id: true}
//	      GetTotal: {constraints: ["gte=0"]}
package metadata
