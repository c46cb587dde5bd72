// Package diagnostic collects structured findings produced while checking
// entity contracts and metadata files.
//
// Findings carry a stable code, the contract they concern and, when known,
// the accessor method, so the lint and meta commands can print them the same
// way and tests can match them by code.
package diagnostic
