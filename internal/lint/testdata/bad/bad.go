// Package bad declares contracts that break the accessor conventions.
package bad

import "docmapper/entity"

type Clean interface {
	entity.Entity

	GetID() string
	SetID(string) Clean

	GetName() string
	SetName(string) Clean
}

type Part interface {
	entity.Entity

	GetID() int64
	SetID(int64) Part
}

type Broken interface {
	entity.Entity

	GetName() string

	GetTitle(lang string) string

	GetColor() string
	SetColor(int) Broken
	SetColour(string) Broken

	GetParts() []Part
	SetParts([]Part) Broken
	AddWidget(Part) Broken

	GetAny() entity.Entity

	GetCallback() func()
	SetCallback(func()) Broken

	Frobnicate()
}

type Twins interface {
	entity.Entity

	GetID() string
	SetID(string) Twins

	GetURL() string
	SetURL(string) Twins
	GetUrl() string
	SetUrl(string) Twins
}

// Plain is not an entity contract and is never linted.
type Plain interface {
	Frobnicate()
}
