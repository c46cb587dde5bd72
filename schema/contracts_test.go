package schema

import (
	"context"
	"reflect"
)

// base mirrors the shape of the entity runtime contract.
type base interface {
	Get(name string) (any, error)
	Set(name string, value any) error
	Save(ctx context.Context) error
	Load(ctx context.Context, id any) error
	Drop(ctx context.Context) error
	Seal()
	Equals(other any) bool
	HashCode() uint64
	String() string
	EntityClass() reflect.Type
	marker()
}

var baseType = reflect.TypeFor[base]()

type book interface {
	base
	GetID() string
	SetID(string)
	GetTitle() string
	SetTitle(string) book
	GetURL() string
	SetURL(string) error
	GetAuthor() author
	SetAuthor(author) book
	GetChapters() []chapter
	SetChapters([]chapter) book
	AddChapter(chapter) book
	GetSize() int
	SetSize(int) book
	GetGadget() string
	SetGadget(string) base
}

type author interface {
	base
	GetName() string
	SetName(string) author
	GetBooks() []book
	SetBooks([]book) author
	AddBooks(book) author
}

type chapter interface {
	base
	GetId() int
	GetTitle() string
	SetTitle(string)
}

type orphanSetter interface {
	base
	GetBar() string
	SetBar(string)
	SetFoo(string)
}

type orphanAdder interface {
	base
	AddThing(chapter)
}

type caseCollision interface {
	base
	GetURL() string
	SetURL(string)
	GetUrl() string
}

type duplicateSetter interface {
	base
	GetURL() string
	SetURL(string)
	SetUrl(string)
}

type missingAdder interface {
	base
	GetItems() []chapter
	SetItems([]chapter)
}

type missingSetter interface {
	base
	GetName() string
}

type unknownMethod interface {
	base
	Compute() string
}

type hiddenMethod interface {
	base
	hidden()
}

type overrider interface {
	Save() error
}

type plain interface {
	GetName() string
	SetName(string)
}

type getterWithArgs interface {
	base
	GetName(int) string
}

type badSetter interface {
	base
	GetTitle() string
	SetTitle(int)
}

type badSetterResult interface {
	base
	GetTitle() string
	SetTitle(string) int
}

type baseReferrer interface {
	base
	GetParent() base
	SetParent(base)
}

type twoIdentifiers interface {
	base
	GetID() string
	GetSku() string
}

type storageCollision interface {
	base
	GetName() string
	SetName(string)
	GetTitle() string
	SetTitle(string)
}

type product interface {
	base
	GetSku() string
	GetTitle() string
	SetTitle(string)
	GetPrice() float64
	SetPrice(float64)
	GetSummary() string
}

type notAnInterface struct{}
