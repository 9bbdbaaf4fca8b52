package codable_test

import (
	"time"

	"github.com/reoring/codable"
)

// Fruit is a string-backed enum.
type Fruit string

const (
	Apple  Fruit = "apple"
	Banana Fruit = "banana"
	Orange Fruit = "orange"
)

func (Fruit) EnumCases() []codable.Enum { return []codable.Enum{Apple, Banana, Orange} }

func (f Fruit) CaseName() string {
	switch f {
	case Apple:
		return "Apple"
	case Banana:
		return "Banana"
	case Orange:
		return "Orange"
	}
	return ""
}

func (f Fruit) BackingValue() any { return string(f) }

// Vegetable is a plain enum matched by case name.
type Vegetable int

const (
	Tomato Vegetable = iota
	Cucumber
	Lettuce
)

func (Vegetable) EnumCases() []codable.Enum { return []codable.Enum{Tomato, Cucumber, Lettuce} }

func (v Vegetable) CaseName() string {
	return [...]string{"Tomato", "Cucumber", "Lettuce"}[v]
}

// Priority is an int-backed enum.
type Priority int

const (
	Low  Priority = 1
	High Priority = 10
)

func (Priority) EnumCases() []codable.Enum { return []codable.Enum{Low, High} }

func (p Priority) CaseName() string {
	if p == High {
		return "High"
	}
	return "Low"
}

func (p Priority) BackingValue() any { return int(p) }

type Address struct {
	Street  string `codable:"street"`
	Country string `codable:"country"`
}

type Person struct {
	FirstName          string      `codable:"firstName"`
	LastName           string      `codable:"surname"`
	BirthDate          time.Time   `codable:"birthDate,format=2006-01-02"`
	Address            Address     `codable:"address"`
	FavoriteFruit      Fruit       `codable:"favoriteFruit"`
	DislikedVegetables []Vegetable `codable:"dislikedVegetables,ignore=encode"`
	Nickname           *string     `json:"nickname"`
	Internal           string      `codable:"-"`
}

type FruitSalad struct {
	Author string  `codable:"author,modes=store"`
	Fruits []Fruit `codable:"fruits"`
}

// FruitBasket encodes and decodes itself.
type FruitBasket struct {
	Fruits []Fruit
}

func (b FruitBasket) EncodeCodable(c *codable.EncodingContainer) error {
	return c.Field("fruits").EncodeArray(b.Fruits)
}

func (b *FruitBasket) DecodeCodable(c *codable.DecodingContainer) error {
	fruits, err := codable.DecodeSliceOf[Fruit](c.Field("fruits"))
	if err != nil {
		return err
	}
	b.Fruits = fruits
	return nil
}

// Money decodes itself from "<amount> <currency>" strings.
type Money struct {
	Amount   int64
	Currency string
	Source   string
}

func (m *Money) DecodeCodable(c *codable.DecodingContainer) error {
	amount, err := c.Field("amount").DecodeInt()
	if err != nil {
		return err
	}
	cur, err := c.Field("currency").DecodeString()
	if err != nil {
		return err
	}
	*m = Money{Amount: amount, Currency: cur, Source: "decodable"}
	return nil
}

func ptr[T any](v T) *T { return &v }

func object(kv ...any) map[string]any {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}
