package codable

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"
)

// property describes one struct field taking part in decoding or encoding.
//
// Fields are configured with the codable tag:
//
//	Surname   string    `codable:"surname"`
//	BirthDate time.Time `codable:"birthDate,format=2006-01-02,tz=Europe/Amsterdam"`
//	Author    string    `codable:"author,modes=store|export"`
//	Secret    string    `codable:"-"`
//	Draft     bool      `codable:"draft,ignore=encode,optional"`
//
// Without a name the json tag name is used, then the field name.
type property struct {
	name       string
	index      []int
	typ        reflect.Type
	skipDecode bool
	skipEncode bool
	optional   bool
	modes      []string
	format     string
	location   *time.Location
}

func (p property) inMode(mode string) bool {
	return mode == "" || len(p.modes) == 0 || slices.Contains(p.modes, mode)
}

type propertiesEntry struct {
	props []property
	err   error
}

var propertyCache sync.Map // reflect.Type -> propertiesEntry

func structProperties(t reflect.Type) ([]property, error) {
	if e, ok := propertyCache.Load(t); ok {
		pe := e.(propertiesEntry)
		return pe.props, pe.err
	}
	var props []property
	err := collectProperties(t, nil, &props)
	e, _ := propertyCache.LoadOrStore(t, propertiesEntry{props: props, err: err})
	pe := e.(propertiesEntry)
	return pe.props, pe.err
}

func collectProperties(t reflect.Type, index []int, out *[]property) error {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		idx := append(append([]int(nil), index...), i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct && sf.Tag.Get("codable") == "" && sf.Tag.Get("json") == "" {
			if err := collectProperties(sf.Type, idx, out); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		p, ok, err := parseProperty(sf)
		if err != nil {
			return fmt.Errorf("codable: field %s.%s: %w", t, sf.Name, err)
		}
		if !ok {
			continue
		}
		p.index = idx
		*out = append(*out, p)
	}
	return nil
}

// parseProperty reads the codable tag; ok is false for ignored fields.
func parseProperty(sf reflect.StructField) (property, bool, error) {
	p := property{name: propertyName(sf), typ: sf.Type}
	if p.name == "-" {
		return p, false, nil
	}
	tag := sf.Tag.Get("codable")
	if tag == "" {
		return p, true, nil
	}
	for i, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		key, val, hasVal := strings.Cut(part, "=")
		switch {
		case i == 0 && !hasVal:
			// name, already resolved
		case key == "name":
		case key == "optional":
			p.optional = true
		case key == "ignore":
			switch val {
			case "decode":
				p.skipDecode = true
			case "encode":
				p.skipEncode = true
			default:
				return p, false, fmt.Errorf("unknown ignore direction %q", val)
			}
		case key == "modes":
			p.modes = strings.Split(val, "|")
		case key == "format":
			p.format = val
		case key == "tz":
			loc, err := time.LoadLocation(val)
			if err != nil {
				return p, false, err
			}
			p.location = loc
		default:
			return p, false, fmt.Errorf("unknown tag option %q", part)
		}
	}
	return p, true, nil
}

// propertyName resolves a field's external name.
// Priority: codable tag name > json tag name > field name; "-" disables the
// field.
func propertyName(sf reflect.StructField) string {
	if ct := sf.Tag.Get("codable"); ct != "" {
		first, _, _ := strings.Cut(ct, ",")
		first = strings.TrimSpace(first)
		if first != "" && !strings.Contains(first, "=") {
			return first
		}
		for _, part := range strings.Split(ct, ",") {
			if name, ok := strings.CutPrefix(strings.TrimSpace(part), "name="); ok {
				return name
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if name, _, _ := strings.Cut(jt, ","); name != "" {
			return name
		}
	}
	return sf.Name
}

func nullable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return true
	}
	return false
}

var timePtrType = reflect.TypeFor[*time.Time]()

// decodeProperties fills the addressable struct rv from the mapping node.
// Nullable and optional fields tolerate an absent or null property; absent
// properties leave the field untouched.
func (c *DecodingContainer) decodeProperties(rv reflect.Value) error {
	props, err := structProperties(rv.Type())
	if err != nil {
		return err
	}
	for _, p := range props {
		if p.skipDecode {
			continue
		}
		pc := c.NestedContainer(StringKey(p.name))
		fv := rv.FieldByIndex(p.index)
		if !pc.IsPresent() && (p.optional || nullable(p.typ)) {
			if pc.Exists() && nullable(p.typ) {
				fv.Set(reflect.Zero(p.typ))
			}
			continue
		}
		v, err := pc.decodeProperty(p, fv)
		if err != nil {
			return err
		}
		fv.Set(v)
	}
	return nil
}

func (c *DecodingContainer) decodeProperty(p property, fv reflect.Value) (reflect.Value, error) {
	custom := p.format != "" || p.location != nil
	switch {
	case custom && p.typ == timeType && !c.hasDecoder(timeType):
		t, err := c.DecodeDateTime(WithFormat(p.format), WithLocation(p.location))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(t), nil
	case custom && p.typ == timePtrType && !c.hasDecoder(timeType):
		t, err := c.DecodeDateTime(WithFormat(p.format), WithLocation(p.location))
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(&t), nil
	}
	return c.decodeReflect(p.typ, fv.Addr())
}

// encodeProperties writes every eligible field of the struct rv into c.
func (c *EncodingContainer) encodeProperties(rv reflect.Value) error {
	props, err := structProperties(rv.Type())
	if err != nil {
		return encodingFailure(c.Path(), rv.Type(), err)
	}
	c.become(shapeMapping)
	mode := c.ctx.Mode()
	for _, p := range props {
		if p.skipEncode || !p.inMode(mode) {
			continue
		}
		pc := c.NestedContainer(StringKey(p.name))
		if err := pc.encodeProperty(p, rv.FieldByIndex(p.index)); err != nil {
			return err
		}
	}
	return nil
}

func (c *EncodingContainer) encodeProperty(p property, fv reflect.Value) error {
	if _, ok := c.ctx.encodeDelegate(timeType); !ok {
		switch p.typ {
		case timeType:
			t := fv.Interface().(time.Time)
			return c.EncodeDateTime(&t, WithFormat(p.format), WithLocation(p.location))
		case timePtrType:
			return c.EncodeDateTime(fv.Interface().(*time.Time), WithFormat(p.format), WithLocation(p.location))
		}
	}
	return c.Encode(fv.Interface())
}
