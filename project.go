package shroud

import (
	"encoding/xml"
	"fmt"
	"reflect"
)

var xmlNameType = reflect.TypeFor[xml.Name]()

// projection mirrors a struct type with sensitive fields widened to any,
// so a masked string can stand in for a value of any type.
type projection struct {
	typ    reflect.Type
	fields []projectedField
}

type nestShape int

const (
	nestNone nestShape = iota
	nestStruct
	nestPointer
	nestSlice
	nestSlicePointer
)

type projectedField struct {
	src       []int
	dst       int
	name      string
	sensitive bool
	desc      Descriptor
	shape     nestShape
	nested    *projection
}

// sendStats counts field decisions made during one projection.
type sendStats struct {
	masked   int
	revealed int
}

// projector builds projections for one index, detecting recursive types.
type projector struct {
	index    *Index
	building map[reflect.Type]bool
	built    map[reflect.Type]*projection
}

func newProjector(idx *Index) *projector {
	return &projector{
		index:    idx,
		building: make(map[reflect.Type]bool),
		built:    make(map[reflect.Type]*projection),
	}
}

// buildRoot builds the projection for the top-level type, naming the XML root
// after the source type when it does not declare XMLName itself.
func (pj *projector) buildRoot(t reflect.Type) (*projection, error) {
	return pj.build(t, true)
}

func (pj *projector) build(t reflect.Type, root bool) (*projection, error) {
	if p, ok := pj.built[t]; ok && !root {
		return p, nil
	}
	pj.building[t] = true
	defer delete(pj.building, t)

	sensitive := make(map[string]Field)
	fields, err := pj.index.Lookup(t)
	if err != nil {
		return nil, err
	}
	for _, f := range fields {
		sensitive[fieldKey(f.Index)] = f
	}

	p := &projection{}
	var structFields []reflect.StructField
	hasXMLName := false

	for _, sf := range reflect.VisibleFields(t) {
		// Fields promoted from a sensitive embedded struct are masked with it.
		if !sf.IsExported() || coveredBy(fields, sf.Index) {
			continue
		}
		if _, ok := sensitive[fieldKey(sf.Index)]; !ok && sf.Anonymous && isStructLike(sf.Type) {
			continue
		}
		if sf.Name == "XMLName" {
			hasXMLName = true
		}

		pf := projectedField{
			src:  sf.Index,
			dst:  len(structFields),
			name: sf.Name,
		}
		out := reflect.StructField{Name: sf.Name, Type: sf.Type, Tag: sf.Tag}

		if f, ok := sensitive[fieldKey(sf.Index)]; ok {
			pf.sensitive = true
			pf.desc = f.Descriptor
			out.Type = reflect.TypeFor[any]()
		} else {
			shape, elem := nestedShape(sf.Type)
			if shape != nestNone && pj.containsSensitive(elem, map[reflect.Type]bool{}) {
				if pj.building[elem] {
					return nil, newConfigError(ErrUnsupportedType, t.Name(), sf.Name, "recursive type with sensitive fields")
				}
				nested, err := pj.build(elem, false)
				if err != nil {
					return nil, err
				}
				pf.shape = shape
				pf.nested = nested
				out.Type = shapeType(shape, nested.typ)
			} else if pj.containsSensitive(sf.Type, map[reflect.Type]bool{}) {
				// Arrays, maps and deeper nesting cannot be rewritten.
				return nil, newConfigError(ErrUnsupportedType, t.Name(), sf.Name, sf.Type.String())
			}
		}

		p.fields = append(p.fields, pf)
		structFields = append(structFields, out)
	}

	if root && !hasXMLName {
		structFields = append(structFields, reflect.StructField{
			Name: "XMLName",
			Type: xmlNameType,
			Tag:  reflect.StructTag(fmt.Sprintf(`json:"-" yaml:"-" msgpack:"-" bson:"-" xml:"%s"`, xmlRootName(t))),
		})
	}

	p.typ = reflect.StructOf(structFields)
	if !root {
		pj.built[t] = p
	}
	return p, nil
}

// containsSensitive reports whether t, or any struct reachable through its
// fields, has sensitive fields.
func (pj *projector) containsSensitive(t reflect.Type, visited map[reflect.Type]bool) bool {
	for t.Kind() == reflect.Pointer || t.Kind() == reflect.Slice || t.Kind() == reflect.Array || t.Kind() == reflect.Map {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || visited[t] {
		return false
	}
	visited[t] = true
	if pj.index.HasSensitive(t) {
		return true
	}
	for _, sf := range reflect.VisibleFields(t) {
		if sf.IsExported() && pj.containsSensitive(sf.Type, visited) {
			return true
		}
	}
	return false
}

func nestedShape(t reflect.Type) (nestShape, reflect.Type) {
	switch {
	case t.Kind() == reflect.Struct:
		return nestStruct, t
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return nestPointer, t.Elem()
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Struct:
		return nestSlice, t.Elem()
	case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Pointer && t.Elem().Elem().Kind() == reflect.Struct:
		return nestSlicePointer, t.Elem().Elem()
	}
	return nestNone, nil
}

func shapeType(shape nestShape, t reflect.Type) reflect.Type {
	switch shape {
	case nestPointer:
		return reflect.PointerTo(t)
	case nestSlice:
		return reflect.SliceOf(t)
	case nestSlicePointer:
		return reflect.SliceOf(reflect.PointerTo(t))
	}
	return t
}

func fieldKey(index []int) string {
	return fmt.Sprint(index)
}

func xmlRootName(t reflect.Type) string {
	if t.Name() != "" {
		return t.Name()
	}
	return "value"
}

// project copies src into a new value of the projection type, redacting
// sensitive fields for principal. src is never modified.
func (p *projection) project(principal Principal, src reflect.Value, stats *sendStats) reflect.Value {
	dst := reflect.New(p.typ).Elem()
	for _, f := range p.fields {
		fv, err := src.FieldByIndexErr(f.src)
		if err != nil || !fv.CanInterface() {
			// Promoted through a nil embedded pointer.
			continue
		}
		out := dst.Field(f.dst)

		switch {
		case f.sensitive:
			v, masked := redactField(principal, fv.Interface(), f.desc)
			if v == nil {
				continue
			}
			if masked {
				stats.masked++
			} else {
				stats.revealed++
			}
			out.Set(reflect.ValueOf(v))
		case f.nested != nil:
			f.projectNested(principal, fv, out, stats)
		default:
			out.Set(fv)
		}
	}
	return dst
}

func (f projectedField) projectNested(principal Principal, fv, out reflect.Value, stats *sendStats) {
	switch f.shape {
	case nestStruct:
		out.Set(f.nested.project(principal, fv, stats))
	case nestPointer:
		if fv.IsNil() {
			return
		}
		ptr := reflect.New(f.nested.typ)
		ptr.Elem().Set(f.nested.project(principal, fv.Elem(), stats))
		out.Set(ptr)
	case nestSlice, nestSlicePointer:
		if fv.IsNil() {
			return
		}
		s := reflect.MakeSlice(out.Type(), fv.Len(), fv.Len())
		for i := 0; i < fv.Len(); i++ {
			elem := fv.Index(i)
			if f.shape == nestSlice {
				s.Index(i).Set(f.nested.project(principal, elem, stats))
				continue
			}
			if elem.IsNil() {
				continue
			}
			ptr := reflect.New(f.nested.typ)
			ptr.Elem().Set(f.nested.project(principal, elem.Elem(), stats))
			s.Index(i).Set(ptr)
		}
		out.Set(s)
	}
}
