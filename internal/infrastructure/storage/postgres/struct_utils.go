package postgres

import (
	"reflect"
	"sync"
)

// The repositories build INSERT and UPDATE statements from entity structs:
// column names come from `db` tags, with embedded structs (entity.BaseEntity,
// entity.BaseDocument) flattened into the parent. The tag walk is cached per
// type, so reflection runs once per entity type.

// taggedField records where a db-tagged field lives inside the struct,
// including the path through embedded structs.
type taggedField struct {
	path   []int
	column string
}

type tableShape struct {
	fields []taggedField
}

var shapeCache sync.Map // reflect.Type -> *tableShape

func shapeOf(t reflect.Type) *tableShape {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if cached, ok := shapeCache.Load(t); ok {
		return cached.(*tableShape)
	}

	shape := &tableShape{}
	if t.Kind() == reflect.Struct {
		collectTaggedFields(t, nil, shape)
	}
	shapeCache.Store(t, shape)
	return shape
}

func collectTaggedFields(t reflect.Type, prefix []int, shape *tableShape) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		path := append(append([]int(nil), prefix...), i)

		if field.Anonymous {
			embedded := field.Type
			if embedded.Kind() == reflect.Pointer {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct {
				collectTaggedFields(embedded, path, shape)
			}
			continue
		}

		tag := field.Tag.Get("db")
		if tag == "" || tag == "-" {
			continue
		}
		shape.fields = append(shape.fields, taggedField{path: path, column: tag})
	}
}

// ExtractDBColumns returns the column names declared by T's db tags, in
// declaration order with embedded structs first.
func ExtractDBColumns[T any]() []string {
	var zero T
	shape := shapeOf(reflect.TypeOf(zero))
	cols := make([]string, len(shape.fields))
	for i, f := range shape.fields {
		cols[i] = f.column
	}
	return cols
}

// StructToMap converts an entity to a column -> value map using its db tags.
// Returns nil for non-struct values.
func StructToMap(v any) map[string]any {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}

	shape := shapeOf(rv.Type())
	out := make(map[string]any, len(shape.fields))
	for _, f := range shape.fields {
		out[f.column] = rv.FieldByIndex(f.path).Interface()
	}
	return out
}
