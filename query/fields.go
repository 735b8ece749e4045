package query

import (
	"reflect"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Kind is the stored type of a filterable field.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBool
	KindObjectID
	KindTime
	// KindHidden marks fields that are never serialized and can not be
	// filtered on.
	KindHidden
)

// Fields maps store paths ("location.zipcode") to their kind.
type Fields map[string]Kind

var (
	objectIDType = reflect.TypeOf(bson.ObjectID{})
	timeType     = reflect.TypeOf(time.Time{})
)

// FieldsOf reads the bson tags of T. Nested structs contribute dotted
// paths and slices take the kind of their elements.
func FieldsOf[T any]() Fields {
	f := Fields{}
	f.collect("", reflect.TypeOf((*T)(nil)).Elem())
	return f
}

func (f Fields) collect(prefix string, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, _, _ := strings.Cut(sf.Tag.Get("bson"), ",")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(sf.Name)
		}
		path := prefix + name

		if jsonName, _, _ := strings.Cut(sf.Tag.Get("json"), ","); jsonName == "-" {
			f[path] = KindHidden
			continue
		}

		ft := sf.Type
		for ft.Kind() == reflect.Pointer || (ft.Kind() == reflect.Slice && ft.Elem().Kind() != reflect.Uint8) {
			ft = ft.Elem()
		}
		switch {
		case ft == objectIDType:
			f[path] = KindObjectID
		case ft == timeType:
			f[path] = KindTime
		case ft.Kind() == reflect.Struct:
			f.collect(path+".", ft)
		case ft.Kind() == reflect.String:
			f[path] = KindString
		case ft.Kind() == reflect.Bool:
			f[path] = KindBool
		case ft.Kind() >= reflect.Int && ft.Kind() <= reflect.Float64:
			f[path] = KindNumber
		}
	}
}
