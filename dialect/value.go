package dialect

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Kind, Value'nun taşıdığı tipin etiketidir.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
)

// String, etiketin adını döndürür.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	default:
		return "unknown"
	}
}

// Value, koşul ve veri değerleri için etiketli bir varyanttır:
// null | bool | int | float | string | skalerlerden oluşan liste.
//
// Sıfır değeri NULL'dur.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	list []Value
}

// Null bir NULL değer döndürür.
func Null() Value { return Value{} }

// Bool bir boolean değer oluşturur.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// Int bir tamsayı değer oluşturur.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// Float bir ondalıklı değer oluşturur.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// String bir metin değer oluşturur.
func String(v string) Value { return Value{kind: KindString, s: v} }

// List, skaler değerlerden bir liste oluşturur.
func List(vs ...Value) Value {
	return Value{kind: KindList, list: append([]Value(nil), vs...)}
}

// ValueOf, Go değerini etiketli Value'ya çevirir.
//
// Desteklenen tipler: nil, Value, bool, tüm int/uint genişlikleri, float32/64, string,
// []byte (metin olarak), bunlara işaret eden pointer'lar ve bu skalerlerden oluşan slice'lar.
func ValueOf(v any) (Value, error) {
	return valueOf(v, true)
}

func valueOf(v any, allowList bool) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		if x.kind == KindList && !allowList {
			return Value{}, fmt.Errorf("nested list is not supported")
		}
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return uintValue(uint64(x))
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		return uintValue(x)
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []byte:
		return String(string(x)), nil
	}

	// named types such as `type Status string`
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return uintValue(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return Float(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Pointer:
		if rv.IsNil() {
			return Null(), nil
		}
		return valueOf(rv.Elem().Interface(), allowList)
	case reflect.Slice, reflect.Array:
		if !allowList {
			return Value{}, fmt.Errorf("nested list is not supported")
		}
		items := make([]Value, rv.Len())
		for i := range items {
			item, err := valueOf(rv.Index(i).Interface(), false)
			if err != nil {
				return Value{}, err
			}
			items[i] = item
		}
		return Value{kind: KindList, list: items}, nil
	}

	return Value{}, fmt.Errorf("unsupported value type %T", v)
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("unsigned value %d overflows int64", u)
	}
	return Int(int64(u)), nil
}

// Kind, değerin etiketini döndürür.
func (v Value) Kind() Kind { return v.kind }

// IsNull, değerin NULL olup olmadığını döndürür.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Items, liste elemanlarını döndürür; liste değilse nil döner.
func (v Value) Items() []Value {
	if v.kind != KindList {
		return nil
	}
	return append([]Value(nil), v.list...)
}

// Flatten, listeyi elemanların ", " ile birleştirildiği bir metne çevirir.
// Liste olmayan değerler olduğu gibi döner.
func (v Value) Flatten() Value {
	if v.kind != KindList {
		return v
	}

	parts := make([]string, len(v.list))
	for i, item := range v.list {
		parts[i] = item.text()
	}
	return String(strings.Join(parts, ", "))
}

// Any, sürücüye gönderilecek değeri döndürür: bool, int64, float64, string veya nil.
// Listeler önce düzleştirilir.
func (v Value) Any() any {
	switch v.kind {
	case KindNull:
		return nil
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindList:
		return v.Flatten().s
	default:
		return nil
	}
}

// String, değerin okunabilir gösterimini döndürür.
func (v Value) String() string {
	if v.kind == KindNull {
		return "NULL"
	}
	if v.kind == KindList {
		return "[" + v.Flatten().s + "]"
	}
	return v.text()
}

// text, değerin liste birleştirmede kullanılan metin karşılığıdır.
func (v Value) text() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "1"
		}
		return ""
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'f', -1, 64)
	case KindString:
		return v.s
	default:
		return ""
	}
}
