package typepick

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"github.com/jmoiron/sqlx"
)

//
// =====================================================================================
// TYPEPICK – SCANNER BİRİMİ
// -------------------------------------------------------------------------------------
// Bu dosya, SELECT sonuçlarının çağıranın istediği biçime (fetch shape) dönüştürülmesini
// sağlar. Satır okuma ve struct eşleme işini sqlx yapar (MapScan, SliceScan,
// StructScan); burada yalnızca şekiller arasındaki farklar tanımlanır.
//
//   assoc, lazy → map[string]any
//   num         → []any
//   both        → kolon adı ve sıra numarası ("0", "1", ...) anahtarlı map
//   named       → map; aynı isimli kolonlar []any içinde toplanır
//   obj         → *Object (kolon sırası korunur)
//   class       → Into ile verilen tipin her satır için yeni bir örneği
//   into        → Into ile verilen hedefe (struct veya slice) yazılır
//   bound       → ilk satır BindColumns ile verilen hedeflere yazılır
//
// Sürücülerin []byte olarak döndürdüğü metin kolonları map ve slice şekillerinde
// string'e çevrilir.
//
// YAZAR BİLGİSİ
// @author    Ahmet ALTUN
// @github    github.com/biyonik
// @linkedin  linkedin.com/in/biyonik
// @email     ahmet.altun60@gmail.com
// =====================================================================================
//

// FetchShape, SELECT satırlarının hangi biçimde döneceğini belirtir.
type FetchShape string

const (
	FetchAssoc FetchShape = "assoc"
	FetchBoth  FetchShape = "both"
	FetchBound FetchShape = "bound"
	FetchClass FetchShape = "class"
	FetchInto  FetchShape = "into"
	FetchLazy  FetchShape = "lazy"
	FetchNamed FetchShape = "named"
	FetchNum   FetchShape = "num"
	FetchObj   FetchShape = "obj"
)

// DefaultFetchShape, Execute'a şekil verilmediğinde kullanılır.
const DefaultFetchShape = FetchObj

// IsValid, şeklin tanınan dokuz değerden biri olup olmadığını döndürür.
func (s FetchShape) IsValid() bool {
	switch s {
	case FetchAssoc, FetchBoth, FetchBound, FetchClass, FetchInto,
		FetchLazy, FetchNamed, FetchNum, FetchObj:
		return true
	default:
		return false
	}
}

// Target, into, class ve bound şekillerinin yazacağı hedefleri taşır.
type Target struct {
	Into  any   // into için hedef pointer, class için prototip
	Bound []any // bound için kolon başına hedef pointer'lar
}

// validateShape, transaction açılmadan önce şeklin ve hedeflerinin uygunluğunu denetler.
func validateShape(shape FetchShape, kind QueryKind, t Target) error {
	if !shape.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidFetchShape, shape)
	}

	switch shape {
	case FetchClass:
		if t.Into == nil {
			return fmt.Errorf("%w: class requires a prototype set with Into", ErrInvalidFetchShape)
		}
		if _, err := structType(t.Into); err != nil {
			return err
		}
	case FetchInto:
		if t.Into == nil {
			return fmt.Errorf("%w: into requires a destination set with Into", ErrInvalidFetchShape)
		}
		v := reflect.ValueOf(t.Into)
		if v.Kind() != reflect.Ptr || v.IsNil() {
			return ErrInvalidDestination
		}
		if kind == KindSelectMany && v.Elem().Kind() != reflect.Slice {
			return fmt.Errorf("%w: selectAll into requires a pointer to a slice", ErrInvalidDestination)
		}
		if kind != KindSelectMany && !singleRowTarget(v.Elem().Type()) {
			return fmt.Errorf("%w: select into requires a pointer to a struct or scalar, got %s", ErrInvalidDestination, v.Type())
		}
	case FetchBound:
		if len(t.Bound) == 0 {
			return fmt.Errorf("%w: bound requires destinations set with BindColumns", ErrInvalidFetchShape)
		}
		if kind == KindSelectMany {
			return fmt.Errorf("%w: bound only applies to select", ErrInvalidFetchShape)
		}
	}

	return nil
}

// structType, prototipin (veya işaret ettiği değerin) struct tipini döndürür.
func structType(proto any) (reflect.Type, error) {
	t := reflect.TypeOf(proto)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: class prototype must be a struct, got %s", ErrInvalidDestination, t)
	}
	return t, nil
}

// Scanner, satırları fetch şekillerine dönüştüren sözleşmedir.
type Scanner interface {
	// ScanOne, ilk satırı şekillendirir. Satır yoksa nil döner.
	ScanOne(rows Rows, shape FetchShape, t Target) (any, error)

	// ScanAll, tüm satırları şekillendirir.
	ScanAll(rows Rows, shape FetchShape, t Target) ([]any, error)
}

// DefaultScanner, kütüphanenin standart tarayıcısıdır.
type DefaultScanner struct{}

// NewDefaultScanner, varsayılan tarayıcıyı oluşturur.
func NewDefaultScanner() *DefaultScanner {
	return &DefaultScanner{}
}

// ScanOne, ilk satırı okur; into ve bound şekillerinde hedefe yazar ve nil döner.
func (s *DefaultScanner) ScanOne(rows Rows, shape FetchShape, t Target) (any, error) {
	if !rows.Next() {
		return nil, rows.Err()
	}

	switch shape {
	case FetchBound:
		return nil, rows.Scan(t.Bound...)
	case FetchInto:
		if scannable(reflect.TypeOf(t.Into).Elem()) {
			return nil, rows.Scan(t.Into)
		}
		return nil, rows.StructScan(t.Into)
	default:
		return s.shapeRow(rows, shape, t)
	}
}

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

// scannable, tipin tek bir kolona doğrudan okunup okunamayacağını döndürür:
// sql.Scanner uygulayanlar, struct olmayanlar ve dışa açık alanı olmayan
// struct'lar (time.Time gibi). Diğer struct'lar StructScan ile okunur.
func scannable(t reflect.Type) bool {
	if reflect.PointerTo(t).Implements(scannerType) {
		return true
	}
	if t.Kind() != reflect.Struct {
		return true
	}
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return false
		}
	}
	return true
}

var bytesType = reflect.TypeOf([]byte(nil))

// singleRowTarget, tek satırlık into hedefinin tipini denetler. Koleksiyonlar
// yalnızca []byte veya sql.Scanner ise kabul edilir.
func singleRowTarget(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan, reflect.Func:
		return t == bytesType || reflect.PointerTo(t).Implements(scannerType)
	default:
		return true
	}
}

// ScanAll, tüm satırları okur. into şeklinde satırlar hedef slice'a eklenir ve nil döner.
func (s *DefaultScanner) ScanAll(rows Rows, shape FetchShape, t Target) ([]any, error) {
	if shape == FetchInto {
		return nil, sqlx.StructScan(rows, t.Into)
	}

	out := make([]any, 0)
	for rows.Next() {
		row, err := s.shapeRow(rows, shape, t)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// shapeRow, imlecin bulunduğu satırı şekillendirir.
func (s *DefaultScanner) shapeRow(rows Rows, shape FetchShape, t Target) (any, error) {
	switch shape {
	case FetchAssoc, FetchLazy:
		m := make(map[string]any)
		if err := rows.MapScan(m); err != nil {
			return nil, err
		}
		for k, v := range m {
			m[k] = normalize(v)
		}
		return m, nil

	case FetchNum:
		vals, err := rows.SliceScan()
		if err != nil {
			return nil, err
		}
		return normalizeAll(vals), nil

	case FetchBoth:
		cols, vals, err := columnsAndValues(rows)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols)*2)
		for i, col := range cols {
			m[col] = vals[i]
			m[strconv.Itoa(i)] = vals[i]
		}
		return m, nil

	case FetchNamed:
		cols, vals, err := columnsAndValues(rows)
		if err != nil {
			return nil, err
		}
		m := make(map[string]any, len(cols))
		seen := make(map[string]int, len(cols))
		for i, col := range cols {
			seen[col]++
			switch seen[col] {
			case 1:
				m[col] = vals[i]
			case 2:
				m[col] = []any{m[col], vals[i]}
			default:
				m[col] = append(m[col].([]any), vals[i])
			}
		}
		return m, nil

	case FetchObj:
		cols, vals, err := columnsAndValues(rows)
		if err != nil {
			return nil, err
		}
		return newObject(cols, vals), nil

	case FetchClass:
		typ, err := structType(t.Into)
		if err != nil {
			return nil, err
		}
		dest := reflect.New(typ).Interface()
		if err := rows.StructScan(dest); err != nil {
			return nil, err
		}
		return dest, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidFetchShape, shape)
	}
}

func columnsAndValues(rows Rows) ([]string, []any, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}
	vals, err := rows.SliceScan()
	if err != nil {
		return nil, nil, err
	}
	return cols, normalizeAll(vals), nil
}

func normalize(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func normalizeAll(vals []any) []any {
	for i, v := range vals {
		vals[i] = normalize(v)
	}
	return vals
}

// ----------------------------------------------------------------------------
// Object
// ----------------------------------------------------------------------------

// Object, "obj" şeklinin satır temsilidir. Kolon sırası sorgudaki sırayla aynıdır;
// aynı isimli kolonlarda sonuncusu geçerlidir.
type Object struct {
	columns []string
	values  map[string]any
}

func newObject(cols []string, vals []any) *Object {
	o := &Object{
		columns: make([]string, 0, len(cols)),
		values:  make(map[string]any, len(cols)),
	}
	for i, col := range cols {
		if _, ok := o.values[col]; !ok {
			o.columns = append(o.columns, col)
		}
		o.values[col] = vals[i]
	}
	return o
}

// Get, kolonun değerini döndürür; kolon yoksa nil.
func (o *Object) Get(column string) any {
	return o.values[column]
}

// Has, kolonun satırda bulunup bulunmadığını döndürür.
func (o *Object) Has(column string) bool {
	_, ok := o.values[column]
	return ok
}

// Columns, kolon adlarını sırasıyla döndürür.
func (o *Object) Columns() []string {
	return append([]string(nil), o.columns...)
}

// Map, satırın map kopyasını döndürür.
func (o *Object) Map() map[string]any {
	m := make(map[string]any, len(o.values))
	for k, v := range o.values {
		m[k] = v
	}
	return m
}

// MarshalJSON, satırı kolon sırasını koruyarak JSON nesnesine çevirir.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(o.values[col])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
