// Package dialect, builder durumunu isimli parametreli SQL cümlelerine ve bunlarla
// birebir eşleşen parametre haritalarına çeviren dilbilgisi (grammar) katmanıdır.
//
// Bu paket, ana paket ile import döngüsüne girmemek için builder'ı yalnızca
// QueryBuilder arayüzü üzerinden okur.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package dialect

import (
	"github.com/biyonik/go-typepick/crypt"
)

// ----------------------------------------------------------------------------
// QueryBuilder Interface (import döngüsünü kırmak için)
// ----------------------------------------------------------------------------

// QueryBuilder, Grammar implementasyonlarının ihtiyaç duyduğu arayüzü tanımlar.
// Bu arayüz, ana paket ile dialect paketi arasındaki import döngüsünü kırmak için kullanılır.
type QueryBuilder interface {
	GetTable() string
	GetKind() QueryKind
	GetColumns() []string
	GetInsertData() Data
	GetUpdateData() Data
	GetWheres() []Predicate
	GetOrders() []OrderClause
	GetLimit() *int
	GetOffset() *int
	GetEncryption() map[string]crypt.Transform
	GetDecryption() map[string]crypt.Transform
}

// ----------------------------------------------------------------------------
// Grammar Interface
// ----------------------------------------------------------------------------

// Grammar, builder durumunu veritabanına özgü SQL ifadelerine çevirir.
type Grammar interface {
	// Name, gramerin kimliğini döndürür (örn. "mysql").
	Name() string

	// Wrap, bir sütun adını doğrular ve SQL'e yazılacak biçimini döndürür.
	Wrap(identifier string) (string, error)

	// WrapTable, tablo adını doğrular ve alias yönetir.
	WrapTable(table string) (string, error)

	// Placeholder, kolon ve geçiş sırası için isimli parametreyi döndürür.
	// occurrence 0 ise sayaç eklenmez (":email"), aksi halde eklenir (":email2").
	Placeholder(column string, occurrence int) string

	// Rewriter, şifreleme ifadelerini üreten yardımcıyı döndürür.
	Rewriter() *crypt.Rewriter

	// Compile, builder'ın sorgu türüne göre ilgili derleyiciyi çağırır.
	Compile(b QueryBuilder) (string, error)

	// CompileSelect, SELECT sorgusunu derler (Select, SelectMany ve Count için).
	CompileSelect(b QueryBuilder) (string, error)

	// CompileInsert, INSERT sorgusunu derler.
	CompileInsert(b QueryBuilder) (string, error)

	// CompileUpdate, UPDATE sorgusunu derler.
	CompileUpdate(b QueryBuilder) (string, error)

	// CompileDelete, DELETE sorgusunu derler.
	CompileDelete(b QueryBuilder) (string, error)

	// CompileBindings, derlenen sorgudaki parametrelerle birebir eşleşen değer haritasını üretir.
	CompileBindings(b QueryBuilder) Bindings
}

// ----------------------------------------------------------------------------
// Base Grammar (ortak fonksiyonlar)
// ----------------------------------------------------------------------------

// BaseGrammar, tüm gramer implementasyonları için ortak fonksiyonellik sağlar.
type BaseGrammar struct {
	name     string
	rewriter *crypt.Rewriter
}

// Name, gramerin adını döndürür.
func (g *BaseGrammar) Name() string {
	return g.name
}

// Rewriter, gramerin şifreleme ifadesi üreticisini döndürür.
func (g *BaseGrammar) Rewriter() *crypt.Rewriter {
	return g.rewriter
}

// ----------------------------------------------------------------------------
// Query Kind
// ----------------------------------------------------------------------------

// QueryKind, builder'ın hangi işlemi hazırladığını belirtir.
type QueryKind int

const (
	KindNone QueryKind = iota
	KindSelect
	KindSelectMany
	KindCount
	KindInsert
	KindUpdate
	KindDelete
)

// String, QueryKind'ın string temsilini döndürür.
func (k QueryKind) String() string {
	names := [...]string{"", "select", "selectAll", "count", "insert", "update", "delete"}
	if k >= 0 && int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// IsValid, türün derlenebilir bir sorgu türü olup olmadığını döndürür.
func (k QueryKind) IsValid() bool {
	return k >= KindSelect && k <= KindDelete
}

// ----------------------------------------------------------------------------
// WHERE Types
// ----------------------------------------------------------------------------

// Connective, bir koşulun kendinden önceki koşullarla nasıl birleştiğini belirtir.
type Connective string

const (
	And Connective = "AND"
	Or  Connective = "OR"
)

// String, SQL için bağlaç kelimesini döndürür. Boş bağlaç AND kabul edilir.
func (c Connective) String() string {
	if c == "" {
		return string(And)
	}
	return string(c)
}

// Predicate, tek bir WHERE koşulunu temsil eder.
//
// Column boş ise koşul yalnızca bir bağlaçtır; derleme ve parametre üretimi sırasında atlanır.
type Predicate struct {
	Column     string
	Operator   string // büyük harfe normalize edilmiş
	Value      Value
	Connective Connective
}

// IsConnectiveOnly, koşulun yalnızca bir bağlaçtan ibaret olup olmadığını döndürür.
func (p Predicate) IsConnectiveOnly() bool {
	return p.Column == ""
}

// ----------------------------------------------------------------------------
// ORDER BY Types
// ----------------------------------------------------------------------------

// OrderDirection, sıralama yönünü belirtir.
type OrderDirection string

const (
	OrderNone OrderDirection = ""
	OrderAsc  OrderDirection = "ASC"
	OrderDesc OrderDirection = "DESC"
)

// OrderClause, ORDER BY ifadesinin bir girdisidir.
// Direction boşsa kolon olduğu gibi yazılır.
type OrderClause struct {
	Column    string
	Direction OrderDirection
}

// ----------------------------------------------------------------------------
// INSERT / UPDATE Data
// ----------------------------------------------------------------------------

// Field, bir kolon ile değerini eşler.
type Field struct {
	Column string
	Value  Value
}

// Data, ekleme sırasını koruyan kolon → değer haritasıdır.
type Data []Field

// Set, kolon zaten varsa değerini yerinde günceller, yoksa sona ekler.
func (d Data) Set(column string, v Value) Data {
	for i := range d {
		if d[i].Column == column {
			d[i].Value = v
			return d
		}
	}
	return append(d, Field{Column: column, Value: v})
}

// Columns, kolon adlarını ekleme sırasıyla döndürür.
func (d Data) Columns() []string {
	cols := make([]string, len(d))
	for i, f := range d {
		cols[i] = f.Column
	}
	return cols
}

// ----------------------------------------------------------------------------
// Sentinel Errors (dialect-specific)
// ----------------------------------------------------------------------------

// Dialect implementasyonları için ortak hatalar.
// Ana paket ile import döngüsünü önlemek için burada tanımlanmıştır.
var (
	ErrNoTable              = &DialectError{Message: "no table specified"}
	ErrNoColumns            = &DialectError{Message: "no columns specified"}
	ErrPlaceholderCollision = &DialectError{Message: "placeholder used twice in one statement"}
	ErrUnknownKind          = &DialectError{Message: "no compiler for query kind"}
)

// DialectError, dialect'e özgü hataları temsil eder.
type DialectError struct {
	Message string
}

// Error, hatayı string olarak döndürür.
func (e *DialectError) Error() string {
	return "typepick: " + e.Message
}
