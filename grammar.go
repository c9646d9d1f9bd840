package typepick

import (
	"github.com/biyonik/go-typepick/crypt"
	"github.com/biyonik/go-typepick/dialect"
)

/*
=======================================================================================================================
 GRAMMAR, dialect ve crypt paketlerindeki tiplerin ana paketten kullanılabilmesi için
 yeniden dışa aktarıldığı yerdir.

 Builder durumu dialect tipleriyle tutulur; böylece MySQLGrammar, builder'ı QueryBuilder
 arayüzü üzerinden doğrudan okuyabilir ve import döngüsü oluşmaz. Çağıranın ise
 çoğu zaman yalnızca typepick paketini import etmesi yeterlidir.

 @author    Ahmet ALTUN
 @github    github.com/biyonik
 @linkedin  linkedin.com/in/biyonik
 @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

// Grammar, builder durumunu SQL'e çeviren dilbilgisi arayüzüdür.
type Grammar = dialect.Grammar

// QueryKind, builder'ın hazırladığı işlem türüdür.
type QueryKind = dialect.QueryKind

const (
	KindNone       = dialect.KindNone
	KindSelect     = dialect.KindSelect
	KindSelectMany = dialect.KindSelectMany
	KindCount      = dialect.KindCount
	KindInsert     = dialect.KindInsert
	KindUpdate     = dialect.KindUpdate
	KindDelete     = dialect.KindDelete
)

type (
	// Value, bağlanan değerlerin etiketli temsilidir.
	Value = dialect.Value
	// Bindings, isimli parametreden değere giden haritadır.
	Bindings = dialect.Bindings
	// Data, sırası korunan kolon → değer listesidir.
	Data = dialect.Data
	// OrderClause, tek bir ORDER BY girdisidir.
	OrderClause = dialect.OrderClause
	// Transform, kolon bazlı şifreleme tanımıdır.
	Transform = crypt.Transform
)

// Value kurucuları.
var (
	Null    = dialect.Null
	Bool    = dialect.Bool
	Int     = dialect.Int
	Float   = dialect.Float
	String  = dialect.String
	List    = dialect.List
	ValueOf = dialect.ValueOf
)

// Transform kurucuları.
var (
	AES    = crypt.AES
	Base64 = crypt.Base64
	Hex    = crypt.Hex
	MD5    = crypt.MD5
	SHA256 = crypt.SHA256
)

// Transform çıktı kodlamaları.
const (
	UseNone   = crypt.EncodingNone
	UseHex    = crypt.EncodingHex
	UseBase64 = crypt.EncodingBase64
)

// Asc, artan sıralama girdisi üretir.
func Asc(column string) OrderClause {
	return OrderClause{Column: column, Direction: dialect.OrderAsc}
}

// Desc, azalan sıralama girdisi üretir.
func Desc(column string) OrderClause {
	return OrderClause{Column: column, Direction: dialect.OrderDesc}
}

// By, yönü belirtilmemiş (yalın) sıralama girdisi üretir.
func By(column string) OrderClause {
	return OrderClause{Column: column}
}
