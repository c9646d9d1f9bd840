package typepick

import (
	"fmt"
	"strings"

	"github.com/biyonik/go-typepick/crypt"
	"github.com/biyonik/go-typepick/dialect"
	"github.com/biyonik/go-typepick/internal/validation"
)

// Yapılandırma çağrılarının Errors() listesine yazdığı mesajlar.
const (
	MsgInvalidCondition = "Invalid condition format"
	MsgInvalidLogical   = "Invalid logical operator"
	MsgInsertData       = "Insert data must be a non-empty mapping"
	MsgUpdateData       = "Update data must be a non-empty mapping"
	MsgUnsupportedValue = "Unsupported value type"
	MsgInvalidLimit     = "Invalid limit"
	MsgInvalidOffset    = "Invalid offset"
)

// Builder, SQL cümlelerini akıcı bir arayüz (fluent interface) ile biriktiren ve
// Execute ile tek bir transaction içinde çalıştıran yapıdır.
//
// Yapılandırma çağrıları hata döndürmez; biçimce hatalı girdiler Errors() listesine
// yazılır ve Execute hiçbir SQL çalıştırmadan *ConfigurationError döner. Execute her
// durumda builder'ı sıfırlar, böylece aynı builder bir sonraki cümle için yeniden
// kullanılabilir.
//
//	res, err := db.Builder().
//	    In("users").
//	    Select("id", "email").
//	    Where("id", "=", 5).
//	    Decrypt(map[string]typepick.Transform{"email": typepick.AES("", typepick.UseBase64)}).
//	    Execute(ctx, typepick.FetchAssoc)
//
// Builder örnekleri eşzamanlı kullanım için güvenli değildir; paralel kullanımlar
// için Clone() ile çoğaltılmalıdır.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
type Builder struct {
	conn Conn
	db   *DB

	table   string
	kind    QueryKind
	columns []string
	insert  Data
	update  Data
	wheres  []dialect.Predicate
	orders  []OrderClause
	limit   *int
	offset  *int
	encrypt map[string]crypt.Transform
	decrypt map[string]crypt.Transform

	into  any
	bound []any

	errs []string
}

// Compile-time kontrolü: Builder, dilbilgisinin okuduğu arayüzü uygular.
var _ dialect.QueryBuilder = (*Builder)(nil)

// NewBuilder, conn üzerinden çalışan ve ayarlarını db'den alan bir Builder oluşturur.
func NewBuilder(conn Conn, db *DB) *Builder {
	return &Builder{conn: conn, db: db}
}

// New, herhangi bir Conn implementasyonu üzerinde çalışan bir Builder oluşturur.
// conn nil olabilir; o durumda yalnızca GetQuery ve GetBindings kullanılabilir.
//
//	qb := typepick.New(nil)
//	sql, err := qb.In("users").Select("id").Where("id", "=", 1).GetQuery()
func New(conn Conn, opts ...Option) *Builder {
	if d, ok := conn.(*DB); ok && len(opts) == 0 {
		return d.Builder()
	}
	return NewBuilder(conn, newDB(nil, opts))
}

// ----------------------------------------------------------------------------
// Target & kind
// ----------------------------------------------------------------------------

// In, cümlenin tablosunu ayarlar. "users u" ve "users as u" biçimleri desteklenir.
// Tanımlıysa tablo öneki eklenir.
func (b *Builder) In(table string) *Builder {
	b.table = b.db.prefix + strings.TrimSpace(table)
	return b
}

// Select, tek satır döndürecek bir SELECT hazırlar. Kolon verilmezse "*" kullanılır.
func (b *Builder) Select(columns ...string) *Builder {
	return b.selecting(KindSelect, columns)
}

// SelectAll, tüm eşleşen satırları döndürecek bir SELECT hazırlar.
func (b *Builder) SelectAll(columns ...string) *Builder {
	return b.selecting(KindSelectMany, columns)
}

// Count, eşleşen satır sayısını döndürecek bir SELECT hazırlar.
func (b *Builder) Count(columns ...string) *Builder {
	return b.selecting(KindCount, columns)
}

func (b *Builder) selecting(kind QueryKind, columns []string) *Builder {
	b.kind = kind
	b.columns = append([]string(nil), columns...)
	return b
}

// Insert, verilen kolon çiftleriyle bir INSERT hazırlar. Kolon sırası çiftlerin sırasıdır.
func (b *Builder) Insert(pairs ...Pair) *Builder {
	b.kind = KindInsert
	b.insert = b.data(pairs, MsgInsertData)
	return b
}

// InsertMap, Insert'in harita alan biçimidir; kolonlar ada göre sıralanır.
func (b *Builder) InsertMap(data map[string]any) *Builder {
	return b.Insert(FromMap(data)...)
}

// Update, verilen kolon çiftleriyle bir UPDATE hazırlar.
func (b *Builder) Update(pairs ...Pair) *Builder {
	b.kind = KindUpdate
	b.update = b.data(pairs, MsgUpdateData)
	return b
}

// UpdateMap, Update'in harita alan biçimidir; kolonlar ada göre sıralanır.
func (b *Builder) UpdateMap(data map[string]any) *Builder {
	return b.Update(FromMap(data)...)
}

// Delete, bir DELETE hazırlar.
func (b *Builder) Delete() *Builder {
	b.kind = KindDelete
	return b
}

func (b *Builder) data(pairs []Pair, msg string) Data {
	if len(pairs) == 0 {
		b.record(msg)
		return nil
	}

	var d Data
	for _, p := range pairs {
		if p.Column == "" {
			b.record(msg)
			continue
		}
		v, err := dialect.ValueOf(p.Value)
		if err != nil {
			b.record(MsgUnsupportedValue)
			continue
		}
		d = d.Set(p.Column, v)
	}
	return d
}

// ----------------------------------------------------------------------------
// Conditions
// ----------------------------------------------------------------------------

// Where, AND bağlacıyla bir koşul ekler.
func (b *Builder) Where(column, operator string, value any) *Builder {
	return b.addPredicate(column, operator, value, dialect.And)
}

// And, AND bağlacıyla bir koşul ekler.
func (b *Builder) And(column, operator string, value any) *Builder {
	return b.addPredicate(column, operator, value, dialect.And)
}

// Or, OR bağlacıyla bir koşul ekler.
func (b *Builder) Or(column, operator string, value any) *Builder {
	return b.addPredicate(column, operator, value, dialect.Or)
}

// Condition, konumsal parçalardan bir koşul ekler:
//
//	Condition("OR")                       // yalnızca bağlaç; SQL'e yazılmaz
//	Condition("age", ">", 18)             // AND ile
//	Condition("role", "=", "admin", "OR") // verilen bağlaçla
//
// Parça sayısı 1 veya en az 3 değilse ya da kolon, operatör ve bağlaç metin
// değilse "Invalid condition format" kaydedilir.
func (b *Builder) Condition(parts ...any) *Builder {
	switch {
	case len(parts) == 1:
		s, ok := parts[0].(string)
		if !ok {
			b.record(MsgInvalidCondition)
			return b
		}
		conn, err := validation.NormalizeConnective(s)
		if err != nil {
			b.record(MsgInvalidLogical)
			return b
		}
		b.wheres = append(b.wheres, dialect.Predicate{Connective: dialect.Connective(conn)})
		return b

	case len(parts) >= 3:
		column, ok1 := parts[0].(string)
		operator, ok2 := parts[1].(string)
		if !ok1 || !ok2 {
			b.record(MsgInvalidCondition)
			return b
		}

		conn := dialect.And
		if len(parts) > 3 {
			s, ok := parts[3].(string)
			if !ok {
				b.record(MsgInvalidCondition)
				return b
			}
			c, err := validation.NormalizeConnective(s)
			if err != nil {
				b.record(MsgInvalidLogical)
				return b
			}
			conn = dialect.Connective(c)
		}
		return b.addPredicate(column, operator, parts[2], conn)

	default:
		b.record(MsgInvalidCondition)
		return b
	}
}

func (b *Builder) addPredicate(column, operator string, value any, conn dialect.Connective) *Builder {
	if column == "" || strings.TrimSpace(operator) == "" {
		b.record(MsgInvalidCondition)
		return b
	}

	v, err := dialect.ValueOf(value)
	if err != nil {
		b.record(MsgUnsupportedValue)
		return b
	}

	op := validation.NormalizeOperator(operator)
	if !validation.IsKnownOperator(op) && b.db.debug {
		b.db.logger.Debug("unrecognized operator passed through", map[string]any{
			"column":   column,
			"operator": op,
		})
	}

	b.wheres = append(b.wheres, dialect.Predicate{
		Column:     column,
		Operator:   op,
		Value:      v,
		Connective: conn,
	})
	return b
}

// ----------------------------------------------------------------------------
// Ordering & pagination
// ----------------------------------------------------------------------------

// OrderBy, sıralama girdileri ekler.
//
//	qb.OrderBy(typepick.Desc("created_at"), typepick.By("id"))
func (b *Builder) OrderBy(orders ...OrderClause) *Builder {
	b.orders = append(b.orders, orders...)
	return b
}

// Limit, LIMIT değerini ayarlar. Negatif değerler "Invalid limit" kaydeder.
func (b *Builder) Limit(n int) *Builder {
	if n < 0 {
		b.record(MsgInvalidLimit)
		return b
	}
	b.limit = &n
	return b
}

// Offset, OFFSET değerini ayarlar. Negatif değerler "Invalid offset" kaydeder.
func (b *Builder) Offset(n int) *Builder {
	if n < 0 {
		b.record(MsgInvalidOffset)
		return b
	}
	b.offset = &n
	return b
}

// ----------------------------------------------------------------------------
// Column transforms
// ----------------------------------------------------------------------------

// Encrypt, INSERT/UPDATE değerlerine (ve decrypt tanımı olmayan WHERE kolonlarına)
// uygulanacak dönüşümleri ekler. Aynı kolon için sonraki çağrı öncekini ezer.
func (b *Builder) Encrypt(transforms map[string]Transform) *Builder {
	b.encrypt = merge(b.encrypt, transforms)
	return b
}

// Decrypt, SELECT kolonlarına ve WHERE parametrelerine uygulanacak dönüşümleri ekler.
func (b *Builder) Decrypt(transforms map[string]Transform) *Builder {
	b.decrypt = merge(b.decrypt, transforms)
	return b
}

// EncryptFrom, Encrypt'in gevşek tipli biçimidir. Değerler Transform, *Transform veya
// "method", "key", "use" anahtarlı map olabilir; diğerleri sessizce atlanır.
func (b *Builder) EncryptFrom(m map[string]any) *Builder {
	return b.Encrypt(crypt.ParseTransforms(m))
}

// DecryptFrom, Decrypt'in gevşek tipli biçimidir.
func (b *Builder) DecryptFrom(m map[string]any) *Builder {
	return b.Decrypt(crypt.ParseTransforms(m))
}

func merge(dst, src map[string]Transform) map[string]Transform {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]Transform, len(src))
	}
	for col, t := range src {
		dst[col] = t
	}
	return dst
}

// ----------------------------------------------------------------------------
// Fetch targets
// ----------------------------------------------------------------------------

// Into, "into" şekli için hedefi veya "class" şekli için prototipi ayarlar.
//
//	var u User
//	qb.In("users").Select().Where("id", "=", 1).Into(&u).Execute(ctx, typepick.FetchInto)
func (b *Builder) Into(dest any) *Builder {
	b.into = dest
	return b
}

// BindColumns, "bound" şekli için kolon başına hedef pointer'ları ayarlar.
func (b *Builder) BindColumns(dests ...any) *Builder {
	b.bound = append([]any(nil), dests...)
	return b
}

// ----------------------------------------------------------------------------
// State
// ----------------------------------------------------------------------------

// record, bir yapılandırma hatasını kaydeder.
func (b *Builder) record(msg string) {
	b.errs = append(b.errs, msg)
	if b.db.debug {
		b.db.logger.Debug("builder configuration error", map[string]any{
			"error": msg,
			"table": b.table,
			"kind":  b.kind.String(),
		})
	}
}

// Errors, kaydedilmiş yapılandırma hatalarını döndürür.
func (b *Builder) Errors() []string {
	return append([]string(nil), b.errs...)
}

// Clear, bağlantı ve ayarlar dışındaki tüm durumu temizler.
func (b *Builder) Clear() *Builder {
	*b = Builder{conn: b.conn, db: b.db}
	return b
}

// Clone, Builder'ın derin kopyasını oluşturur.
func (b *Builder) Clone() *Builder {
	clone := *b

	clone.columns = append([]string(nil), b.columns...)
	clone.insert = append(Data(nil), b.insert...)
	clone.update = append(Data(nil), b.update...)
	clone.wheres = append([]dialect.Predicate(nil), b.wheres...)
	clone.orders = append([]OrderClause(nil), b.orders...)
	clone.bound = append([]any(nil), b.bound...)
	clone.errs = append([]string(nil), b.errs...)
	clone.encrypt = merge(nil, b.encrypt)
	clone.decrypt = merge(nil, b.decrypt)

	if b.limit != nil {
		n := *b.limit
		clone.limit = &n
	}
	if b.offset != nil {
		n := *b.offset
		clone.offset = &n
	}

	return &clone
}

// When, koşul doğruysa callback'i uygular.
func (b *Builder) When(condition bool, fn func(*Builder)) *Builder {
	if condition {
		fn(b)
	}
	return b
}

// Unless, When'in tersidir.
func (b *Builder) Unless(condition bool, fn func(*Builder)) *Builder {
	return b.When(!condition, fn)
}

// GetQuery, mevcut durumdan üretilecek SQL cümlesini döndürür.
// Tür seçilmemişse boş cümle döner.
func (b *Builder) GetQuery() (string, error) {
	return b.db.grammar.Compile(b)
}

// GetBindings, GetQuery'nin ürettiği parametrelerle birebir eşleşen değerleri döndürür.
func (b *Builder) GetBindings() Bindings {
	return b.db.grammar.CompileBindings(b)
}

// GetAction, seçilmiş sorgu türünü döndürür.
func (b *Builder) GetAction() QueryKind {
	return b.kind
}

// String, hata ayıklama için cümleyi döndürür.
func (b *Builder) String() string {
	q, err := b.GetQuery()
	if err != nil {
		return fmt.Sprintf("<invalid %s: %v>", b.kind, err)
	}
	return q
}

// ----------------------------------------------------------------------------
// dialect.QueryBuilder
// ----------------------------------------------------------------------------

// GetTable, tablo adını döndürür.
func (b *Builder) GetTable() string { return b.table }

// GetKind, sorgu türünü döndürür.
func (b *Builder) GetKind() QueryKind { return b.kind }

// GetColumns, seçilen kolonları döndürür.
func (b *Builder) GetColumns() []string { return b.columns }

// GetInsertData, INSERT verisini döndürür.
func (b *Builder) GetInsertData() Data { return b.insert }

// GetUpdateData, UPDATE verisini döndürür.
func (b *Builder) GetUpdateData() Data { return b.update }

// GetWheres, WHERE koşullarını döndürür.
func (b *Builder) GetWheres() []dialect.Predicate { return b.wheres }

// GetOrders, ORDER BY girdilerini döndürür.
func (b *Builder) GetOrders() []OrderClause { return b.orders }

// GetLimit, LIMIT değerini döndürür.
func (b *Builder) GetLimit() *int { return b.limit }

// GetOffset, OFFSET değerini döndürür.
func (b *Builder) GetOffset() *int { return b.offset }

// GetEncryption, encrypt haritasını döndürür.
func (b *Builder) GetEncryption() map[string]crypt.Transform { return b.encrypt }

// GetDecryption, decrypt haritasını döndürür.
func (b *Builder) GetDecryption() map[string]crypt.Transform { return b.decrypt }
