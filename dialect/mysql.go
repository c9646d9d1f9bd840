package dialect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/biyonik/go-typepick/crypt"
	"github.com/biyonik/go-typepick/internal/validation"
)

/*
 * ----------------------------------------------------------------------------
 * MYSQL GRAMMAR IMPLEMENTATION
 * ----------------------------------------------------------------------------
 *
 * Bu dosya, builder'ın biriktirdiği durumu (tablo, kolonlar, koşullar, sıralama,
 * sayfalama, şifreleme haritaları) isimli parametreli MySQL cümlelerine çevirir.
 *
 * Değerler hiçbir zaman SQL metnine yazılmaz; her değer ":kolon" veya ":kolonN"
 * biçiminde bir parametreye bağlanır. Aynı kolon WHERE içinde birden fazla kez
 * geçtiğinde her geçiş kendi sayacını alır (":id1", ":id2"). Şifreleme tanımlı
 * kolonlarda parametre, crypt.Rewriter'ın ürettiği fonksiyon çağrısıyla sarılır.
 *
 * Kolon ve tablo isimleri tırnaklanmaz, bunun yerine validation paketiyle
 * doğrulanır. Böylece üretilen cümleler mevcut çağıranlarla birebir aynı kalır.
 *
 * @author Ahmet ALTUN
 * @github github.com/biyonik
 * @linkedin linkedin.com/in/biyonik
 * @email ahmet.altun60@gmail.com
 * ----------------------------------------------------------------------------
 */

// MySQLGrammar, Grammar arayüzünü MySQL ve MariaDB veritabanları için implemente eder.
type MySQLGrammar struct {
	BaseGrammar
}

// MySQL, verilen Rewriter ile yeni bir MySQL dilbilgisi örneği oluşturur.
// rw nil ise varsayılan anahtarı olmayan bir Rewriter kullanılır.
func MySQL(rw *crypt.Rewriter) *MySQLGrammar {
	if rw == nil {
		rw = crypt.NewRewriter(nil)
	}
	return &MySQLGrammar{
		BaseGrammar: BaseGrammar{
			name:     "mysql",
			rewriter: rw,
		},
	}
}

// Wrap, kolon adını doğrular. "*" olduğu gibi kabul edilir.
func (g *MySQLGrammar) Wrap(identifier string) (string, error) {
	if identifier == "*" {
		return "*", nil
	}

	if err := validation.ValidateIdentifier(identifier); err != nil {
		return "", err
	}

	return identifier, nil
}

// WrapTable, tablo ismini ve varsa takma adını doğrular.
// "users u" ve "users as u" biçimleri "users AS u" olarak yazılır.
func (g *MySQLGrammar) WrapTable(table string) (string, error) {
	name, alias, err := validation.ValidateTableWithAlias(table)
	if err != nil {
		return "", err
	}

	if alias != "" {
		return name + " AS " + alias, nil
	}
	return name, nil
}

// Placeholder, isimli parametreyi üretir: ":email" veya ":email2".
func (g *MySQLGrammar) Placeholder(column string, occurrence int) string {
	if occurrence <= 0 {
		return ":" + column
	}
	return ":" + column + strconv.Itoa(occurrence)
}

// Compile, sorgu türüne göre ilgili derleyiciyi seçer.
// Tür belirlenmemişse boş cümle döner.
func (g *MySQLGrammar) Compile(b QueryBuilder) (string, error) {
	switch b.GetKind() {
	case KindNone:
		return "", nil
	case KindSelect, KindSelectMany, KindCount:
		return g.CompileSelect(b)
	case KindInsert:
		return g.CompileInsert(b)
	case KindUpdate:
		return g.CompileUpdate(b)
	case KindDelete:
		return g.CompileDelete(b)
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownKind, b.GetKind())
	}
}

// CompileSelect, SELECT cümlesini derler.
//
// Çözme (decrypt) tanımlı kolonlar "<ifade> AS <kolon>" olarak yazılır.
// Kolon verilmemişse "*" kullanılır.
func (g *MySQLGrammar) CompileSelect(b QueryBuilder) (string, error) {
	table, err := g.table(b)
	if err != nil {
		return "", err
	}

	var sql strings.Builder
	sql.WriteString("SELECT ")

	columns := b.GetColumns()
	if len(columns) == 0 {
		sql.WriteString("*")
	} else {
		decrypt := b.GetDecryption()
		parts := make([]string, len(columns))
		for i, col := range columns {
			wrapped, err := g.Wrap(col)
			if err != nil {
				return "", err
			}

			t, ok := decrypt[col]
			if !ok || col == "*" {
				parts[i] = wrapped
				continue
			}

			expr, err := g.rewriter.Decrypt(wrapped, t)
			if err != nil {
				return "", fmt.Errorf("column %s: %w", col, err)
			}
			parts[i] = expr + " AS " + aliasOf(col)
		}
		sql.WriteString(strings.Join(parts, ", "))
	}

	sql.WriteString(" FROM ")
	sql.WriteString(table)

	if err := g.compileTail(&sql, b, newClaims()); err != nil {
		return "", err
	}

	return sql.String(), nil
}

// CompileInsert, INSERT cümlesini derler. Kolon sırası verinin ekleme sırasıdır.
func (g *MySQLGrammar) CompileInsert(b QueryBuilder) (string, error) {
	table, err := g.table(b)
	if err != nil {
		return "", err
	}

	data := b.GetInsertData()
	if len(data) == 0 {
		return "", ErrNoColumns
	}

	claims := newClaims()
	cols := make([]string, len(data))
	vals := make([]string, len(data))
	for i, f := range data {
		col, err := g.Wrap(f.Column)
		if err != nil {
			return "", err
		}
		val, err := g.dataValue(b, f.Column, claims)
		if err != nil {
			return "", err
		}
		cols[i], vals[i] = col, val
	}

	return "INSERT INTO " + table +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (" + strings.Join(vals, ", ") + ")", nil
}

// CompileUpdate, UPDATE cümlesini derler.
//
// SET bloğu önce yazıldığı için ":kolon" parametreleri, aynı kolonun WHERE içindeki
// ":kolon1" parametresiyle çakışmaz.
func (g *MySQLGrammar) CompileUpdate(b QueryBuilder) (string, error) {
	table, err := g.table(b)
	if err != nil {
		return "", err
	}

	data := b.GetUpdateData()
	if len(data) == 0 {
		return "", ErrNoColumns
	}

	claims := newClaims()
	sets := make([]string, len(data))
	for i, f := range data {
		col, err := g.Wrap(f.Column)
		if err != nil {
			return "", err
		}
		val, err := g.dataValue(b, f.Column, claims)
		if err != nil {
			return "", err
		}
		sets[i] = col + " = " + val
	}

	var sql strings.Builder
	sql.WriteString("UPDATE ")
	sql.WriteString(table)
	sql.WriteString(" SET ")
	sql.WriteString(strings.Join(sets, ", "))

	if err := g.compileTail(&sql, b, claims); err != nil {
		return "", err
	}

	return sql.String(), nil
}

// CompileDelete, DELETE cümlesini derler.
func (g *MySQLGrammar) CompileDelete(b QueryBuilder) (string, error) {
	table, err := g.table(b)
	if err != nil {
		return "", err
	}

	var sql strings.Builder
	sql.WriteString("DELETE FROM ")
	sql.WriteString(table)

	if err := g.compileTail(&sql, b, newClaims()); err != nil {
		return "", err
	}

	return sql.String(), nil
}

// ----------------------------------------------------------------------------
// Internal helpers
// ----------------------------------------------------------------------------

// claims, tek bir cümlede kullanılan parametreleri izler.
type claims map[string]bool

func newClaims() claims { return make(claims) }

func (c claims) claim(placeholder string) error {
	if c[placeholder] {
		return fmt.Errorf("%w: %s", ErrPlaceholderCollision, placeholder)
	}
	c[placeholder] = true
	return nil
}

func (g *MySQLGrammar) table(b QueryBuilder) (string, error) {
	if b.GetTable() == "" {
		return "", ErrNoTable
	}
	return g.WrapTable(b.GetTable())
}

// dataValue, INSERT/UPDATE değer yuvasını üretir: ":kolon" ya da şifreleme ifadesi.
// Bu yönde yalnızca encrypt haritası uygulanır.
func (g *MySQLGrammar) dataValue(b QueryBuilder, column string, c claims) (string, error) {
	ph := g.Placeholder(column, 0)
	if err := c.claim(ph); err != nil {
		return "", err
	}

	t, ok := b.GetEncryption()[column]
	if !ok {
		return ph, nil
	}

	expr, err := g.rewriter.Encrypt(ph, t)
	if err != nil {
		return "", fmt.Errorf("column %s: %w", column, err)
	}
	return expr, nil
}

// whereValue, WHERE değer yuvasını üretir. Önce decrypt, yoksa encrypt haritasına bakılır.
func (g *MySQLGrammar) whereValue(b QueryBuilder, column, ph string) (string, error) {
	if t, ok := b.GetDecryption()[column]; ok {
		expr, err := g.rewriter.Decrypt(ph, t)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", column, err)
		}
		return expr, nil
	}

	if t, ok := b.GetEncryption()[column]; ok {
		expr, err := g.rewriter.Encrypt(ph, t)
		if err != nil {
			return "", fmt.Errorf("column %s: %w", column, err)
		}
		return expr, nil
	}

	return ph, nil
}

// compileTail, WHERE, ORDER BY, LIMIT ve OFFSET bölümlerini sırasıyla ekler.
func (g *MySQLGrammar) compileTail(sql *strings.Builder, b QueryBuilder, c claims) error {
	where, err := g.compileWheres(b, c)
	if err != nil {
		return err
	}
	if where != "" {
		sql.WriteString(" WHERE ")
		sql.WriteString(where)
	}

	order, err := g.compileOrders(b.GetOrders())
	if err != nil {
		return err
	}
	if order != "" {
		sql.WriteString(" ORDER BY ")
		sql.WriteString(order)
	}

	if limit := b.GetLimit(); limit != nil {
		sql.WriteString(" LIMIT ")
		sql.WriteString(strconv.Itoa(*limit))
	}

	if offset := b.GetOffset(); offset != nil {
		sql.WriteString(" OFFSET ")
		sql.WriteString(strconv.Itoa(*offset))
	}

	return nil
}

// compileWheres, koşulları ekleme sırasıyla birleştirir.
//
// İlk yazılan koşulun önünde bağlaç yoktur; sonraki her koşulun önüne kendi
// bağlacı yazılır (bir önceki koşulunki değil).
func (g *MySQLGrammar) compileWheres(b QueryBuilder, c claims) (string, error) {
	wheres := b.GetWheres()
	if len(wheres) == 0 {
		return "", nil
	}

	var sql strings.Builder
	counters := make(map[string]int)

	for _, p := range wheres {
		if p.IsConnectiveOnly() {
			continue
		}

		column, err := g.Wrap(p.Column)
		if err != nil {
			return "", err
		}

		op := validation.NormalizeOperator(p.Operator)
		if err := validation.ValidateOperator(op); err != nil {
			return "", err
		}

		counters[p.Column]++
		ph := g.Placeholder(p.Column, counters[p.Column])
		if err := c.claim(ph); err != nil {
			return "", err
		}

		value, err := g.whereValue(b, p.Column, ph)
		if err != nil {
			return "", err
		}

		if sql.Len() > 0 {
			sql.WriteString(" ")
			sql.WriteString(p.Connective.String())
			sql.WriteString(" ")
		}
		sql.WriteString(column)
		sql.WriteString(" ")
		sql.WriteString(op)
		sql.WriteString(" ")
		sql.WriteString(value)
	}

	return sql.String(), nil
}

// compileOrders, ORDER BY girdilerini ekleme sırasıyla yazar.
// Yönü olmayan girdiler yalın kolon olarak, diğerleri "<kolon> <yön>" olarak yazılır.
func (g *MySQLGrammar) compileOrders(orders []OrderClause) (string, error) {
	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		column, err := g.Wrap(o.Column)
		if err != nil {
			return "", err
		}

		if o.Direction == OrderNone {
			parts = append(parts, column)
			continue
		}

		dir, err := validation.NormalizeDirection(string(o.Direction))
		if err != nil {
			return "", err
		}
		parts = append(parts, column+" "+dir)
	}
	return strings.Join(parts, ", "), nil
}

// aliasOf, "tablo.kolon" biçimindeki referans için kolon kısmını döndürür.
func aliasOf(column string) string {
	if i := strings.LastIndexByte(column, '.'); i >= 0 {
		return column[i+1:]
	}
	return column
}
