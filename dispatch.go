package typepick

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Execute, biriktirilen cümleyi tek bir transaction içinde çalıştırır ve sonucu
// sorgu türüne göre şekillendirir. shape verilmezse DefaultFetchShape kullanılır.
//
// Sıra:
//  1. Kaydedilmiş yapılandırma hatası varsa *ConfigurationError (SQL çalışmaz).
//  2. Fetch şekli ve hedefleri denetlenir (ErrInvalidFetchShape).
//  3. Tür seçilmemişse ErrInvalidQueryKind.
//  4. Transaction açılır, cümle ve parametreler derlenir, hazırlanır ve çalıştırılır.
//  5. Commit. Herhangi bir adımda hata olursa önce rollback yapılır.
//
// Builder, sonuç ne olursa olsun Execute dönerken sıfırlanır.
func (b *Builder) Execute(ctx context.Context, shape ...FetchShape) (*Result, error) {
	defer b.Clear()

	if len(b.errs) > 0 {
		return nil, &ConfigurationError{Messages: b.Errors()}
	}

	fs := pickShape(shape)
	if err := validateShape(fs, b.kind, b.target()); err != nil {
		return nil, err
	}

	if !b.kind.IsValid() {
		return nil, ErrInvalidQueryKind
	}

	return b.run(ctx, b.kind, fs, false, func() (string, Bindings, error) {
		query, err := b.db.grammar.Compile(b)
		if err != nil {
			return query, nil, err
		}
		return query, b.db.grammar.CompileBindings(b), nil
	})
}

// Query, hazır bir cümleyi Execute ile aynı transaction, şekillendirme ve hata
// akışından geçirir. Builder durumu okunmaz ve sıfırlanmaz; yalnızca Into ve
// BindColumns hedefleri ile Encrypt/Decrypt kolonları (log maskesi için) kullanılır.
//
//	res, err := qb.Query(ctx, typepick.KindSelectMany,
//	    "SELECT id FROM users WHERE age > :age1",
//	    typepick.Bindings{":age1": typepick.Int(18)},
//	    typepick.FetchNum)
func (b *Builder) Query(ctx context.Context, kind QueryKind, query string, bindings Bindings, shape FetchShape) (*Result, error) {
	if shape == "" {
		shape = DefaultFetchShape
	}
	if err := validateShape(shape, kind, b.target()); err != nil {
		return nil, err
	}

	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueryKind, kind)
	}

	return b.run(ctx, kind, shape, true, func() (string, Bindings, error) {
		return query, bindings, nil
	})
}

func pickShape(shape []FetchShape) FetchShape {
	if len(shape) == 0 || shape[0] == "" {
		return DefaultFetchShape
	}
	return shape[0]
}

func (b *Builder) target() Target {
	return Target{Into: b.into, Bound: b.bound}
}

// transformed, dönüşüm tanımlı kolonları döndürür.
func (b *Builder) transformed() map[string]bool {
	cols := make(map[string]bool, len(b.encrypt)+len(b.decrypt))
	for col := range b.encrypt {
		cols[col] = true
	}
	for col := range b.decrypt {
		cols[col] = true
	}
	return cols
}

// redactions, log maskesine girecek parametre adlarını gramerin kendi
// yerleştirme sırasıyla üretir: veri kolonları için ":kolon", WHERE koşulları
// için kolon başına sayaçlı ":kolonN". Parametre adından kolon geri çıkarılmaz;
// "address2" kolonunun ":address21" parametresi böylece doğru eşleşir.
//
// raw cümlelerde (Query) koşullar builder'dan gelmez. Orada her parametre adı,
// gramerin o kolon için üretebileceği sayaçlı adla karşılaştırılır.
func (b *Builder) redactions(bindings Bindings, raw bool) map[string]bool {
	cols := b.transformed()
	hidden := make(map[string]bool)
	if len(cols) == 0 {
		return hidden
	}

	g := b.db.grammar
	for col := range cols {
		hidden[g.Placeholder(col, 0)] = true
	}

	counters := make(map[string]int)
	for _, p := range b.wheres {
		if p.IsConnectiveOnly() {
			continue
		}
		counters[p.Column]++
		if cols[p.Column] {
			hidden[g.Placeholder(p.Column, counters[p.Column])] = true
		}
	}

	if raw {
		for name := range bindings {
			for col := range cols {
				if placeholderOf(g, col, name) {
					hidden[name] = true
				}
			}
		}
	}

	return hidden
}

// placeholderOf, name'in gramerin col için sayaçlı bir parametresi olup olmadığını döndürür.
func placeholderOf(g Grammar, col, name string) bool {
	rest, ok := strings.CutPrefix(name, g.Placeholder(col, 0))
	if !ok || rest == "" {
		return false
	}
	n, err := strconv.Atoi(rest)
	return err == nil && n > 0 && g.Placeholder(col, n) == name
}

// run, tek bir cümlenin transaction yaşam döngüsünü yönetir ve log, metrik ve
// span kayıtlarını üretir.
func (b *Builder) run(ctx context.Context, kind QueryKind, shape FetchShape, raw bool, assemble func() (string, Bindings, error)) (*Result, error) {
	id := uuid.NewString()
	start := time.Now()

	ctx, span := b.db.tracer.Start(ctx, "typepick."+kind.String(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("typepick.statement_id", id),
			attribute.String("typepick.kind", kind.String()),
			attribute.String("typepick.fetch_shape", string(shape)),
		),
	)
	defer span.End()

	var (
		query    string
		bindings Bindings
	)

	res, err := b.transact(ctx, kind, shape, func() (string, Bindings, error) {
		var err error
		query, bindings, err = assemble()
		return query, bindings, err
	})

	elapsed := time.Since(start)

	outcome := OutcomeOK
	if err != nil {
		outcome = OutcomeError
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int64("typepick.affected", res.Affected))
		span.SetStatus(codes.Ok, "")
	}
	b.db.metrics.Observe(kind, outcome, elapsed)

	if err != nil || b.db.debug {
		b.db.logger.Log(ctx, LogEntry{
			StatementID: id,
			Kind:        kind,
			Query:       query,
			Args:        redactArgs(bindings, b.redactions(bindings, raw)),
			Duration:    elapsed,
			Err:         err,
		})
	}

	return res, err
}

// transact: begin → assemble → prepare → dispatch → close → commit.
func (b *Builder) transact(ctx context.Context, kind QueryKind, shape FetchShape, assemble func() (string, Bindings, error)) (*Result, error) {
	if b.conn == nil {
		return nil, ErrNoConnection
	}

	tx, err := b.conn.Begin(ctx)
	if err != nil {
		return nil, driverError("begin", "", err)
	}

	// Panic güvenliği: tarayıcı veya sürücü panik yaparsa transaction açık kalmaz.
	defer func() {
		if p := recover(); p != nil {
			b.rollback(tx)
			panic(p)
		}
	}()

	query, bindings, err := assemble()
	if err != nil {
		b.rollback(tx)
		return nil, NewQueryError(err, query, bindings, "typepick: assemble "+kind.String())
	}

	stmt, err := tx.Prepare(ctx, query)
	if err != nil {
		b.rollback(tx)
		return nil, driverError("prepare", query, err)
	}

	res, err := b.dispatch(ctx, stmt, kind, shape, bindings.Args())
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = driverError("close", query, cerr)
	}
	if err != nil {
		b.rollback(tx)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		b.rollback(tx)
		return nil, driverError("commit", query, err)
	}

	return res, nil
}

func (b *Builder) rollback(tx Tx) {
	if err := tx.Rollback(); err != nil && b.db.debug {
		b.db.logger.Debug("rollback failed", map[string]any{"error": err.Error()})
	}
}

// dispatch, cümleyi çalıştırır ve sonucu türe göre şekillendirir.
func (b *Builder) dispatch(ctx context.Context, stmt Stmt, kind QueryKind, shape FetchShape, args map[string]any) (*Result, error) {
	res := &Result{Kind: kind}

	switch kind {
	case KindInsert:
		r, err := stmt.Exec(ctx, args)
		if err != nil {
			return nil, driverError("exec", "", err)
		}
		// lib/pq LastInsertId desteklemez; o durumda InsertID 0 kalır.
		if id, err := r.LastInsertId(); err == nil {
			res.InsertID = id
		}
		if n, err := r.RowsAffected(); err == nil {
			res.Affected = n
		}
		return res, nil

	case KindUpdate, KindDelete:
		r, err := stmt.Exec(ctx, args)
		if err != nil {
			return nil, driverError("exec", "", err)
		}
		n, err := r.RowsAffected()
		if err != nil {
			return nil, driverError("rows affected", "", err)
		}
		res.Affected = n
		return res, nil

	case KindCount:
		rows, err := stmt.Query(ctx, args)
		if err != nil {
			return nil, driverError("query", "", err)
		}
		defer rows.Close()

		for rows.Next() {
			res.Affected++
		}
		if err := rows.Err(); err != nil {
			return nil, driverError("rows", "", err)
		}
		return res, nil

	case KindSelect:
		rows, err := stmt.Query(ctx, args)
		if err != nil {
			return nil, driverError("query", "", err)
		}
		defer rows.Close()

		row, err := b.db.scanner.ScanOne(rows, shape, b.target())
		if err != nil {
			return nil, driverError("scan", "", err)
		}
		res.Row = row
		return res, nil

	case KindSelectMany:
		rows, err := stmt.Query(ctx, args)
		if err != nil {
			return nil, driverError("query", "", err)
		}
		defer rows.Close()

		all, err := b.db.scanner.ScanAll(rows, shape, b.target())
		if err != nil {
			return nil, driverError("scan", "", err)
		}
		res.Rows = all
		return res, nil

	case KindNone:
		return nil, ErrInvalidQueryKind

	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueryKind, kind)
	}
}
