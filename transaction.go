package typepick

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/jmoiron/sqlx"
)

// -----------------------------------------------------------------------------
//  Transaction ve Statement, Tx ve Stmt arayüzlerinin sqlx üzerindeki
//  karşılıklarıdır.
//
//  Her Execute çağrısı kendi transaction'ını açar ve kapatır. Commit bir kez
//  yapılabilir; Rollback ise idempotenttir, böylece hata yolunda commit
//  denemesinden sonra da güvenle çağrılabilir.
//
//  Aynı transaction birden çok goroutine tarafından kullanılmamalıdır; kilit
//  yalnızca kapanma durumunu korur.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Transaction, *sqlx.Tx'i sarar.
type Transaction struct {
	tx *sqlx.Tx

	mu     sync.Mutex
	closed bool
}

// Prepare, isimli parametreli cümleyi transaction içinde hazırlar.
// Parametreler sürücünün biçimine (MySQL ve SQLite için "?", Postgres için "$n") çevrilir.
func (t *Transaction) Prepare(ctx context.Context, query string) (Stmt, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil, ErrTransactionClosed
	}
	t.mu.Unlock()

	st, err := t.tx.PrepareNamedContext(ctx, query)
	if err != nil {
		return nil, driverError("prepare", query, err)
	}
	return &Statement{stmt: st, query: query}, nil
}

// Commit, yapılan tüm işlemleri kalıcı hale getirir. İkinci çağrı ErrTransactionClosed döner.
func (t *Transaction) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTransactionClosed
	}

	t.closed = true
	if err := t.tx.Commit(); err != nil {
		return driverError("commit", "", err)
	}
	return nil
}

// Rollback, tüm değişiklikleri geri alır. Kapanmış bir transaction için nil döner.
func (t *Transaction) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}

	t.closed = true
	if err := t.tx.Rollback(); err != nil {
		if errors.Is(err, sql.ErrTxDone) {
			return nil
		}
		return driverError("rollback", "", err)
	}
	return nil
}

// IsClosed, transaction'ın commit ya da rollback ile kapanıp kapanmadığını bildirir.
func (t *Transaction) IsClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}

// Tx, alttaki *sqlx.Tx'e doğrudan erişim sağlar.
func (t *Transaction) Tx() *sqlx.Tx {
	return t.tx
}

// Statement, *sqlx.NamedStmt'i sarar.
type Statement struct {
	stmt  *sqlx.NamedStmt
	query string
}

// Exec, sonuç satırı döndürmeyen cümleyi çalıştırır.
func (s *Statement) Exec(ctx context.Context, args map[string]any) (sql.Result, error) {
	res, err := s.stmt.ExecContext(ctx, args)
	if err != nil {
		return nil, driverError("exec", s.query, err)
	}
	return res, nil
}

// Query, satır döndüren cümleyi çalıştırır.
func (s *Statement) Query(ctx context.Context, args map[string]any) (Rows, error) {
	rows, err := s.stmt.QueryxContext(ctx, args)
	if err != nil {
		return nil, driverError("query", s.query, err)
	}
	return rows, nil
}

// Close, hazırlanmış cümleyi serbest bırakır.
func (s *Statement) Close() error {
	return s.stmt.Close()
}
