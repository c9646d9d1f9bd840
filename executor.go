package typepick

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/biyonik/go-typepick/crypt"
	"github.com/biyonik/go-typepick/dialect"
)

/*
=======================================================================================================================
  Bu dosya, builder'ın veritabanıyla konuştuğu dar arayüzü tanımlar: Conn → Tx → Stmt → Rows.

  Builder hiçbir zaman doğrudan *sql.DB ile çalışmaz. Her Execute çağrısı Conn üzerinden bir
  transaction açar, cümleyi o transaction içinde isimli parametrelerle hazırlar, çalıştırır ve
  commit eder. *DB bu zinciri jmoiron/sqlx üzerinde uygular; testlerde aynı arayüzler
  sqlmock veya gomock ile değiştirilebilir.

  @author    Ahmet ALTUN
  @github    github.com/biyonik
  @linkedin  linkedin.com/in/biyonik
  @email     ahmet.altun60@gmail.com
=======================================================================================================================
*/

//go:generate mockgen -source=executor.go -destination=mock_executor_test.go -package=typepick

// Conn, builder'ın transaction açtığı bağlantıdır.
type Conn interface {
	Begin(ctx context.Context) (Tx, error)
}

// Tx, tek bir Execute çağrısının yaşadığı transaction'dır.
type Tx interface {
	// Prepare, ":isim" parametreli cümleyi hazırlar.
	Prepare(ctx context.Context, query string) (Stmt, error)
	Commit() error
	Rollback() error
}

// Stmt, hazırlanmış isimli parametreli cümledir. args anahtarları ":" öneki taşımaz.
type Stmt interface {
	Exec(ctx context.Context, args map[string]any) (sql.Result, error)
	Query(ctx context.Context, args map[string]any) (Rows, error)
	Close() error
}

// Rows, *sqlx.Rows'un fetch şekillerinin ihtiyaç duyduğu alt kümesidir.
type Rows interface {
	Next() bool
	Columns() ([]string, error)
	Scan(dest ...any) error
	MapScan(dest map[string]any) error
	SliceScan() ([]any, error)
	StructScan(dest any) error
	Err() error
	Close() error
}

// Compile-time kontrolleri.
var (
	_ Conn = (*DB)(nil)
	_ Tx   = (*Transaction)(nil)
	_ Stmt = (*Statement)(nil)
	_ Rows = (*sqlx.Rows)(nil)
)

// tracerName, WithTracer verilmediğinde global TracerProvider'dan alınan tracer'ın adıdır.
const tracerName = "github.com/biyonik/go-typepick"

// DB, sqlx bağlantı havuzunu sarar ve ondan üretilen builder'ların paylaştığı
// dilbilgisi, tarayıcı, log, metrik ve tracing ayarlarını taşır.
//
// DB eşzamanlı kullanım için güvenlidir; Builder değildir.
type DB struct {
	*sqlx.DB

	grammar    Grammar
	scanner    Scanner
	logger     Logger
	metrics    Metrics
	tracer     trace.Tracer
	debug      bool
	prefix     string
	defaultKey string
}

// NewDB, açık bir *sql.DB'yi verilen sürücü adıyla sarar.
// Sürücü adı, sqlx'in isimli parametreleri hangi biçime çevireceğini belirler.
func NewDB(db *sql.DB, driverName string, opts ...Option) *DB {
	return newDB(sqlx.NewDb(db, driverName), opts)
}

// newDB, seçenekleri uygular ve boş kalan ayarlara varsayılanları atar.
// x nil olabilir; o durumda yalnızca ayarlar taşınır (bkz. New).
func newDB(x *sqlx.DB, opts []Option) *DB {
	d := &DB{DB: x}

	applyOptions(d, opts)

	if d.grammar == nil {
		var key []byte
		if d.defaultKey != "" {
			key = []byte(d.defaultKey)
		}
		d.grammar = dialect.MySQL(crypt.NewRewriter(key))
	}
	if d.scanner == nil {
		d.scanner = NewDefaultScanner()
	}
	if d.logger == nil {
		d.logger = NopLogger{}
	}
	if d.metrics == nil {
		d.metrics = NopMetrics{}
	}
	if d.tracer == nil {
		d.tracer = otel.Tracer(tracerName)
	}

	return d
}

// Grammar, aktif dilbilgisini döndürür.
func (d *DB) Grammar() Grammar {
	return d.grammar
}

// Scanner, fetch şekillerini uygulayan tarayıcıyı döndürür.
func (d *DB) Scanner() Scanner {
	return d.scanner
}

// Logger, cümle loglayıcısını döndürür.
func (d *DB) Logger() Logger {
	return d.logger
}

// TablePrefix, tablo adlarına eklenen öneki döndürür.
func (d *DB) TablePrefix() string {
	return d.prefix
}

// IsDebug, debug modunun açık olup olmadığını döndürür.
func (d *DB) IsDebug() bool {
	return d.debug
}

// Builder, bu bağlantıyı kullanan yeni bir Builder oluşturur.
func (d *DB) Builder() *Builder {
	return NewBuilder(d, d)
}

// In, yeni bir Builder oluşturup tabloyu ayarlamak için kısayoldur.
func (d *DB) In(table string) *Builder {
	return d.Builder().In(table)
}

// Begin, Conn arayüzünü uygular: varsayılan ayarlarla bir transaction açar.
func (d *DB) Begin(ctx context.Context) (Tx, error) {
	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// BeginTx, verilen seçeneklerle bir transaction açar.
func (d *DB) BeginTx(ctx context.Context, opts *sql.TxOptions) (*Transaction, error) {
	if d.DB == nil {
		return nil, ErrNoConnection
	}

	tx, err := d.DB.BeginTxx(ctx, opts)
	if err != nil {
		return nil, driverError("begin", "", err)
	}
	return &Transaction{tx: tx}, nil
}

// Ping, bağlantının canlı olup olmadığını kontrol eder.
func (d *DB) Ping(ctx context.Context) error {
	if d.DB == nil {
		return ErrNoConnection
	}
	if err := d.DB.PingContext(ctx); err != nil {
		return driverError("ping", "", err)
	}
	return nil
}

// Close, bağlantı havuzunu kapatır.
func (d *DB) Close() error {
	if d.DB == nil {
		return nil
	}
	return d.DB.Close()
}
