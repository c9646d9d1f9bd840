package typepick

import (
	"go.opentelemetry.io/otel/trace"
)

// -----------------------------------------------------------------------------
//  Bu dosya, DB üzerinde davranışı tek noktadan yönetmeyi sağlayan Option
//  yapısını içerir. Her With* fonksiyonu DB kurulumuna eklenen küçük bir
//  yapılandırma adımıdır; DB'den üretilen her Builder bu ayarları devralır.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// Option, bir *DB örneği üzerinde çalışan yapılandırma fonksiyonudur.
type Option func(*DB)

// WithGrammar, sorguların derlenmesinde kullanılacak dilbilgisini değiştirir.
// Verilmezse varsayılan anahtarla kurulmuş bir dialect.MySQLGrammar kullanılır.
//
//	db := typepick.NewDB(sqlDB, "mysql", typepick.WithGrammar(dialect.MySQL(rw)))
func WithGrammar(g Grammar) Option {
	return func(d *DB) {
		d.grammar = g
	}
}

// WithScanner, dönen satırları şekillendiren tarayıcıyı değiştirir.
func WithScanner(s Scanner) Option {
	return func(d *DB) {
		d.scanner = s
	}
}

// WithDebug, debug modunu açar. Debug açıkken başarılı cümleler ve yapılandırma
// uyarıları da loglanır; hatalar her zaman loglanır.
func WithDebug(enabled bool) Option {
	return func(d *DB) {
		d.debug = enabled
	}
}

// WithLogger, özel bir logger tanımlar.
//
//	db := typepick.NewDB(sqlDB, "mysql",
//	    typepick.WithDebug(true),
//	    typepick.WithLogger(typepick.NewLogrusLogger(logrus.New())),
//	)
func WithLogger(logger Logger) Option {
	return func(d *DB) {
		d.logger = logger
	}
}

// WithMetrics, cümle sürelerini ve sonuçlarını kaydedecek toplayıcıyı tanımlar.
func WithMetrics(m Metrics) Option {
	return func(d *DB) {
		d.metrics = m
	}
}

// WithTracer, her Execute/Query çağrısı için span açacak tracer'ı tanımlar.
func WithTracer(t trace.Tracer) Option {
	return func(d *DB) {
		d.tracer = t
	}
}

// WithDefaultKey, AES dönüşümlerinde anahtar verilmediğinde kullanılacak ham anahtarı
// tanımlar. WithGrammar ile özel bir dilbilgisi verilmişse etkisizdir.
func WithDefaultKey(key string) Option {
	return func(d *DB) {
		d.defaultKey = key
	}
}

// WithTablePrefix, In ile verilen tüm tablo adlarına önek ekler.
//
//	db := typepick.NewDB(sqlDB, "mysql", typepick.WithTablePrefix("app_"))
//	// db.Builder().In("users") → "app_users"
func WithTablePrefix(prefix string) Option {
	return func(d *DB) {
		d.prefix = prefix
	}
}

// applyOptions, verilen Option'ları sırayla uygular; nil olanlar atlanır.
func applyOptions(d *DB, opts []Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
}
