package typepick

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"
)

// ----------------------------------------------------------------------------
// Logger Interface
// ----------------------------------------------------------------------------

// RedactedValue, şifreleme tanımlı kolonlara bağlanan değerlerin loglardaki karşılığıdır.
const RedactedValue = "[REDACTED]"

// LogEntry, çalıştırılan tek bir cümlenin log kaydıdır.
type LogEntry struct {
	StatementID string
	Kind        QueryKind
	Query       string
	Args        map[string]any // şifreli kolonların değerleri RedactedValue ile değiştirilmiş
	Duration    time.Duration
	Err         error
}

// Logger, çalışan SQL cümlelerini, parametrelerini, süresini ve hatalarını izlemek
// için kullanılan arayüzdür. Debug, yapılandırma uyarıları içindir.
type Logger interface {
	Log(ctx context.Context, entry LogEntry)
	Debug(msg string, fields map[string]any)
}

// NopLogger tüm logları yutar.
type NopLogger struct{}

// Log, gelen kaydı yok sayar.
func (NopLogger) Log(context.Context, LogEntry) {}

// Debug, gelen mesajı yok sayar.
func (NopLogger) Debug(string, map[string]any) {}

// LogrusLogger, Logger arayüzünü logrus üzerinden uygular.
type LogrusLogger struct {
	log logrus.FieldLogger
}

// NewLogrusLogger, verilen logrus logger'ı (veya Entry'yi) saran bir Logger döndürür.
// log nil ise logrus.StandardLogger kullanılır.
func NewLogrusLogger(log logrus.FieldLogger) *LogrusLogger {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &LogrusLogger{log: log}
}

// Log, başarılı cümleleri debug, başarısız olanları error seviyesinde yazar.
// Bağlamda geçerli bir span varsa trace_id alanı da eklenir.
func (l *LogrusLogger) Log(ctx context.Context, e LogEntry) {
	entry := l.log.WithFields(logrus.Fields{
		"statement_id": e.StatementID,
		"kind":         e.Kind.String(),
		"query":        e.Query,
		"bindings":     e.Args,
		"duration":     e.Duration,
	})

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		entry = entry.WithField("trace_id", sc.TraceID().String())
	}

	if e.Err != nil {
		entry.WithError(e.Err).Error("statement failed")
		return
	}
	entry.Debug("statement executed")
}

// Debug, mesajı verilen alanlarla debug seviyesinde yazar.
func (l *LogrusLogger) Debug(msg string, fields map[string]any) {
	l.log.WithFields(logrus.Fields(fields)).Debug(msg)
}

// redactArgs, hidden içindeki parametrelerin (":" önekli) değerlerini gizler.
func redactArgs(b Bindings, hidden map[string]bool) map[string]any {
	args := b.Args()
	for name := range b {
		if hidden[name] {
			args[strings.TrimPrefix(name, ":")] = RedactedValue
		}
	}
	return args
}
