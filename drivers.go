package typepick

import (
	"strconv"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"modernc.org/sqlite"
)

// modernc.org/sqlite kendini "sqlite" adıyla kaydeder; sqlx bu adı tanımadığı için
// isimli parametrelerin "?" biçimine çevrileceği bildirilir.
func init() {
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// driverError, sürücü hatasını yığın bilgisiyle sarar ve sürücünün kendi hata kodunu
// ayıklar. Zaten *DriverError olan hatalar olduğu gibi döner.
func driverError(op, query string, err error) error {
	if err == nil {
		return nil
	}

	var de *DriverError
	if errors.As(err, &de) {
		return err
	}

	return &DriverError{
		Op:    op,
		Code:  driverCode(err),
		Query: query,
		Err:   errors.WithStack(err),
	}
}

// driverCode, MySQL hata numarasını, Postgres SQLSTATE kodunu veya SQLite sonuç
// kodunu metin olarak döndürür. Tanınmayan hatalar için boş döner.
func driverCode(err error) string {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return strconv.Itoa(int(myErr.Number))
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return strconv.Itoa(liteErr.Code())
	}

	return ""
}
