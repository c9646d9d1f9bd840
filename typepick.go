// Package typepick, zincirleme çağrılarla biriktirilen sorgu niyetini isimli
// parametreli SQL cümlelerine çeviren, bu cümleleri tek bir transaction içinde
// çalıştıran ve kolon bazlı şifreleme dönüşümlerini SQL fonksiyon çağrıları olarak
// uygulayan bir kütüphanedir.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package typepick

import (
	"context"

	"github.com/XSAM/otelsql"
	"github.com/jmoiron/sqlx"
)

// Version, go-typepick kütüphanesinin mevcut sürümünü belirtir.
const Version = "0.1.0-alpha"

// Connect, verilen sürücü ve veri kaynağıyla yeni bir bağlantı havuzu açar ve
// bağlantıyı doğrular. Desteklenen sürücüler: "mysql", "postgres", "sqlite".
// Sürücü otelsql ile sarılır; global TracerProvider tanımlıysa her sürücü çağrısı
// Execute span'inin altında kendi span'ini açar.
//
//	db, err := typepick.Connect("mysql", "user:pass@tcp(localhost:3306)/dbname")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
func Connect(driverName, dataSourceName string, opts ...Option) (*DB, error) {
	sqlDB, err := otelsql.Open(driverName, dataSourceName)
	if err != nil {
		return nil, driverError("connect", "", err)
	}
	x := sqlx.NewDb(sqlDB, driverName)

	// Bağlantıyı doğrula
	if err := x.PingContext(context.Background()); err != nil {
		x.Close()
		return nil, driverError("ping", "", err)
	}

	return newDB(x, opts), nil
}

// ConnectWithConfig, Config'i doğrular, DSN'i üretir, havuz ayarlarını uygular ve
// bağlanır. Config'teki Prefix, DefaultKey ve Debug alanları Option'lardan önce
// uygulanır; aynı ayar opts içinde verilirse opts kazanır.
//
//	cfg, _ := typepick.LoadConfig("typepick.yaml")
//	_ = cfg.ApplyEnv(".env")
//	db, err := typepick.ConnectWithConfig(cfg, typepick.WithLogger(logger))
func ConnectWithConfig(cfg *Config, opts ...Option) (*DB, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	base := []Option{
		WithTablePrefix(cfg.Prefix),
		WithDefaultKey(cfg.DefaultKey),
		WithDebug(cfg.Debug),
	}

	db, err := Connect(cfg.Driver, cfg.DSN(), append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	// Bağlantı havuz ayarlarını uygula
	if cfg.MaxOpenConns > 0 {
		db.DB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.DB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		db.DB.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	if cfg.ConnMaxIdle > 0 {
		db.DB.SetConnMaxIdleTime(cfg.ConnMaxIdle)
	}

	return db, nil
}
