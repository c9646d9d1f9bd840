package typepick

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/hcl"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------
//  Config dosyadan (YAML veya HCL), .env dosyalarından ve süreç ortamından
//  yüklenebilir. Öncelik sırası: DefaultConfig < dosya < .env < ortam değişkeni.
//
//  -- @author   Ahmet ALTUN
//  -- @github   github.com/biyonik
//  -- @linkedin linkedin.com/in/biyonik
//  -- @email    ahmet.altun60@gmail.com
// -----------------------------------------------------------------------------

// EnvPrefix, ApplyEnv'in okuduğu değişkenlerin önekidir (örn. TYPEPICK_HOST).
const EnvPrefix = "TYPEPICK_"

// fileConfig, dosyada bulunan alanları ayırt etmek için pointer alanlar kullanır.
// Süreler "5m" gibi metin olarak yazılır.
type fileConfig struct {
	Driver       *string `yaml:"driver" hcl:"driver"`
	Host         *string `yaml:"host" hcl:"host"`
	Port         *int    `yaml:"port" hcl:"port"`
	Database     *string `yaml:"database" hcl:"database"`
	Username     *string `yaml:"username" hcl:"username"`
	Password     *string `yaml:"password" hcl:"password"`
	Charset      *string `yaml:"charset" hcl:"charset"`
	Collation    *string `yaml:"collation" hcl:"collation"`
	Prefix       *string `yaml:"prefix" hcl:"prefix"`
	MaxOpenConns *int    `yaml:"max_open_conns" hcl:"max_open_conns"`
	MaxIdleConns *int    `yaml:"max_idle_conns" hcl:"max_idle_conns"`
	ConnMaxLife  *string `yaml:"conn_max_life" hcl:"conn_max_life"`
	ConnMaxIdle  *string `yaml:"conn_max_idle" hcl:"conn_max_idle"`
	TLS          *bool   `yaml:"tls" hcl:"tls"`
	DefaultKey   *string `yaml:"default_key" hcl:"default_key"`
	Debug        *bool   `yaml:"debug" hcl:"debug"`
}

// LoadConfig, DefaultConfig üzerine verilen dosyayı uygular.
// Uzantı ".yaml"/".yml" ise YAML, ".hcl" ise HCL olarak çözülür.
func LoadConfig(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "typepick: read config")
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &fc)
	case ".hcl":
		err = hcl.Decode(&fc, string(raw))
	default:
		return nil, errors.Errorf("typepick: unsupported config format %q", ext)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "typepick: decode %s", path)
	}

	cfg := DefaultConfig()
	if err := fc.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	setString(&cfg.Driver, fc.Driver)
	setString(&cfg.Host, fc.Host)
	setString(&cfg.Database, fc.Database)
	setString(&cfg.Username, fc.Username)
	setString(&cfg.Password, fc.Password)
	setString(&cfg.Charset, fc.Charset)
	setString(&cfg.Collation, fc.Collation)
	setString(&cfg.Prefix, fc.Prefix)
	setString(&cfg.DefaultKey, fc.DefaultKey)

	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.MaxOpenConns != nil {
		cfg.MaxOpenConns = *fc.MaxOpenConns
	}
	if fc.MaxIdleConns != nil {
		cfg.MaxIdleConns = *fc.MaxIdleConns
	}
	if fc.TLS != nil {
		cfg.TLS = *fc.TLS
	}
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}

	if fc.ConnMaxLife != nil {
		d, err := time.ParseDuration(*fc.ConnMaxLife)
		if err != nil {
			return errors.Wrap(err, "typepick: conn_max_life")
		}
		cfg.ConnMaxLife = d
	}
	if fc.ConnMaxIdle != nil {
		d, err := time.ParseDuration(*fc.ConnMaxIdle)
		if err != nil {
			return errors.Wrap(err, "typepick: conn_max_idle")
		}
		cfg.ConnMaxIdle = d
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ApplyEnv, TYPEPICK_* değişkenlerini Config üzerine uygular.
//
// Verilen .env dosyaları godotenv ile okunur; aynı değişken süreç ortamında da
// tanımlıysa süreç ortamındaki değer kazanır. Dosya verilmezse yalnızca süreç
// ortamı okunur.
func (c *Config) ApplyEnv(files ...string) error {
	env := make(map[string]string)
	if len(files) > 0 {
		read, err := godotenv.Read(files...)
		if err != nil {
			return errors.Wrap(err, "typepick: read env files")
		}
		env = read
	}

	lookup := func(name string) (string, bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			return v, true
		}
		v, ok := env[EnvPrefix+name]
		return v, ok
	}

	strs := map[string]*string{
		"DRIVER":      &c.Driver,
		"HOST":        &c.Host,
		"DATABASE":    &c.Database,
		"USERNAME":    &c.Username,
		"PASSWORD":    &c.Password,
		"CHARSET":     &c.Charset,
		"COLLATION":   &c.Collation,
		"PREFIX":      &c.Prefix,
		"DEFAULT_KEY": &c.DefaultKey,
	}
	for name, dst := range strs {
		if v, ok := lookup(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":           &c.Port,
		"MAX_OPEN_CONNS": &c.MaxOpenConns,
		"MAX_IDLE_CONNS": &c.MaxIdleConns,
	}
	for name, dst := range ints {
		if v, ok := lookup(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrapf(err, "typepick: %s%s", EnvPrefix, name)
			}
			*dst = n
		}
	}

	durations := map[string]*time.Duration{
		"CONN_MAX_LIFE": &c.ConnMaxLife,
		"CONN_MAX_IDLE": &c.ConnMaxIdle,
	}
	for name, dst := range durations {
		if v, ok := lookup(name); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				return errors.Wrapf(err, "typepick: %s%s", EnvPrefix, name)
			}
			*dst = d
		}
	}

	bools := map[string]*bool{
		"TLS":   &c.TLS,
		"DEBUG": &c.Debug,
	}
	for name, dst := range bools {
		if v, ok := lookup(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(err, "typepick: %s%s", EnvPrefix, name)
			}
			*dst = b
		}
	}

	return nil
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate, Config alanlarını struct etiketlerine göre doğrular.
// Dönen hata errors.Is(err, ErrInvalidConfig) ile eşleşir.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, ErrInvalidConfig.Error())
	}

	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fe.Field() + " failed '" + fe.Tag() + "'"
	}
	return &configError{msgs: msgs}
}

type configError struct {
	msgs []string
}

func (e *configError) Error() string {
	return ErrInvalidConfig.Error() + ": " + strings.Join(e.msgs, ", ")
}

func (e *configError) Is(target error) bool {
	return target == ErrInvalidConfig
}
