// Package validation, SQL ifadelerine string olarak gömülen her parçanın (tablo, kolon,
// alias, placeholder, operatör, sıralama yönü ve bağlaç) güvenli olduğunu doğrulayan
// dahili yardımcı fonksiyonları içerir.
//
// Builder değerleri her zaman parametre bağlama ile gönderir; ancak kolon isimleri,
// şifreleme ifadeleri ve operatörler SQL metnine doğrudan yazılır. Bu paket, o metne
// giren her şeyin önce buradan geçmesini sağlar.
//
// @author Ahmet ALTUN
// @github github.com/biyonik
// @linkedin linkedin.com/in/biyonik
// @email ahmet.altun60@gmail.com
package validation

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier, tüm IdentifierError değerlerinin errors.Is ile eşleştiği hatadır.
var ErrInvalidIdentifier = errors.New("typepick: invalid SQL identifier")

// identifierRegex, SQL tabloları ve kolonları için geçerli identifier'ları doğrular.
// Geçerli karakterler: harfler, rakamlar, alt çizgi. İlk karakter harf veya alt çizgi olmalıdır.
// Noktalar (.) table.column referanslarını destekler.
var identifierRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// aliasRegex, "table as alias" veya "table alias" formatlarını eşler.
var aliasRegex = regexp.MustCompile(`(?i)^([a-zA-Z_][a-zA-Z0-9_]*)\s+(?:as\s+)?([a-zA-Z_][a-zA-Z0-9_]*)$`)

// placeholderRegex, ":name" biçimindeki isimli parametreleri eşler.
var placeholderRegex = regexp.MustCompile(`^:[a-zA-Z_][a-zA-Z0-9_]*(\.[a-zA-Z_][a-zA-Z0-9_]*)?$`)

// maxIdentifierLength, MySQL'in identifier sınırının güvenli bir üst değeridir.
const maxIdentifierLength = 128

// ValidateIdentifier, verilen identifier'ın geçerli bir SQL identifier olup olmadığını kontrol eder.
// Başarılıysa nil döner, geçersizse açıklayıcı bir hata döner.
func ValidateIdentifier(id string) error {
	if id == "" {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier cannot be empty",
		}
	}

	if len(id) > maxIdentifierLength {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier exceeds maximum length of 128 characters",
		}
	}

	if !identifierRegex.MatchString(id) {
		return &IdentifierError{
			Identifier: id,
			Reason:     "identifier contains invalid characters; only letters, numbers, underscores, and dots are allowed",
		}
	}

	return nil
}

// ValidateTableWithAlias, bir tablo referansını (alias ile birlikte olabilir) doğrular.
// Desteklenen formatlar: "table", "table alias", "table as alias".
// Döndürür: tablo adı, alias (varsa) ve hata.
func ValidateTableWithAlias(table string) (name, alias string, err error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return "", "", &IdentifierError{
			Identifier: table,
			Reason:     "table name cannot be empty",
		}
	}

	if matches := aliasRegex.FindStringSubmatch(table); matches != nil {
		name, alias = matches[1], matches[2]

		if err := ValidateIdentifier(name); err != nil {
			return "", "", err
		}
		if err := ValidateIdentifier(alias); err != nil {
			return "", "", &IdentifierError{
				Identifier: alias,
				Reason:     "invalid alias: " + err.Error(),
			}
		}

		return name, alias, nil
	}

	if err := ValidateIdentifier(table); err != nil {
		return "", "", err
	}

	return table, "", nil
}

// ValidateExpression, şifreleme fonksiyonlarının içine yazılacak ifadeyi doğrular.
// Yalnızca bir kolon adı ("email", "users.email") veya isimli parametre (":email1") kabul edilir.
func ValidateExpression(expr string) error {
	if strings.HasPrefix(expr, ":") {
		if len(expr) > maxIdentifierLength+1 || !placeholderRegex.MatchString(expr) {
			return &IdentifierError{
				Identifier: expr,
				Reason:     "placeholder must be ':' followed by a valid identifier",
			}
		}
		return nil
	}

	return ValidateIdentifier(expr)
}

// IdentifierError, identifier doğrulama hatalarını temsil eder.
type IdentifierError struct {
	Identifier string
	Reason     string
}

// Error, error arayüzünü uygular.
func (e *IdentifierError) Error() string {
	if e.Identifier == "" {
		return "typepick: invalid identifier: " + e.Reason
	}
	return "typepick: invalid identifier '" + e.Identifier + "': " + e.Reason
}

// Unwrap, errors.Is(err, ErrInvalidIdentifier) kontrolünü mümkün kılar.
func (e *IdentifierError) Unwrap() error {
	return ErrInvalidIdentifier
}
