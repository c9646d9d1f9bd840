package validation

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidOperator, tüm OperatorError değerlerinin errors.Is ile eşleştiği hatadır.
var ErrInvalidOperator = errors.New("typepick: invalid SQL operator")

// knownOperators, builder'ın tanıdığı SQL operatörleridir.
// Listede olmayan operatörler reddedilmez; yalnızca debug modunda uyarı üretir.
var knownOperators = map[string]bool{
	// Karşılaştırma operatörleri
	"=":  true,
	"!=": true,
	"<>": true,
	"<":  true,
	">":  true,
	"<=": true,
	">=": true,

	// Desen eşleştirme operatörleri
	"LIKE":     true,
	"NOT LIKE": true,
	"REGEXP":   true,

	// NULL kontrolü operatörleri
	"IS":     true,
	"IS NOT": true,

	// Set operatörleri
	"IN":     true,
	"NOT IN": true,

	"<=>": true, // MySQL NULL güvenli eşitliği
}

// operatorShape, SQL metnine yazılabilecek operatör biçimini tanımlar:
// ya en fazla üç karakterlik bir sembol dizisi ya da boşlukla ayrılmış büyük harfli kelimeler.
var operatorShape = regexp.MustCompile(`^(?:[=<>!~]{1,3}|[A-Z]+(?: [A-Z]+)*)$`)

// statementKeywords, operatör yerine yazıldığında karşılaştırmayı yeni bir ifadeye
// dönüştürebilecek anahtar kelimelerdir.
var statementKeywords = map[string]bool{
	"SELECT": true, "UNION": true, "INSERT": true, "UPDATE": true, "DELETE": true,
	"DROP": true, "ALTER": true, "CREATE": true, "TRUNCATE": true, "REPLACE": true,
	"GRANT": true, "CALL": true, "INTO": true, "FROM": true, "WHERE": true,
	"AND": true, "OR": true, "XOR": true, "HAVING": true, "LIMIT": true,
	"ORDER": true, "GROUP": true,
}

// NormalizeOperator, operatörü büyük harfe çevirir, kenar boşluklarını kırpar ve
// kelimeler arasındaki çoklu boşlukları teke indirir.
func NormalizeOperator(op string) string {
	return strings.Join(strings.Fields(strings.ToUpper(op)), " ")
}

// ValidateOperator, operatörün SQL metnine güvenle yazılabilecek biçimde olup olmadığını kontrol eder.
// Kelime dağarcığı kontrol edilmez: tanınmayan ama güvenli biçimdeki operatörler olduğu gibi geçer.
func ValidateOperator(op string) error {
	if op == "" {
		return &OperatorError{Operator: op, Reason: "operator cannot be empty"}
	}

	if !operatorShape.MatchString(op) {
		return &OperatorError{Operator: op, Reason: "operator contains characters that cannot appear in a comparison"}
	}

	for _, word := range strings.Fields(op) {
		if statementKeywords[word] {
			return &OperatorError{Operator: op, Reason: "operator contains statement keyword " + word}
		}
	}

	return nil
}

// IsKnownOperator, normalize edilmiş operatörün bilinen listede olup olmadığını döndürür.
func IsKnownOperator(op string) bool {
	return knownOperators[NormalizeOperator(op)]
}

// NormalizeConnective, WHERE bağlacını (AND / OR) normalize eder ve doğrular.
func NormalizeConnective(c string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(c))
	if normalized != "AND" && normalized != "OR" {
		return "", &OperatorError{Operator: c, Reason: "logical operator must be AND or OR"}
	}
	return normalized, nil
}

// NormalizeDirection, ORDER BY yönünü (ASC / DESC) normalize eder ve doğrular.
func NormalizeDirection(dir string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(dir))
	if normalized != "ASC" && normalized != "DESC" {
		return "", &OperatorError{Operator: dir, Reason: "order direction must be ASC or DESC"}
	}
	return normalized, nil
}

// OperatorError, operatör doğrulama hatasını temsil eder.
type OperatorError struct {
	Operator string
	Reason   string
}

// Error, error arayüzünü uygular ve hatayı açıklayıcı string olarak döner.
func (e *OperatorError) Error() string {
	return "typepick: invalid operator '" + e.Operator + "': " + e.Reason
}

// Unwrap, errors.Is(err, ErrInvalidOperator) kontrolünü mümkün kılar.
func (e *OperatorError) Unwrap() error {
	return ErrInvalidOperator
}
