package crypt

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/biyonik/go-typepick/internal/validation"
)

// KeySize, ValidateKey çıktısının byte uzunluğudur (AES-256).
const KeySize = 32

// ValidateKey, ham anahtarı SHA-256 ile 32 byte'a türetir.
// Aynı girdi her zaman aynı çıktıyı verir; çıktı uzunluğu girdiden bağımsızdır.
func ValidateKey(raw []byte) [KeySize]byte {
	return sha256.Sum256(raw)
}

// Rewriter, kolon dönüşümlerini SQL ifadelerine çevirir.
// Bir Rewriter'ın tek durumu varsayılan anahtardır; eşzamanlı kullanım için güvenlidir.
//
// AES anahtarı tırnaklı metin ('<anahtar>') yerine hex literal (X'<hex>') olarak
// yazılır. MySQL'e giden byte'lar aynıdır, ancak üretilen SQL metni eski tırnaklı
// çıktıdan farklıdır; SQL'i metin olarak karşılaştıran çağıranlar bunu hesaba katmalıdır.
type Rewriter struct {
	defaultKey []byte
}

// NewRewriter, boş anahtarlı dönüşümler için defaultKey kullanan bir Rewriter oluşturur.
func NewRewriter(defaultKey []byte) *Rewriter {
	return &Rewriter{defaultKey: append([]byte(nil), defaultKey...)}
}

// HasDefaultKey, varsayılan anahtarın yapılandırılıp yapılandırılmadığını döndürür.
func (r *Rewriter) HasDefaultKey() bool {
	return len(r.defaultKey) > 0
}

// Key, ham anahtarı (boşsa varsayılan anahtarı) türetilmiş 32 byte'lık anahtara çevirir.
func (r *Rewriter) Key(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		raw = r.defaultKey
	}
	if len(raw) == 0 {
		return nil, ErrMissingKey
	}

	k := ValidateKey(raw)
	return k[:], nil
}

// Encrypt, expr ifadesini (kolon adı veya ":placeholder") verilen dönüşümle sarar.
//
//	BASE64 → TO_BASE64(x), HEX kodlamasıyla TO_BASE64(HEX(x))
//	HEX    → HEX(x), BASE64 kodlamasıyla TO_BASE64(FROM_BASE64(x))
//	AES    → AES_ENCRYPT(x, K), kodlamaya göre TO_BASE64(...) veya HEX(...)
//	MD5    → MD5(x)
//	SHA256 → SHA2(x, 256)
func (r *Rewriter) Encrypt(expr string, t Transform) (string, error) {
	if err := validation.ValidateExpression(expr); err != nil {
		return "", err
	}

	switch t.Method {
	case MethodAES:
		return r.aesEncrypt(expr, t.Use, t.Key)
	case MethodBase64:
		if t.Use == EncodingHex {
			return "TO_BASE64(HEX(" + expr + "))", nil
		}
		return "TO_BASE64(" + expr + ")", nil
	case MethodHex:
		if t.Use == EncodingBase64 {
			return "TO_BASE64(FROM_BASE64(" + expr + "))", nil
		}
		return "HEX(" + expr + ")", nil
	case MethodMD5:
		return "MD5(" + expr + ")", nil
	case MethodSHA256:
		return "SHA2(" + expr + ", 256)", nil
	default:
		return "", &TransformError{Method: t.Method, Direction: DirectionEncrypt, Reason: "unknown method"}
	}
}

// Decrypt, Encrypt'in tersini üretir. MD5 ve SHA256 tek yönlü olduğundan hata döner.
//
//	BASE64 → FROM_BASE64(x)
//	HEX    → UNHEX(x)
//	AES    → AES_DECRYPT(x, K), x kodlamaya göre önce FROM_BASE64 veya UNHEX ile açılır
func (r *Rewriter) Decrypt(expr string, t Transform) (string, error) {
	if t.Method.IsOneWay() {
		return "", &TransformError{Method: t.Method, Direction: DirectionDecrypt, Reason: "one-way hash cannot be decrypted"}
	}

	if err := validation.ValidateExpression(expr); err != nil {
		return "", err
	}

	switch t.Method {
	case MethodAES:
		return r.aesDecrypt(expr, t.Use, t.Key)
	case MethodBase64:
		return "FROM_BASE64(" + expr + ")", nil
	case MethodHex:
		return "UNHEX(" + expr + ")", nil
	default:
		return "", &TransformError{Method: t.Method, Direction: DirectionDecrypt, Reason: "unknown method"}
	}
}

// SQLEncrypt, kolon yapılandırmasından bağımsız olarak bir AES_ENCRYPT ifadesi üretir.
// expr bir kolon adı veya isimli parametre olmalıdır; SQL'e olduğu gibi yazılır.
func (r *Rewriter) SQLEncrypt(expr string, use Encoding, key []byte) (string, error) {
	if err := validation.ValidateExpression(expr); err != nil {
		return "", err
	}
	return r.aesEncrypt(expr, use, key)
}

// SQLDecrypt, şifreli bir literal değer için AES_DECRYPT ifadesi üretir.
// Değer SQL metnine hex literal olarak gömülür, bu yüzden kaçış gerektirmez.
func (r *Rewriter) SQLDecrypt(value string, use Encoding, key []byte) (string, error) {
	return r.aesDecrypt(hexLiteral([]byte(value)), use, key)
}

func (r *Rewriter) aesEncrypt(expr string, use Encoding, key []byte) (string, error) {
	k, err := r.Key(key)
	if err != nil {
		return "", err
	}

	inner := fmt.Sprintf("AES_ENCRYPT(%s, %s)", expr, hexLiteral(k))
	switch use {
	case EncodingBase64:
		return "TO_BASE64(" + inner + ")", nil
	case EncodingHex:
		return "HEX(" + inner + ")", nil
	default:
		return inner, nil
	}
}

func (r *Rewriter) aesDecrypt(expr string, use Encoding, key []byte) (string, error) {
	k, err := r.Key(key)
	if err != nil {
		return "", err
	}

	switch use {
	case EncodingBase64:
		expr = "FROM_BASE64(" + expr + ")"
	case EncodingHex:
		expr = "UNHEX(" + expr + ")"
	}
	return fmt.Sprintf("AES_DECRYPT(%s, %s)", expr, hexLiteral(k)), nil
}

// hexLiteral, byte dizisini MySQL hex literal'ine (X'..') çevirir.
func hexLiteral(b []byte) string {
	return "X'" + hex.EncodeToString(b) + "'"
}
