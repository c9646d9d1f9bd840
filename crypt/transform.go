// Package crypt, kolon seviyesindeki şifreleme ve çözme dönüşümlerini SQL fonksiyon
// çağrılarına çeviren ifade üreticisini ve literal değerler için simetrik AES
// yardımcılarını içerir.
//
// Üretilen ifadeler MySQL fonksiyonlarını (AES_ENCRYPT, TO_BASE64, HEX, MD5, SHA2)
// kullanır. Anahtarlar hiçbir zaman ham haliyle SQL metnine yazılmaz: her AES ifadesinden
// önce ValidateKey ile 32 byte'a türetilir ve hex literal olarak gömülür.
//
// Yazar: Ahmet ALTUN
// Github: github.com/biyonik
// LinkedIn: linkedin.com/in/biyonik
// Email: ahmet.altun60@gmail.com
package crypt

import "strings"

// Method, bir kolona uygulanacak dönüşüm yöntemini belirtir.
type Method string

const (
	MethodAES    Method = "AES"
	MethodBase64 Method = "BASE64"
	MethodHex    Method = "HEX"
	MethodMD5    Method = "MD5"
	MethodSHA256 Method = "SHA256"
)

// ParseMethod, yöntemi büyük harfe çevirir. Bilinmeyen yöntemler reddedilmez;
// ifade üretimi sırasında ErrUnsupportedTransform ile sonuçlanır.
func ParseMethod(s string) Method {
	return Method(strings.ToUpper(strings.TrimSpace(s)))
}

// IsOneWay, yöntemin geri döndürülemez bir hash olup olmadığını döndürür.
func (m Method) IsOneWay() bool {
	return m == MethodMD5 || m == MethodSHA256
}

// Encoding, şifreli çıktının hangi kodlamayla saklandığını belirtir.
type Encoding string

const (
	EncodingNone   Encoding = ""
	EncodingHex    Encoding = "HEX"
	EncodingBase64 Encoding = "BASE64"
)

// ParseEncoding, "HEX" ve "BASE64" dışındaki her değeri kodlamasız kabul eder.
func ParseEncoding(s string) Encoding {
	switch e := Encoding(strings.ToUpper(strings.TrimSpace(s))); e {
	case EncodingHex, EncodingBase64:
		return e
	default:
		return EncodingNone
	}
}

// Direction, dönüşümün yönüdür.
type Direction string

const (
	DirectionEncrypt Direction = "encrypt"
	DirectionDecrypt Direction = "decrypt"
)

// Transform, tek bir kolonun dönüşüm kuralıdır.
// Key boşsa Rewriter'ın varsayılan anahtarı kullanılır.
type Transform struct {
	Method Method
	Key    []byte
	Use    Encoding
}

// AES, verilen anahtar ve kodlama ile bir AES dönüşümü oluşturur.
func AES(key string, use Encoding) Transform {
	return Transform{Method: MethodAES, Key: []byte(key), Use: use}
}

// Base64 bir BASE64 dönüşümü oluşturur.
func Base64(use Encoding) Transform {
	return Transform{Method: MethodBase64, Use: use}
}

// Hex bir HEX dönüşümü oluşturur.
func Hex(use Encoding) Transform {
	return Transform{Method: MethodHex, Use: use}
}

// MD5 tek yönlü bir MD5 dönüşümü oluşturur.
func MD5() Transform {
	return Transform{Method: MethodMD5}
}

// SHA256 tek yönlü bir SHA-256 dönüşümü oluşturur.
func SHA256() Transform {
	return Transform{Method: MethodSHA256}
}

// ParseTransforms, gevşek tipli bir kolon → seçenek haritasını Transform haritasına çevirir.
//
// Kabul edilen değerler: Transform, *Transform, map[string]string ve map[string]any
// ("method", "key", "use" anahtarlarıyla). Diğer tüm değerler hata üretmeden atlanır.
func ParseTransforms(in map[string]any) map[string]Transform {
	out := make(map[string]Transform, len(in))

	for column, value := range in {
		switch v := value.(type) {
		case Transform:
			out[column] = v
		case *Transform:
			if v != nil {
				out[column] = *v
			}
		case map[string]string:
			out[column] = Transform{
				Method: ParseMethod(v["method"]),
				Key:    keyBytes(v["key"]),
				Use:    ParseEncoding(v["use"]),
			}
		case map[string]any:
			t := Transform{}
			if s, ok := v["method"].(string); ok {
				t.Method = ParseMethod(s)
			}
			switch k := v["key"].(type) {
			case string:
				t.Key = keyBytes(k)
			case []byte:
				t.Key = k
			}
			if s, ok := v["use"].(string); ok {
				t.Use = ParseEncoding(s)
			}
			out[column] = t
		}
	}

	return out
}

func keyBytes(s string) []byte {
	if s == "" {
		return nil
	}
	return []byte(s)
}
