package crypt

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/hex"
)

// Seal, plaintext'i veritabanına gitmeden önce uygulama tarafında şifreler.
//
// AES-256-CBC ve PKCS#7 dolgusu kullanılır. Anahtar ValidateKey ile türetilir,
// IV olarak anahtarın ilk 16 byte'ı kullanılır. Çıktı base64(ciphertext) olup
// use=BASE64 için bir kez daha base64, use=HEX için hex olarak kodlanır.
func (r *Rewriter) Seal(plaintext string, use Encoding, key []byte) (string, error) {
	k, err := r.Key(key)
	if err != nil {
		return "", err
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	ct := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, k[:aes.BlockSize]).CryptBlocks(ct, padded)

	out := base64.StdEncoding.EncodeToString(ct)
	switch use {
	case EncodingBase64:
		out = base64.StdEncoding.EncodeToString([]byte(out))
	case EncodingHex:
		out = hex.EncodeToString([]byte(out))
	}

	return out, nil
}

// Open, Seal ile üretilmiş bir değeri çözer.
func (r *Rewriter) Open(ciphertext string, use Encoding, key []byte) (string, error) {
	k, err := r.Key(key)
	if err != nil {
		return "", err
	}

	encoded := []byte(ciphertext)
	switch use {
	case EncodingBase64:
		if encoded, err = base64.StdEncoding.DecodeString(ciphertext); err != nil {
			return "", ErrInvalidCiphertext
		}
	case EncodingHex:
		if encoded, err = hex.DecodeString(ciphertext); err != nil {
			return "", ErrInvalidCiphertext
		}
	}

	ct, err := base64.StdEncoding.DecodeString(string(encoded))
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return "", ErrInvalidCiphertext
	}

	block, err := aes.NewCipher(k)
	if err != nil {
		return "", err
	}

	plain := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, k[:aes.BlockSize]).CryptBlocks(plain, ct)

	plain, err = pkcs7Unpad(plain, aes.BlockSize)
	if err != nil {
		return "", err
	}

	return string(plain), nil
}

func pkcs7Pad(b []byte, size int) []byte {
	n := size - len(b)%size
	return append(b, bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(b []byte, size int) ([]byte, error) {
	if len(b) == 0 || len(b)%size != 0 {
		return nil, ErrInvalidCiphertext
	}

	n := int(b[len(b)-1])
	if n == 0 || n > size || n > len(b) {
		return nil, ErrInvalidCiphertext
	}
	for _, c := range b[len(b)-n:] {
		if int(c) != n {
			return nil, ErrInvalidCiphertext
		}
	}

	return b[:len(b)-n], nil
}
