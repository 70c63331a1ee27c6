package render

import (
	"encoding/base64"
	"fmt"
	"unicode/utf8"

	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
)

// Filter is a string transform callable from a template pipeline,
// e.g. {{ .password | md5_hash }}.
type Filter func(string) (string, error)

// Filters maps template function names to filters.
type Filters map[string]Filter

// DefaultFilters returns the built-in filter table.
func DefaultFilters() Filters {
	return Filters{
		"md5_hash":    MD5Hash,
		"des_hash":    DESHash,
		"sha512_hash": SHA512Hash,
		"b64encode":   B64Encode,
		"b64decode":   B64Decode,
	}
}

// Register adds or replaces a filter.
func (f Filters) Register(name string, fn Filter) {
	f[name] = fn
}

// MD5Hash returns a salted md5-crypt ($1$) hash of txt.
func MD5Hash(txt string) (string, error) {
	return md5_crypt.New().Generate([]byte(txt), nil)
}

// DESHash returns a salted traditional DES crypt hash of txt.
func DESHash(txt string) (string, error) {
	salt, err := randomSalt(2)
	if err != nil {
		return "", err
	}
	return desCrypt(txt, salt)
}

// SHA512Hash returns a salted sha512-crypt ($6$) hash of txt.
func SHA512Hash(txt string) (string, error) {
	return sha512_crypt.New().Generate([]byte(txt), nil)
}

// B64Encode encodes txt with the URL-safe, padded base64 alphabet.
func B64Encode(txt string) (string, error) {
	return base64.URLEncoding.EncodeToString([]byte(txt)), nil
}

// B64Decode reverses B64Encode. The decoded bytes must be valid UTF-8.
func B64Decode(txt string) (string, error) {
	raw, err := base64.URLEncoding.DecodeString(txt)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEncoding, err)
	}
	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: decoded value is not valid UTF-8", ErrEncoding)
	}
	return string(raw), nil
}
