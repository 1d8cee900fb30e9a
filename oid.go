package nkit

import "strings"

const oidLength = 24

var defaultOID = strings.Repeat("f", oidLength)

// MongoOID returns a MongoOID value from its 24 character hex form. Upper
// case digits are accepted and normalized. Invalid input yields Undefined.
func MongoOID(hex string) Value {
	if !IsMongoOID(hex) {
		return Undefined()
	}
	return Value{tag: TagMongoOID, ref: &stringData{s: strings.ToLower(hex)}}
}

// NewMongoOID returns the default MongoOID (all 'f').
func NewMongoOID() Value {
	return Value{tag: TagMongoOID, ref: &stringData{s: defaultOID}}
}

// IsMongoOID reports whether s is a valid MongoOID hex string.
func IsMongoOID(s string) bool {
	if len(s) != oidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !('0' <= c && c <= '9' || 'a' <= c && c <= 'f' || 'A' <= c && c <= 'F') {
			return false
		}
	}
	return true
}
