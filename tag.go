package nkit

import "strings"

// Tag identifies the active variant of a Value.
//
// The ordinals are stable: values of unrelated tags are ordered by them.
type Tag uint8

const (
	TagUndefined Tag = iota
	TagInteger
	TagUnsignedInteger
	TagFloat
	TagBool
	TagDateTime
	TagNone
	TagString
	TagList
	TagDict
	TagMongoOID
	TagTable

	tagCount
)

var tagNames = [tagCount]string{
	TagUndefined:       "UNDEFINED",
	TagInteger:         "INTEGER",
	TagUnsignedInteger: "UNSIGNED_INTEGER",
	TagFloat:           "FLOAT",
	TagBool:            "BOOL",
	TagDateTime:        "DATE_TIME",
	TagNone:            "NONE",
	TagString:          "STRING",
	TagList:            "LIST",
	TagDict:            "DICT",
	TagMongoOID:        "MONGODB_OID",
	TagTable:           "TABLE",
}

// String returns the upper-case type name.
func (t Tag) String() string {
	if t >= tagCount {
		return "UNKNOWN"
	}
	return tagNames[t]
}

// IsColumnType reports whether t may be used as a table column type.
func (t Tag) IsColumnType() bool {
	switch t {
	case TagString, TagInteger, TagUnsignedInteger, TagFloat, TagBool, TagDateTime:
		return true
	default:
		return false
	}
}

// IsShared reports whether values of this tag hold a shared payload.
func (t Tag) IsShared() bool {
	switch t {
	case TagString, TagMongoOID, TagList, TagDict, TagTable:
		return true
	default:
		return false
	}
}

// ParseTag resolves a column type name, case-insensitively.
func ParseTag(name string) (Tag, bool) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "STRING":
		return TagString, true
	case "INTEGER":
		return TagInteger, true
	case "UNSIGNED_INTEGER":
		return TagUnsignedInteger, true
	case "FLOAT":
		return TagFloat, true
	case "BOOL":
		return TagBool, true
	case "DATE_TIME":
		return TagDateTime, true
	default:
		return TagUndefined, false
	}
}
