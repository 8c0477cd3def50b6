/* ippd - a library for building IPP printer servers
 *
 * Enumeration of value types
 */

package ipp

import "strconv"

// Type enumerates the possible types a Value can hold, independent of
// which Tag carries it on the wire.
type Type int

const (
	TypeInvalid Type = -1
	TypeVoid    Type = 0
	TypeInteger Type = 1
	TypeBoolean Type = 2
	TypeString  Type = 3
	TypeDateTime Type = 4
	TypeResolution Type = 5
	TypeRange    Type = 6
	TypeTextWithLang Type = 7
	TypeBinary   Type = 8
	TypeCollection Type = 9
)

func (t Type) String() string {
	switch t {
	case TypeVoid:
		return "Void"
	case TypeInteger:
		return "Integer"
	case TypeBoolean:
		return "Boolean"
	case TypeString:
		return "String"
	case TypeDateTime:
		return "DateTime"
	case TypeResolution:
		return "Resolution"
	case TypeRange:
		return "Range"
	case TypeTextWithLang:
		return "TextWithLang"
	case TypeBinary:
		return "Binary"
	case TypeCollection:
		return "Collection"
	case TypeInvalid:
		return "Invalid"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}
