/* ippd - a library for building IPP printer servers
 *
 * Message decoding
 */

package ipp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// messageDecoder decodes a single Message from a byte stream.
type messageDecoder struct {
	in  io.Reader
	off int
	opt DecoderOptions
}

func (dec *messageDecoder) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("ipp: decode: offset %d: %s", dec.off, fmt.Sprintf(format, args...))
}

func (dec *messageDecoder) read(buf []byte) error {
	n, err := io.ReadFull(dec.in, buf)
	dec.off += n
	if err != nil {
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			return dec.errorf("unexpected EOF")
		}
		return err
	}
	return nil
}

func (dec *messageDecoder) readByte() (byte, error) {
	var b [1]byte
	if err := dec.read(b[:]); err != nil {
		return 0, err
	}
	return b[0], nil
}

func (dec *messageDecoder) readUint16() (uint16, error) {
	var b [2]byte
	if err := dec.read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[:]), nil
}

func (dec *messageDecoder) readInt32() (int32, error) {
	var b [4]byte
	if err := dec.read(b[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[:])), nil
}

// readBlob reads a length-prefixed byte blob: a 2-byte big-endian
// length followed by that many bytes.
func (dec *messageDecoder) readBlob() ([]byte, error) {
	l, err := dec.readUint16()
	if err != nil {
		return nil, err
	}
	if l == 0 {
		return []byte{}, nil
	}
	buf := make([]byte, l)
	if err := dec.read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (dec *messageDecoder) decode(m *Message) error {
	m.Reset()

	ver, err := dec.readUint16()
	if err != nil {
		return err
	}
	m.Version = Version(ver)

	code, err := dec.readUint16()
	if err != nil {
		return err
	}
	m.Code = Code(code)

	reqID, err := dec.readInt32()
	if err != nil {
		return err
	}
	m.RequestID = reqID

	var curTag Tag
	var curAttrs Attributes
	var prev *Attribute

	flush := func() {
		if curTag != TagZero {
			m.appendGroup(Group{Tag: curTag, Attrs: curAttrs})
		}
		curTag, curAttrs, prev = TagZero, nil, nil
	}

	for {
		tagByte, err := dec.readByte()
		if err != nil {
			return err
		}
		tag := Tag(tagByte)

		if tag == TagEnd {
			flush()
			return nil
		}

		if tag.IsDelimiter() {
			if !tag.IsGroup() {
				return dec.errorf("invalid delimiter tag %s", tag)
			}
			flush()
			curTag = tag
			continue
		}

		// Value tag: read name, then value.
		if curTag == TagZero {
			return dec.errorf("value tag %s outside any group", tag)
		}

		name, err := dec.readBlob()
		if err != nil {
			return err
		}

		if len(name) == 0 {
			// Additional value for the previous attribute.
			if prev == nil {
				return dec.errorf("unexpected additional value with no preceding attribute")
			}
			v, err := dec.decodeValue(tag, 0)
			if err != nil {
				return err
			}
			prev.Values.Add(tag, v)
			continue
		}

		v, err := dec.decodeValue(tag, 0)
		if err != nil {
			return err
		}

		curAttrs = append(curAttrs, Attribute{
			Name:   string(name),
			Values: Values{{T: tag, V: v}},
		})
		prev = &curAttrs[len(curAttrs)-1]
	}
}

// decodeValue decodes a single value of the wire type indicated by tag.
// depth is the number of collections enclosing the value (0 at the top
// level); a collection nested deeper than dec.opt.MaxCollectionDepth
// fails to decode.
func (dec *messageDecoder) decodeValue(tag Tag, depth int) (Value, error) {
	if tag == TagEndCollection {
		return nil, dec.errorf("end-collection tag outside any collection")
	}
	if tag == TagBeginCollection {
		if depth > dec.opt.MaxCollectionDepth {
			return nil, dec.errorf("collection nesting exceeds limit of %d", dec.opt.MaxCollectionDepth)
		}
		// The begin-collection value itself is an empty blob; the
		// member attributes follow as a self-terminating run.
		if _, err := dec.readBlob(); err != nil {
			return nil, err
		}
		return dec.decodeCollection(depth + 1)
	}

	data, err := dec.readBlob()
	if err != nil {
		return nil, err
	}

	v, err := decodeValueBytes(tag, data)
	if err != nil {
		return nil, dec.errorf("%s: %s", tag, err)
	}
	return v, nil
}

// decodeCollection decodes the member attributes of a collection value,
// terminated by a TagEndCollection. Each member is a TagMemberName
// attribute (the member's name, carried as a value rather than an
// attribute name) immediately followed by the member's own value;
// further values of a multi-valued member follow with no new
// TagMemberName.
func (dec *messageDecoder) decodeCollection(depth int) (Value, error) {
	if depth > dec.opt.MaxCollectionDepth {
		return nil, dec.errorf("collection nesting exceeds limit of %d", dec.opt.MaxCollectionDepth)
	}

	var members Attributes
	var memberName string

	for {
		tagByte, err := dec.readByte()
		if err != nil {
			return nil, err
		}
		tag := Tag(tagByte)

		if _, err := dec.readBlob(); err != nil { // attribute name, always empty here
			return nil, err
		}

		if tag == TagEndCollection {
			if _, err := dec.readBlob(); err != nil { // empty value
				return nil, err
			}
			return Collection(members), nil
		}

		if tag == TagMemberName {
			nameData, err := dec.readBlob()
			if err != nil {
				return nil, err
			}
			memberName = string(nameData)
			continue
		}

		if memberName == "" && len(members) == 0 {
			return nil, dec.errorf("collection member value without a preceding member name")
		}

		v, err := dec.decodeValueInline(tag, depth)
		if err != nil {
			return nil, err
		}

		if memberName == "" {
			// Additional value for the previous member.
			members[len(members)-1].Values.Add(tag, v)
			continue
		}

		members = append(members, Attribute{
			Name:   memberName,
			Values: Values{{T: tag, V: v}},
		})
		memberName = ""
	}
}

// decodeValueInline is like decodeValue, for a value inside a
// collection: depth is the nesting depth of the enclosing collection,
// and TagEndCollection has already been handled by the caller.
func (dec *messageDecoder) decodeValueInline(tag Tag, depth int) (Value, error) {
	if tag == TagBeginCollection {
		if depth+1 > dec.opt.MaxCollectionDepth {
			return nil, dec.errorf("collection nesting exceeds limit of %d", dec.opt.MaxCollectionDepth)
		}
		if _, err := dec.readBlob(); err != nil { // empty value
			return nil, err
		}
		return dec.decodeCollection(depth + 1)
	}

	data, err := dec.readBlob()
	if err != nil {
		return nil, err
	}

	v, err := decodeValueBytes(tag, data)
	if err != nil {
		return nil, dec.errorf("%s: %s", tag, err)
	}
	return v, nil
}

// decodeValueBytes decodes the flat (non-collection) value carried by
// tag out of its already length-delimited wire bytes. This is the one
// place in the package that knows how each syntax is laid out on the
// wire; Value implementations themselves carry no marshaling logic.
func decodeValueBytes(tag Tag, data []byte) (Value, error) {
	switch tag.Type() {
	case TypeVoid:
		return Void{}, nil
	case TypeInteger:
		if len(data) != 4 {
			return nil, fmt.Errorf("integer value must be 4 bytes, got %d", len(data))
		}
		return Integer(int32(binary.BigEndian.Uint32(data))), nil
	case TypeBoolean:
		if len(data) != 1 {
			return nil, fmt.Errorf("boolean value must be 1 byte, got %d", len(data))
		}
		return Boolean(data[0] != 0), nil
	case TypeString:
		return String(data), nil
	case TypeDateTime:
		return decodeDateTime(data)
	case TypeResolution:
		return decodeResolution(data)
	case TypeRange:
		return decodeRange(data)
	case TypeTextWithLang:
		return decodeTextWithLang(data)
	case TypeBinary:
		return Binary(data), nil
	default:
		return nil, fmt.Errorf("unsupported value tag %s", tag)
	}
}

// dateTimeField bounds one byte of an RFC 2579 dateTime value.
type dateTimeField struct {
	offset   int
	min, max byte
	name     string
}

var dateTimeFields = []dateTimeField{
	{2, 1, 12, "month"},
	{3, 1, 31, "day"},
	{4, 0, 23, "hour"},
	{5, 0, 59, "minute"},
	{6, 0, 60, "second"},
	{7, 0, 9, "decisecond"},
	{9, 0, 13, "utc-hours"},
	{10, 0, 59, "utc-minutes"},
}

func decodeDateTime(data []byte) (Value, error) {
	if len(data) != 11 {
		return nil, fmt.Errorf("dateTime value must be 11 bytes, got %d", len(data))
	}
	for _, f := range dateTimeFields {
		if v := data[f.offset]; v < f.min || v > f.max {
			return nil, fmt.Errorf("dateTime %s out of range: %d", f.name, v)
		}
	}
	if data[8] != '+' && data[8] != '-' {
		return nil, fmt.Errorf("dateTime UTC sign must be '+' or '-', got %q", data[8])
	}

	tzSeconds := int(data[9])*3600 + int(data[10])*60
	if data[8] == '-' {
		tzSeconds = -tzSeconds
	}
	loc := time.FixedZone(fmt.Sprintf("UTC%c%02d%02d", data[8], data[9], data[10]), tzSeconds)

	t := time.Date(
		int(binary.BigEndian.Uint16(data[0:2])),
		time.Month(data[2]),
		int(data[3]), int(data[4]), int(data[5]), int(data[6]),
		int(data[7])*100_000_000,
		loc,
	)
	return Time{t}, nil
}

func decodeResolution(data []byte) (Value, error) {
	if len(data) != 9 {
		return nil, fmt.Errorf("resolution value must be 9 bytes, got %d", len(data))
	}
	return Resolution{
		Xres:  int(int32(binary.BigEndian.Uint32(data[0:4]))),
		Yres:  int(int32(binary.BigEndian.Uint32(data[4:8]))),
		Units: Units(data[8]),
	}, nil
}

func decodeRange(data []byte) (Value, error) {
	if len(data) != 8 {
		return nil, fmt.Errorf("range value must be 8 bytes, got %d", len(data))
	}
	return Range{
		Lower: int(int32(binary.BigEndian.Uint32(data[0:4]))),
		Upper: int(int32(binary.BigEndian.Uint32(data[4:8]))),
	}, nil
}

// takeLengthPrefixed pulls a 2-byte big-endian length and that many
// bytes off the front of data, returning what's left.
func takeLengthPrefixed(data []byte) (value, rest []byte, err error) {
	if len(data) < 2 {
		return nil, nil, errors.New("truncated length prefix")
	}
	n := int(binary.BigEndian.Uint16(data[:2]))
	data = data[2:]
	if len(data) < n {
		return nil, nil, errors.New("truncated value")
	}
	return data[:n], data[n:], nil
}

func decodeTextWithLang(data []byte) (Value, error) {
	lang, rest, err := takeLengthPrefixed(data)
	if err != nil {
		return nil, fmt.Errorf("textWithLanguage language: %s", err)
	}
	text, rest, err := takeLengthPrefixed(rest)
	if err != nil {
		return nil, fmt.Errorf("textWithLanguage text: %s", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("textWithLanguage: %d trailing bytes", len(rest))
	}
	return TextWithLang{Lang: string(lang), Text: string(text)}, nil
}
