/* ippd - a library for building IPP printer servers
 *
 * Message encoding
 */

package ipp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// messageEncoder encodes a single Message to a byte stream.
type messageEncoder struct {
	out io.Writer
}

func (enc *messageEncoder) write(data []byte) error {
	_, err := enc.out.Write(data)
	return err
}

func (enc *messageEncoder) writeUint16(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return enc.write(b[:])
}

func (enc *messageEncoder) writeInt32(v int32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	return enc.write(b[:])
}

func (enc *messageEncoder) writeBlob(data []byte) error {
	if len(data) > math.MaxUint16 {
		return fmt.Errorf("ipp: encode: value exceeds %d bytes", math.MaxUint16)
	}
	if err := enc.writeUint16(uint16(len(data))); err != nil {
		return err
	}
	return enc.write(data)
}

func (enc *messageEncoder) encode(m *Message) error {
	if err := enc.writeUint16(uint16(m.Version)); err != nil {
		return err
	}
	if err := enc.writeUint16(uint16(m.Code)); err != nil {
		return err
	}
	if err := enc.writeInt32(m.RequestID); err != nil {
		return err
	}

	for _, g := range m.attrGroups() {
		if err := enc.write([]byte{byte(g.Tag)}); err != nil {
			return err
		}
		if err := enc.encodeAttrs(g.Attrs); err != nil {
			return err
		}
	}

	return enc.write([]byte{byte(TagEnd)})
}

// encodeAttrs writes a sequence of attributes, each value tagged and
// named; multi-value attributes repeat the tag with a zero-length name
// for every value after the first.
func (enc *messageEncoder) encodeAttrs(attrs Attributes) error {
	for _, attr := range attrs {
		for i, v := range attr.Values {
			if err := enc.write([]byte{byte(v.T)}); err != nil {
				return err
			}

			name := attr.Name
			if i > 0 {
				name = ""
			}
			if err := enc.writeBlob([]byte(name)); err != nil {
				return err
			}

			if err := enc.encodeValue(v.T, v.V); err != nil {
				return err
			}
		}
	}
	return nil
}

func (enc *messageEncoder) encodeValue(tag Tag, v Value) error {
	if tag == TagBeginCollection {
		if err := enc.writeBlob(nil); err != nil {
			return err
		}
		return enc.encodeCollection(v.(Collection))
	}

	data, err := encodeValueBytes(v)
	if err != nil {
		return err
	}
	return enc.writeBlob(data)
}

// encodeCollection writes a collection's member attributes, each
// preceded by a memberAttrName pseudo-attribute, terminated by an
// end-collection marker.
func (enc *messageEncoder) encodeCollection(c Collection) error {
	for _, member := range c {
		if err := enc.write([]byte{byte(TagMemberName)}); err != nil {
			return err
		}
		if err := enc.writeBlob(nil); err != nil { // empty name
			return err
		}
		if err := enc.writeBlob([]byte(member.Name)); err != nil { // value = member name
			return err
		}

		for _, v := range member.Values {
			if err := enc.write([]byte{byte(v.T)}); err != nil {
				return err
			}
			if err := enc.writeBlob(nil); err != nil { // empty name
				return err
			}
			if err := enc.encodeValue(v.T, v.V); err != nil {
				return err
			}
		}
	}

	if err := enc.write([]byte{byte(TagEndCollection)}); err != nil {
		return err
	}
	if err := enc.writeBlob(nil); err != nil { // empty name
		return err
	}
	return enc.writeBlob(nil) // empty value
}

// encodeValueBytes produces the flat wire bytes for every non-collection
// Value variant. Dispatch is by concrete Go type rather than by Tag,
// since a handful of tags (e.g. TagInteger and TagEnum) share the same
// underlying Integer representation.
func encodeValueBytes(v Value) ([]byte, error) {
	switch t := v.(type) {
	case Void:
		return nil, nil
	case Integer:
		buf := make([]byte, 4)
		binary.BigEndian.PutUint32(buf, uint32(int32(t)))
		return buf, nil
	case Boolean:
		if t {
			return []byte{1}, nil
		}
		return []byte{0}, nil
	case String:
		return []byte(t), nil
	case Binary:
		return []byte(t), nil
	case Time:
		return encodeDateTime(t), nil
	case Resolution:
		return encodeResolution(t), nil
	case Range:
		return encodeRange(t), nil
	case TextWithLang:
		return encodeTextWithLang(t)
	default:
		return nil, fmt.Errorf("ipp: encode: unsupported value type %T", v)
	}
}

func encodeDateTime(v Time) []byte {
	_, secondsEast := v.Zone()
	sign := byte('+')
	if secondsEast < 0 {
		secondsEast = -secondsEast
		sign = '-'
	}

	buf := make([]byte, 11)
	binary.BigEndian.PutUint16(buf[0:2], uint16(v.Year()))
	buf[2] = byte(v.Month())
	buf[3] = byte(v.Day())
	buf[4] = byte(v.Hour())
	buf[5] = byte(v.Minute())
	buf[6] = byte(v.Second())
	buf[7] = byte(v.Nanosecond() / 100_000_000)
	buf[8] = sign
	buf[9] = byte(secondsEast / 3600)
	buf[10] = byte((secondsEast / 60) % 60)
	return buf
}

func encodeResolution(v Resolution) []byte {
	buf := make([]byte, 9)
	binary.BigEndian.PutUint32(buf[0:4], uint32(int32(v.Xres)))
	binary.BigEndian.PutUint32(buf[4:8], uint32(int32(v.Yres)))
	buf[8] = byte(v.Units)
	return buf
}

func encodeRange(v Range) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint32(buf[0:4], uint32(int32(v.Lower)))
	binary.BigEndian.PutUint32(buf[4:8], uint32(int32(v.Upper)))
	return buf
}

func encodeTextWithLang(v TextWithLang) ([]byte, error) {
	lang := []byte(v.Lang)
	text := []byte(v.Text)
	if len(lang) > math.MaxUint16 || len(text) > math.MaxUint16 {
		return nil, errors.New("textWithLanguage field exceeds 65535 bytes")
	}

	buf := make([]byte, 0, 4+len(lang)+len(text))
	buf = appendLengthPrefixed(buf, lang)
	buf = appendLengthPrefixed(buf, text)
	return buf, nil
}

func appendLengthPrefixed(buf, data []byte) []byte {
	var lenBytes [2]byte
	binary.BigEndian.PutUint16(lenBytes[:], uint16(len(data)))
	buf = append(buf, lenBytes[:]...)
	return append(buf, data...)
}
