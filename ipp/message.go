/* ippd - a library for building IPP printer servers
 *
 * IPP messages: encoding and decoding
 */

package ipp

import (
	"bytes"
	"fmt"
	"io"
)

// DefaultVersion is the protocol version (2.0) callers can pass to
// NewRequest. The package never writes it on its own: the decoder
// accepts any version, and Dispatch answers with the request's version.
const DefaultVersion Version = 0x0200

// SupportedVersions lists the protocol versions advertised in
// ipp-versions-supported — every version a client negotiating down
// from DefaultVersion can expect this library to still understand.
var SupportedVersions = []string{"1.1", "2.0"}

// Version is the 2-byte IPP protocol version field.
type Version uint16

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", byte(v>>8), byte(v))
}

// Code is the union of Op (on a request) and Status (on a response)
// that occupies the message's 2-byte code field.
type Code uint16

// Message is a decoded IPP request or response: version, code,
// request-id, the fixed operation/job/printer/unsupported attribute
// groups, and — for operations that return more than one group of a
// kind, such as Get-Jobs — a Groups slice holding every further group,
// in the order it appeared on the wire.
//
// On decode, the first group of each kind fills the matching field and
// only later groups of that kind go to Groups; on encode, the fixed
// fields are written first, then Groups. Code that only cares about
// the single-job case can ignore Groups.
type Message struct {
	Version   Version
	Code      Code
	RequestID int32

	Operation    Attributes
	Job          Attributes
	Printer      Attributes
	Unsupported  Attributes

	Groups Groups

	// Document, when non-nil, is read after the attribute portion of
	// the message for operations that carry document data (Print-Job,
	// Send-Document). The caller is responsible for draining it.
	Document io.Reader
}

// NewRequest creates a new request Message with the given operation
// code and request id.
func NewRequest(version Version, op Op, requestID int32) *Message {
	return &Message{
		Version:   version,
		Code:      Code(op),
		RequestID: requestID,
	}
}

// NewResponse creates a new response Message with the given status
// code and request id, typically copied from the request it answers.
func NewResponse(version Version, status Status, requestID int32) *Message {
	return &Message{
		Version:   version,
		Code:      Code(status),
		RequestID: requestID,
	}
}

// Reset clears the message to its zero value, preserving no fields.
func (m *Message) Reset() { *m = Message{} }

// Encode writes the message, without Document, to out.
func (m *Message) Encode(out io.Writer) error {
	enc := messageEncoder{out: out}
	return enc.encode(m)
}

// EncodeBytes encodes the message and returns the result as a byte
// slice.
func (m *Message) EncodeBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecoderOptions configures Decode/DecodeEx.
type DecoderOptions struct {
	// MaxCollectionDepth bounds how deeply nested collections may be
	// before decoding fails. Zero means DefaultMaxCollectionDepth.
	MaxCollectionDepth int
}

// Decode reads and decodes a message from in, using default decoder
// options. Anything left unread in in after the end-of-attributes tag
// is left alone; callers that expect trailing document data read it
// from in directly.
func (m *Message) Decode(in io.Reader) error {
	return m.DecodeEx(in, DecoderOptions{})
}

// DecodeEx is like Decode but takes explicit DecoderOptions.
func (m *Message) DecodeEx(in io.Reader, opt DecoderOptions) error {
	if opt.MaxCollectionDepth <= 0 {
		opt.MaxCollectionDepth = DefaultMaxCollectionDepth
	}
	dec := messageDecoder{in: in, opt: opt}
	return dec.decode(m)
}

// DecodeBytes decodes a message from a byte slice, using default
// decoder options.
func (m *Message) DecodeBytes(data []byte) error {
	return m.Decode(bytes.NewReader(data))
}

// Print writes a human-readable dump of the message to out, useful in
// logs and tests. It never returns an error; a write failure to out is
// simply swallowed, matching the semantics of fmt.Fprint family.
func (m *Message) Print(out io.Writer, requestMsg bool) {
	if requestMsg {
		fmt.Fprintf(out, "%s, request id %d\n", Op(m.Code), m.RequestID)
	} else {
		fmt.Fprintf(out, "%s, request id %d\n", Status(m.Code), m.RequestID)
	}

	printGroup := func(tag Tag, attrs Attributes) {
		if len(attrs) == 0 {
			return
		}
		fmt.Fprintf(out, "%s:\n", tag)
		for _, a := range attrs {
			fmt.Fprintf(out, "%s%s\n", msgPrintIndent, a)
		}
	}

	printGroup(TagOperationGroup, m.Operation)
	printGroup(TagJobGroup, m.Job)
	printGroup(TagPrinterGroup, m.Printer)
	printGroup(TagUnsupportedGroup, m.Unsupported)

	for _, g := range m.Groups {
		printGroup(g.Tag, g.Attrs)
	}
}

// attrGroups returns the message's fixed groups in wire order, paired
// with their delimiter tag, skipping any that are empty.
func (m *Message) attrGroups() []Group {
	var groups []Group
	add := func(tag Tag, attrs Attributes) {
		if len(attrs) > 0 {
			groups = append(groups, Group{Tag: tag, Attrs: attrs})
		}
	}

	add(TagOperationGroup, m.Operation)
	add(TagJobGroup, m.Job)
	add(TagPrinterGroup, m.Printer)
	add(TagUnsupportedGroup, m.Unsupported)
	groups = append(groups, m.Groups...)

	return groups
}

// appendGroup routes a decoded group into the matching fixed field, or
// into Groups if a field of that kind is already populated (the
// repeated-group case, e.g. Get-Jobs).
func (m *Message) appendGroup(g Group) {
	switch g.Tag {
	case TagOperationGroup:
		if m.Operation == nil {
			m.Operation = g.Attrs
			return
		}
	case TagJobGroup:
		if m.Job == nil {
			m.Job = g.Attrs
			return
		}
	case TagPrinterGroup:
		if m.Printer == nil {
			m.Printer = g.Attrs
			return
		}
	case TagUnsupportedGroup:
		if m.Unsupported == nil {
			m.Unsupported = g.Attrs
			return
		}
	}
	m.Groups = append(m.Groups, g)
}
