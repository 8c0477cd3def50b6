/* ippd - a library for building IPP printer servers
 *
 * Message codec tests
 */

package ipp

import (
	"bytes"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	req := NewRequest(DefaultVersion, OpPrintJob, 42)
	req.Operation = Attributes{
		MakeAttr("printer-uri", TagURI, String("ipp://localhost/ipp/print")),
		MakeAttr("requesting-user-name", TagName, String("alice")),
		MakeAttr("document-format", TagMimeType, String("application/pdf")),
	}
	req.Operation[1].Values.Add(TagName, String("bob"))

	data, err := req.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	var decoded Message
	if err := decoded.DecodeBytes(data); err != nil {
		t.Fatalf("decode: %s", err)
	}

	if decoded.Version != req.Version {
		t.Errorf("version: got %s, want %s", decoded.Version, req.Version)
	}
	if decoded.Code != req.Code {
		t.Errorf("code: got 0x%x, want 0x%x", decoded.Code, req.Code)
	}
	if decoded.RequestID != req.RequestID {
		t.Errorf("request id: got %d, want %d", decoded.RequestID, req.RequestID)
	}
	if !decoded.Operation.Equal(req.Operation) {
		t.Errorf("operation group: got %s, want %s", decoded.Operation, req.Operation)
	}
}

func TestMessageRoundTripCollection(t *testing.T) {
	media := Collection{
		MakeAttr("media-size-name", TagKeyword, String("na_letter_8.5x11in")),
		MakeAttr("media-type", TagKeyword, String("stationery")),
	}

	req := NewRequest(DefaultVersion, OpPrintJob, 1)
	req.Operation = Attributes{
		MakeAttrCollection("media-col", media),
	}

	data, err := req.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	var decoded Message
	if err := decoded.DecodeBytes(data); err != nil {
		t.Fatalf("decode: %s", err)
	}

	attr, ok := decoded.Operation.Get("media-col")
	if !ok {
		t.Fatalf("media-col attribute missing after round trip")
	}
	got, ok := attr.Values[0].V.(Collection)
	if !ok {
		t.Fatalf("media-col value is not a Collection: %T", attr.Values[0].V)
	}
	if !got.Equal(Attributes(media)) {
		t.Errorf("media-col: got %s, want %s", Collection(got), media)
	}
}

func TestDecodeRejectsExcessiveCollectionDepth(t *testing.T) {
	req := NewRequest(DefaultVersion, OpPrintJob, 1)
	col := Collection{}
	for i := 0; i < 40; i++ {
		col = Collection{MakeAttrCollection("nested", col)}
	}
	req.Operation = Attributes{MakeAttrCollection("top", col)}

	data, err := req.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	var decoded Message
	err = decoded.DecodeEx(bytes.NewReader(data), DecoderOptions{MaxCollectionDepth: 8})
	if err == nil {
		t.Fatalf("expected depth-limit error, got nil")
	}
}

func TestDecodeRejectsStrayEndCollection(t *testing.T) {
	req := NewRequest(DefaultVersion, OpPrintJob, 1)
	req.Operation = Attributes{
		MakeAttr("printer-uri", TagURI, String("ipp://localhost/ipp/print")),
	}

	data, err := req.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	// Splice a bare TagEndCollection value (tag, empty name, empty
	// value) into the operation group, ahead of the group's
	// end-of-attributes-tag, simulating a malformed message with an
	// end-collection marker that never follows a begin-collection.
	idx := len(data) - 1
	if data[idx] != byte(TagEnd) {
		t.Fatalf("expected end-of-attributes-tag as the final byte, got 0x%02x", data[idx])
	}
	stray := []byte{byte(TagEndCollection), 0x00, 0x00, 0x00, 0x00}
	data = append(data[:idx:idx], append(stray, data[idx:]...)...)

	var decoded Message
	if err := decoded.DecodeBytes(data); err == nil {
		t.Fatalf("expected error decoding stray end-collection tag, got nil")
	}
}

func TestMessageRoundTripEveryValueSyntax(t *testing.T) {
	when := Time{time.Date(2024, 3, 15, 9, 30, 45, 200_000_000, time.FixedZone("UTC-0500", -5*3600))}

	req := NewRequest(DefaultVersion, OpPrintJob, 7)
	req.Operation = Attributes{
		MakeAttr("copies", TagInteger, Integer(3)),
		MakeAttr("printer-is-accepting-jobs", TagBoolean, Boolean(true)),
		MakeAttr("printer-uri", TagURI, String("ipp://localhost/ipp/print")),
		MakeAttr("time-at-creation", TagDateTime, when),
		MakeAttr("printer-resolution", TagResolution, Resolution{Xres: 300, Yres: 600, Units: UnitsDpi}),
		MakeAttr("copies-supported", TagRange, Range{Lower: 1, Upper: 99}),
		MakeAttr("job-name", TagNameLang, TextWithLang{Lang: "en-us", Text: "cover letter"}),
	}

	data, err := req.EncodeBytes()
	if err != nil {
		t.Fatalf("encode: %s", err)
	}

	var decoded Message
	if err := decoded.DecodeBytes(data); err != nil {
		t.Fatalf("decode: %s", err)
	}

	if !decoded.Operation.Equal(req.Operation) {
		t.Errorf("operation group: got %s, want %s", decoded.Operation, req.Operation)
	}

	attr, _ := decoded.Operation.Get("time-at-creation")
	got := attr.Values[0].V.(Time)
	if !got.Equal(when.Time) {
		t.Errorf("time-at-creation: got %s, want %s", got, when.Time)
	}
}

func TestDecodeTruncated(t *testing.T) {
	var m Message
	err := m.DecodeBytes([]byte{0x02, 0x00, 0x00, 0x02})
	if err == nil {
		t.Fatalf("expected error decoding truncated message")
	}
}
