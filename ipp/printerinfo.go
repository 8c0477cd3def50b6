/* ippd - a library for building IPP printer servers
 *
 * PrinterInfo: the printer identity and capability set returned by
 * Get-Printer-Attributes
 */

package ipp

import (
	"time"
)

// PrinterState mirrors the printer-state keyword values of RFC 8011.
type PrinterState int32

const (
	PrinterStateIdle       PrinterState = 3
	PrinterStateProcessing PrinterState = 4
	PrinterStateStopped    PrinterState = 5
)

// PrinterInfo holds everything a server needs to answer
// Get-Printer-Attributes about one printer. It's built once, at
// startup, via NewPrinterInfo and its With* methods, and handed to the
// dispatch layer as read-only configuration.
type PrinterInfo struct {
	uri                string
	name                string
	uuid                string
	location            string
	info                string
	makeAndModel        string
	documentFormats     []string
	defaultFormat       string
	colorSupported      bool
	sidesSupported      []string
	compressionSupported []string
	startTime           time.Time
}

// NewPrinterInfo creates a PrinterInfo for the printer reachable at
// uri, identified by name. Defaults: document format
// application/octet-stream only, monochrome, one-sided, no
// compression beyond "none".
func NewPrinterInfo(uri, name string) *PrinterInfo {
	return &PrinterInfo{
		uri:                   uri,
		name:                  name,
		documentFormats:       []string{"application/octet-stream"},
		defaultFormat:         "application/octet-stream",
		sidesSupported:        []string{"one-sided"},
		compressionSupported:  []string{"none"},
		startTime:             time.Now(),
	}
}

func (p *PrinterInfo) WithUUID(uuid string) *PrinterInfo {
	p.uuid = uuid
	return p
}

func (p *PrinterInfo) WithLocation(location string) *PrinterInfo {
	p.location = location
	return p
}

func (p *PrinterInfo) WithInfo(info string) *PrinterInfo {
	p.info = info
	return p
}

func (p *PrinterInfo) WithMakeAndModel(makeAndModel string) *PrinterInfo {
	p.makeAndModel = makeAndModel
	return p
}

func (p *PrinterInfo) WithDocumentFormats(defaultFormat string, supported []string) *PrinterInfo {
	p.defaultFormat = defaultFormat
	p.documentFormats = supported
	return p
}

func (p *PrinterInfo) WithColorSupported(supported bool) *PrinterInfo {
	p.colorSupported = supported
	return p
}

func (p *PrinterInfo) WithSidesSupported(sides []string) *PrinterInfo {
	p.sidesSupported = sides
	return p
}

func (p *PrinterInfo) WithCompressionSupported(schemes []string) *PrinterInfo {
	p.compressionSupported = schemes
	return p
}

// URI returns the printer's own URI, as sent by clients addressing
// requests to it.
func (p *PrinterInfo) URI() string { return p.uri }

// Name returns the printer's name.
func (p *PrinterInfo) Name() string { return p.name }

// SupportsFormat reports whether format is among the printer's
// supported document formats.
func (p *PrinterInfo) SupportsFormat(format string) bool {
	for _, f := range p.documentFormats {
		if f == format {
			return true
		}
	}
	return false
}

// ToAttributes projects the printer's identity and capabilities into
// the printer-attributes group of a Get-Printer-Attributes response.
// state and stateReasons reflect the printer's current condition,
// which PrinterInfo itself does not track; the caller supplies them.
func (p *PrinterInfo) ToAttributes(state PrinterState, stateReasons []string, queuedJobs int) Attributes {
	var attrs Attributes

	str := func(name, value string) {
		attrs.Add(MakeAttr(name, TagKeyword, String(value)))
	}
	strs := func(name Tag, attrName string, values []string) {
		vs := make(Values, len(values))
		for i, v := range values {
			vs[i] = struct {
				T Tag
				V Value
			}{name, String(v)}
		}
		attrs.Add(MakeAttribute(attrName, vs))
	}
	integer := func(name string, value int32) {
		attrs.Add(MakeAttr(name, TagInteger, Integer(value)))
	}
	boolean := func(name string, value bool) {
		attrs.Add(MakeAttr(name, TagBoolean, Boolean(value)))
	}

	attrs.Add(MakeAttr("printer-uri-supported", TagURI, String(p.uri)))
	str("uri-authentication-supported", "none")
	str("uri-security-supported", "none")
	attrs.Add(MakeAttr("printer-name", TagName, String(p.name)))
	if p.uuid != "" {
		attrs.Add(MakeAttr("printer-uuid", TagURI, String("urn:uuid:"+p.uuid)))
	}
	if p.location != "" {
		attrs.Add(MakeAttr("printer-location", TagText, String(p.location)))
	}
	if p.info != "" {
		attrs.Add(MakeAttr("printer-info", TagText, String(p.info)))
	}
	if p.makeAndModel != "" {
		attrs.Add(MakeAttr("printer-make-and-model", TagText, String(p.makeAndModel)))
	}

	integer("printer-state", int32(state))
	if len(stateReasons) == 0 {
		stateReasons = []string{"none"}
	}
	strs(TagKeyword, "printer-state-reasons", stateReasons)

	boolean("printer-is-accepting-jobs", state != PrinterStateStopped)
	integer("queued-job-count", int32(queuedJobs))
	integer("printer-up-time", int32(time.Since(p.startTime).Seconds()))

	attrs.Add(MakeAttr("charset-configured", TagCharset, String("utf-8")))
	attrs.Add(MakeAttr("charset-supported", TagCharset, String("utf-8")))
	attrs.Add(MakeAttr("natural-language-configured", TagLanguage, String("en")))
	attrs.Add(MakeAttr("generated-natural-language-supported", TagLanguage, String("en")))

	attrs.Add(MakeAttr("document-format-default", TagMimeType, String(p.defaultFormat)))
	strs(TagMimeType, "document-format-supported", p.documentFormats)
	strs(TagKeyword, "compression-supported", p.compressionSupported)
	strs(TagKeyword, "sides-supported", p.sidesSupported)
	boolean("color-supported", p.colorSupported)
	boolean("multiple-document-jobs-supported", false)
	boolean("pdl-override-supported", false)

	strs(TagKeyword, "ipp-versions-supported", SupportedVersions)

	opValues := make(Values, 0, 8)
	for _, op := range []Op{
		OpPrintJob, OpValidateJob, OpCreateJob, OpSendDocument,
		OpCancelJob, OpGetJobAttributes, OpGetJobs, OpGetPrinterAttributes,
	} {
		opValues = append(opValues, struct {
			T Tag
			V Value
		}{TagEnum, Integer(op)})
	}
	attrs.Add(MakeAttribute("operations-supported", opValues))

	return attrs
}
