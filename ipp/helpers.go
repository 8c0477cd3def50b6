/* ippd - a library for building IPP printer servers
 *
 * Convenience accessors for common operation attributes
 */

package ipp

// GetString returns the first string-typed value of the named
// attribute, if present.
func GetString(attrs Attributes, name string) (string, bool) {
	attr, ok := attrs.Get(name)
	if !ok || len(attr.Values) == 0 {
		return "", false
	}
	switch v := attr.Values[0].V.(type) {
	case String:
		return string(v), true
	case Binary:
		return string(v), true
	}
	return "", false
}

// GetInteger returns the first integer-typed value of the named
// attribute, if present.
func GetInteger(attrs Attributes, name string) (int32, bool) {
	attr, ok := attrs.Get(name)
	if !ok || len(attr.Values) == 0 {
		return 0, false
	}
	if v, ok := attr.Values[0].V.(Integer); ok {
		return int32(v), true
	}
	return 0, false
}

// GetKeywords returns every string value of the named attribute, in
// order. An attribute with a single keyword and a multi-valued keyword
// attribute are both handled.
func GetKeywords(attrs Attributes, name string) []string {
	attr, ok := attrs.Get(name)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(attr.Values))
	for _, v := range attr.Values {
		if s, ok := v.V.(String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

// RequestingUserName returns the requesting-user-name operation
// attribute, or "" if the client didn't send one.
func RequestingUserName(operation Attributes) string {
	name, _ := GetString(operation, "requesting-user-name")
	return name
}

// RequestedAttributes returns the requested-attributes operation
// attribute as a set, and whether the client sent one at all. An
// absent attribute means "return everything"; this is distinct from
// an attribute present but empty, which callers are free to treat as
// "return nothing".
func RequestedAttributes(operation Attributes) (map[string]bool, bool) {
	attr, ok := operation.Get("requested-attributes")
	if !ok {
		return nil, false
	}
	set := make(map[string]bool, len(attr.Values))
	for _, v := range attr.Values {
		if s, ok := v.V.(String); ok {
			set[string(s)] = true
		}
	}
	return set, true
}

// PrinterDescriptionAttributes is the canonical subset of printer
// attributes returned when a client names the "printer-description"
// group keyword in requested-attributes instead of (or alongside)
// individual attribute names.
var PrinterDescriptionAttributes = []string{
	"printer-uri-supported",
	"uri-authentication-supported",
	"uri-security-supported",
	"printer-name",
	"printer-uuid",
	"printer-location",
	"printer-info",
	"printer-make-and-model",
	"printer-state",
	"printer-state-reasons",
	"printer-is-accepting-jobs",
	"queued-job-count",
	"printer-up-time",
	"charset-configured",
	"charset-supported",
	"natural-language-configured",
	"generated-natural-language-supported",
	"document-format-default",
	"document-format-supported",
	"compression-supported",
	"sides-supported",
	"color-supported",
	"multiple-document-jobs-supported",
	"pdl-override-supported",
	"ipp-versions-supported",
	"operations-supported",
}

// JobDescriptionAttributes is the canonical subset of job attributes
// returned when a client names the "job-description" group keyword in
// requested-attributes.
var JobDescriptionAttributes = []string{
	"job-id",
	"job-uri",
	"job-state",
	"job-state-reasons",
	"job-name",
	"job-originating-user-name",
	"job-printer-up-time",
}

// FilterAttributes narrows attrs down to what a client asked for via
// requested-attributes, as parsed by RequestedAttributes. present
// false (the attribute was absent from the request) and the "all"
// keyword both mean "return everything," per RFC 8011. The
// "printer-description"/"job-description" group keywords expand to
// whichever attribute-name list the caller passes as canonical
// (PrinterDescriptionAttributes or JobDescriptionAttributes).
func FilterAttributes(attrs Attributes, requested map[string]bool, present bool, canonical []string) Attributes {
	if !present || requested["all"] {
		return attrs
	}

	keep := requested
	if requested["printer-description"] || requested["job-description"] {
		keep = make(map[string]bool, len(requested)+len(canonical))
		for name := range requested {
			keep[name] = true
		}
		for _, name := range canonical {
			keep[name] = true
		}
	}

	var out Attributes
	for _, a := range attrs {
		if keep[a.Name] {
			out = append(out, a)
		}
	}
	return out
}

// Compression returns the value of the supplementary compression
// operation attribute ("none" or "gzip"), and whether the client sent
// it. This is carried alongside the HTTP Content-Encoding mechanism,
// not instead of it: a client may compress the body via either or
// both.
func Compression(operation Attributes) (string, bool) {
	return GetString(operation, "compression")
}

// DocumentFormat returns the document-format operation attribute, or
// "application/octet-stream" per RFC 8011 if the client didn't send
// one.
func DocumentFormat(operation Attributes) string {
	if f, ok := GetString(operation, "document-format"); ok {
		return f
	}
	return "application/octet-stream"
}
