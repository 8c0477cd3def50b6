/* ippd - a library for building IPP printer servers
 *
 * Attribute/message codec constants
 */

package ipp

const (
	// ContentType is the HTTP content type mandated for IPP bodies.
	ContentType = "application/ipp"

	// DefaultEnvelopeCap bounds how many bytes of an incoming HTTP body
	// are buffered as the IPP envelope before the remainder is handed to
	// the caller as a document stream.
	DefaultEnvelopeCap = 1 << 20 // 1 MiB

	// DefaultMaxCollectionDepth bounds collection nesting during decode.
	DefaultMaxCollectionDepth = 32

	msgPrintIndent = "    "
)
