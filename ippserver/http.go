/* ippd - a library for building IPP printer servers
 *
 * HTTP adapter: enforces IPP-over-HTTP transport rules and bridges
 * net/http to Dispatch
 */

package ippserver

import (
	"compress/gzip"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/openprint-go/ippd/internal/ipplog"
	"github.com/openprint-go/ippd/ipp"
)

var httpSessionID int32

// Handler adapts a Service to net/http, enforcing the Content-Type,
// Content-Encoding and body-size rules IPP-over-HTTP requires before
// ever handing a request to Dispatch.
type Handler struct {
	Service Service

	// EnvelopeCap bounds how many bytes of the request body are
	// buffered as the IPP envelope before the remainder is treated as
	// document data. Zero means ipp.DefaultEnvelopeCap.
	EnvelopeCap int64

	// MaxCollectionDepth bounds collection nesting on decode. Zero
	// means ipp.DefaultMaxCollectionDepth.
	MaxCollectionDepth int
}

var _ http.Handler = (*Handler)(nil)

func (h *Handler) envelopeCap() int64 {
	if h.EnvelopeCap > 0 {
		return h.EnvelopeCap
	}
	return ipp.DefaultEnvelopeCap
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	session := atomic.AddInt32(&httpSessionID, 1)
	log := ipplog.For("http").WithField("session", session)
	ipplog.Headers(log, fmt.Sprintf("%s %s %s", r.Method, r.URL, r.Proto), r.Header)

	if r.Method != http.MethodPost {
		httpError(w, log, http.StatusMethodNotAllowed, "method %s not allowed, only POST", r.Method)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != ipp.ContentType {
		httpError(w, log, http.StatusUnsupportedMediaType,
			"content-type %q not supported, expected %q", ct, ipp.ContentType)
		return
	}

	body := r.Body
	switch enc := r.Header.Get("Content-Encoding"); enc {
	case "", "identity":
		// no-op
	case "gzip":
		gz, err := gzip.NewReader(body)
		if err != nil {
			httpError(w, log, http.StatusBadRequest, "invalid gzip body: %s", err)
			return
		}
		defer gz.Close()
		body = gz
	default:
		httpError(w, log, http.StatusUnsupportedMediaType, "content-encoding %q not supported", enc)
		return
	}

	envelope := &limitedEnvelope{r: body, limit: h.envelopeCap()}

	var req ipp.Message
	err := req.DecodeEx(envelope, ipp.DecoderOptions{MaxCollectionDepth: h.MaxCollectionDepth})
	if envelope.exceeded {
		httpError(w, log, http.StatusRequestEntityTooLarge,
			"ipp envelope exceeds %d bytes", h.envelopeCap())
		return
	}
	if err != nil {
		if req.RequestID != 0 {
			// The header was parsed, so answer in IPP terms, echoing
			// the request-id.
			ippError(w, log, &req, ipp.StatusErrorBadRequest, "malformed ipp message: %s", err)
			return
		}
		httpError(w, log, http.StatusBadRequest, "malformed ipp message: %s", err)
		return
	}

	// The HTTP Content-Encoding header is the mandatory compression
	// mechanism; the "compression" operation attribute is a
	// supplementary one some clients use instead of (or in addition
	// to) the header to mark the trailing document stream as gzipped.
	req.Document = body
	if compression, ok := ipp.Compression(req.Operation); ok {
		switch compression {
		case "gzip":
			if _, alreadyGzip := body.(*gzip.Reader); !alreadyGzip {
				doc, gzErr := gzip.NewReader(body)
				if gzErr != nil {
					httpError(w, log, http.StatusBadRequest, "invalid gzip document: %s", gzErr)
					return
				}
				req.Document = doc
			}
		case "none":
			// no-op
		default:
			ippError(w, log, &req, ipp.StatusErrorCompressionNotSupported,
				"compression %q not supported", compression)
			return
		}
	}

	log.WithField("op", ipp.Op(req.Code)).WithField("request-id", req.RequestID).Debug("dispatching")

	resp := Dispatch(r.Context(), h.Service, &req)

	w.Header().Set("Content-Type", ipp.ContentType)
	w.WriteHeader(http.StatusOK)
	if err := resp.Encode(w); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}

// limitedEnvelope reads at most limit bytes before reporting EOF,
// recording whether the cap was actually hit so the caller can tell a
// genuinely short message from a truncated one.
type limitedEnvelope struct {
	r        io.Reader
	limit    int64
	read     int64
	exceeded bool
}

func (l *limitedEnvelope) Read(p []byte) (int, error) {
	if l.read >= l.limit {
		l.exceeded = true
		return 0, io.EOF
	}
	if remaining := l.limit - l.read; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := l.r.Read(p)
	l.read += int64(n)
	return n, err
}

func httpError(w http.ResponseWriter, log *logrus.Entry, status int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.WithField("status", status).Warn(msg)
	http.Error(w, msg, status)
}

// ippError rejects req at the IPP protocol level rather than the HTTP
// transport level: the response still carries HTTP 200, with status
// and msg in the IPP envelope, matching how Dispatch reports a
// Service-returned *ipp.Error.
func ippError(w http.ResponseWriter, log *logrus.Entry, req *ipp.Message, status ipp.Status, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.WithField("status", status).Warn(msg)

	resp := ipp.NewResponse(req.Version, status, req.RequestID)
	resp.Operation = ipp.Attributes{
		ipp.MakeAttr("status-message", ipp.TagText, ipp.String(msg)),
	}

	w.Header().Set("Content-Type", ipp.ContentType)
	w.WriteHeader(http.StatusOK)
	if err := resp.Encode(w); err != nil {
		log.WithError(err).Error("failed to encode response")
	}
}
