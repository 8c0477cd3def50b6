/* ippd - a library for building IPP printer servers
 *
 * HTTP adapter tests
 */

package ippserver

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openprint-go/ippd/ipp"
)

type stubService struct {
	UnsupportedService
}

func (stubService) GetPrinterAttributes(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)
	resp.Printer = ipp.Attributes{
		ipp.MakeAttr("printer-name", ipp.TagName, ipp.String("stub")),
	}
	return resp, nil
}

type echoLengthService struct {
	UnsupportedService
}

func (echoLengthService) PrintJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	data, err := io.ReadAll(req.Document)
	if err != nil {
		return nil, err
	}
	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)
	resp.Job = ipp.Attributes{
		ipp.MakeAttr("job-id", ipp.TagInteger, ipp.Integer(int32(len(data)))),
	}
	return resp, nil
}

// compressedRequestBody builds an IPP envelope naming the given
// "compression" operation attribute, followed by document bytes — gzip
// compressed when compression is "gzip", raw otherwise.
func compressedRequestBody(t *testing.T, compression string, document []byte) []byte {
	req := ipp.NewRequest(ipp.DefaultVersion, ipp.OpPrintJob, 1)
	req.Operation = ipp.Attributes{
		ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String("ipp://localhost/ipp/print")),
		ipp.MakeAttr("compression", ipp.TagKeyword, ipp.String(compression)),
	}
	envelope, err := req.EncodeBytes()
	require.NoError(t, err)

	body := document
	if compression == "gzip" {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		_, err := gz.Write(document)
		require.NoError(t, err)
		require.NoError(t, gz.Close())
		body = buf.Bytes()
	}

	return append(envelope, body...)
}

func requestBody(t *testing.T, op ipp.Op) []byte {
	req := ipp.NewRequest(ipp.DefaultVersion, op, 1)
	req.Operation = ipp.Attributes{
		ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String("ipp://localhost/ipp/print")),
	}
	data, err := req.EncodeBytes()
	require.NoError(t, err)
	return data
}

func TestHandlerRejectsWrongContentType(t *testing.T) {
	h := &Handler{Service: stubService{}}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(requestBody(t, ipp.OpGetPrinterAttributes)))
	req.Header.Set("Content-Type", "text/plain")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestHandlerRejectsNonPost(t *testing.T) {
	h := &Handler{Service: stubService{}}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandlerDispatchesValidRequest(t *testing.T) {
	h := &Handler{Service: stubService{}}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(requestBody(t, ipp.OpGetPrinterAttributes)))
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ipp.ContentType, rec.Header().Get("Content-Type"))

	var resp ipp.Message
	require.NoError(t, resp.DecodeBytes(rec.Body.Bytes()))
	assert.Equal(t, ipp.Code(ipp.StatusOk), resp.Code)

	name, ok := ipp.GetString(resp.Printer, "printer-name")
	require.True(t, ok)
	assert.Equal(t, "stub", name)
}

func TestHandlerEnvelopeTooLarge(t *testing.T) {
	h := &Handler{Service: stubService{}, EnvelopeCap: 8}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(requestBody(t, ipp.OpGetPrinterAttributes)))
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestHandlerUnsupportedOperation(t *testing.T) {
	h := &Handler{Service: stubService{}}
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(requestBody(t, ipp.OpCancelJob)))
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ipp.Message
	require.NoError(t, resp.DecodeBytes(rec.Body.Bytes()))
	assert.Equal(t, ipp.Code(ipp.StatusErrorOperationNotSupported), resp.Code)
}

func TestHandlerAcceptsGzipCompressionAttribute(t *testing.T) {
	h := &Handler{Service: echoLengthService{}}
	body := compressedRequestBody(t, "gzip", []byte("hello, ipp"))
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ipp.Message
	require.NoError(t, resp.DecodeBytes(rec.Body.Bytes()))
	require.Equal(t, ipp.Code(ipp.StatusOk), resp.Code)

	n, ok := ipp.GetInteger(resp.Job, "job-id")
	require.True(t, ok)
	assert.Equal(t, int32(len("hello, ipp")), n)
}

func TestHandlerRejectsUnsupportedCompressionAttribute(t *testing.T) {
	h := &Handler{Service: echoLengthService{}}
	body := compressedRequestBody(t, "deflate", []byte("hello, ipp"))
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	req.Header.Set("Content-Type", ipp.ContentType)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp ipp.Message
	require.NoError(t, resp.DecodeBytes(rec.Body.Bytes()))
	assert.Equal(t, ipp.Code(ipp.StatusErrorCompressionNotSupported), resp.Code)
}
