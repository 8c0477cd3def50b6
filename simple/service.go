/* ippd - a library for building IPP printer servers
 *
 * Service: a reference implementation covering Print-Job,
 * Validate-Job, Create-Job, Send-Document, Cancel-Job,
 * Get-Job-Attributes, Get-Jobs and Get-Printer-Attributes
 */

package simple

import (
	"context"
	"io"

	"github.com/openprint-go/ippd/internal/ipplog"
	"github.com/openprint-go/ippd/ipp"
	"github.com/openprint-go/ippd/job"
)

var log = ipplog.For("simple")

// DocumentHandler receives a job's document bytes as they arrive.
// Implementing one lets a caller do something with a print job —
// render it, forward it, save it to disk — instead of Service's
// default of just holding the bytes in memory until the job is
// evicted.
type DocumentHandler interface {
	HandleDocument(jobID int, format string, document io.Reader) error
}

// Service is a minimal IPP printer: every job it accepts is marked
// completed once its document bytes have been handed to Handler (or,
// with no Handler set, simply buffered in memory). It exists to
// exercise the rest of this library end to end, and as a starting
// point for a real Service implementation.
type Service struct {
	Printer  *ipp.PrinterInfo
	Registry *job.Registry

	// Handler, if set, receives every job's document bytes instead of
	// them being buffered on the Job itself.
	Handler DocumentHandler
}

// New creates a Service backed by printer, with job storage starting
// empty and retention governed by registry's own configuration.
func New(printer *ipp.PrinterInfo, registry *job.Registry) *Service {
	return &Service{Printer: printer, Registry: registry}
}

func missingAttr(name string) error {
	return ipp.NewError(ipp.StatusErrorBadRequest, "missing required attribute %q", name)
}

// validateDocumentFormat rejects a request naming a document format
// the printer doesn't support. A request with no document-format, or
// with application/octet-stream (the default), is always accepted.
func (s *Service) validateDocumentFormat(operation ipp.Attributes) error {
	format := ipp.DocumentFormat(operation)
	if format == "application/octet-stream" {
		return nil
	}
	if !s.Printer.SupportsFormat(format) {
		return ipp.NewError(ipp.StatusErrorDocumentFormatNotSupported,
			"document format %q not supported", format)
	}
	return nil
}

func newJobResponse(req *ipp.Message, j *job.Job) *ipp.Message {
	snap := j.Snapshot()
	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)
	resp.Job = ipp.Attributes{
		ipp.MakeAttr("job-id", ipp.TagInteger, ipp.Integer(snap.ID)),
		ipp.MakeAttr("job-uri", ipp.TagURI, ipp.String(snap.URI)),
		ipp.MakeAttr("job-state", ipp.TagEnum, ipp.Integer(snap.State)),
	}
	return resp
}

func (s *Service) newJob(operation ipp.Attributes) *job.Job {
	j := s.Registry.Create(s.Printer.URI())
	j.Name, _ = ipp.GetString(operation, "job-name")
	j.Originator = ipp.RequestingUserName(operation)
	j.Format = ipp.DocumentFormat(operation)
	j.Attrs = operation.DeepCopy()
	return j
}

// drainDocument hands req's document stream to s.Handler or, with no
// Handler set, copies it into j, then marks the job completed (aborted
// if the stream or the Handler fails). A request with no document
// attached leaves the job pending.
func (s *Service) drainDocument(j *job.Job, req *ipp.Message) error {
	if req.Document == nil {
		return nil
	}

	j.SetState(job.StateProcessing)

	if s.Handler != nil {
		if err := s.Handler.HandleDocument(j.ID, j.Format, req.Document); err != nil {
			s.Registry.MarkTerminal(j.ID, job.StateAborted, "document-handler-error")
			return ipp.NewError(ipp.StatusErrorDocumentAccessError, "handling document: %s", err)
		}
		s.Registry.MarkTerminal(j.ID, job.StateCompleted)
		return nil
	}

	data, err := io.ReadAll(req.Document)
	if err != nil {
		s.Registry.MarkTerminal(j.ID, job.StateAborted, "document-read-error")
		return ipp.NewError(ipp.StatusErrorDocumentAccessError, "reading document: %s", err)
	}
	j.AppendDocument(data)
	log.WithField("job-id", j.ID).WithField("bytes", len(data)).Debug("received document")

	s.Registry.MarkTerminal(j.ID, job.StateCompleted)
	return nil
}

// PrintJob implements Print-Job: create a job and accept its document
// in one request.
func (s *Service) PrintJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	if _, ok := ipp.GetString(req.Operation, "printer-uri"); !ok {
		return nil, missingAttr("printer-uri")
	}
	if err := s.validateDocumentFormat(req.Operation); err != nil {
		return nil, err
	}

	j := s.newJob(req.Operation)
	if err := s.drainDocument(j, req); err != nil {
		return nil, err
	}

	return newJobResponse(req, j), nil
}

// ValidateJob implements Validate-Job: run every check Print-Job would
// run, without creating a job or touching any document data.
func (s *Service) ValidateJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	if _, ok := ipp.GetString(req.Operation, "printer-uri"); !ok {
		return nil, missingAttr("printer-uri")
	}
	if err := s.validateDocumentFormat(req.Operation); err != nil {
		return nil, err
	}
	return ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID), nil
}

// CreateJob implements Create-Job: create a job with no document yet,
// left pending until a Send-Document request (or requests) arrive.
func (s *Service) CreateJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	if _, ok := ipp.GetString(req.Operation, "printer-uri"); !ok {
		return nil, missingAttr("printer-uri")
	}
	if err := s.validateDocumentFormat(req.Operation); err != nil {
		return nil, err
	}

	j := s.newJob(req.Operation)
	return newJobResponse(req, j), nil
}

// SendDocument implements Send-Document: attach document data to a job
// previously created by Create-Job.
func (s *Service) SendDocument(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := ipp.GetInteger(req.Operation, "job-id")
	if !ok {
		return nil, missingAttr("job-id")
	}

	j, ok := s.Registry.Get(int(id))
	if !ok {
		return nil, ipp.NewError(ipp.StatusErrorNotFound, "job %d not found", id)
	}
	if j.Snapshot().State.IsTerminal() {
		return nil, ipp.NewError(ipp.StatusErrorNotPossible, "job %d is in a terminal state", id)
	}

	if err := s.drainDocument(j, req); err != nil {
		return nil, err
	}

	return newJobResponse(req, j), nil
}

// CancelJob implements Cancel-Job.
func (s *Service) CancelJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := ipp.GetInteger(req.Operation, "job-id")
	if !ok {
		return nil, missingAttr("job-id")
	}

	j, ok := s.Registry.Get(int(id))
	if !ok {
		return nil, ipp.NewError(ipp.StatusErrorNotFound, "job %d not found", id)
	}
	if j.Snapshot().State.IsTerminal() {
		return nil, ipp.NewError(ipp.StatusErrorNotPossible, "job %d already reached a terminal state", id)
	}

	s.Registry.MarkTerminal(j.ID, job.StateCanceled)
	return ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID), nil
}

// GetJobAttributes implements Get-Job-Attributes.
func (s *Service) GetJobAttributes(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	id, ok := ipp.GetInteger(req.Operation, "job-id")
	if !ok {
		return nil, missingAttr("job-id")
	}

	j, ok := s.Registry.Get(int(id))
	if !ok {
		return nil, ipp.NewError(ipp.StatusErrorNotFound, "job %d not found", id)
	}

	requested, present := ipp.RequestedAttributes(req.Operation)

	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)
	resp.Job = ipp.FilterAttributes(j.ToAttributes(), requested, present, ipp.JobDescriptionAttributes)
	return resp, nil
}

// GetJobs implements Get-Jobs: one job-attributes group per matching
// job, carried in the response's Groups slice since there can be more
// than one. The "limit" operation attribute caps how many groups come
// back; "which-jobs" of "completed" or "not-completed" restricts the
// set by job-state terminality — any other value (including absent)
// returns every tracked job.
func (s *Service) GetJobs(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)

	which, _ := ipp.GetString(req.Operation, "which-jobs")
	limit, hasLimit := ipp.GetInteger(req.Operation, "limit")
	requested, present := ipp.RequestedAttributes(req.Operation)

	n := 0
	for _, j := range s.Registry.All() {
		terminal := j.Snapshot().State.IsTerminal()
		switch which {
		case "completed":
			if !terminal {
				continue
			}
		case "not-completed":
			if terminal {
				continue
			}
		}
		if hasLimit && int32(n) >= limit {
			break
		}
		n++

		resp.Groups = append(resp.Groups, ipp.Group{
			Tag:   ipp.TagJobGroup,
			Attrs: ipp.FilterAttributes(j.ToAttributes(), requested, present, ipp.JobDescriptionAttributes),
		})
	}

	return resp, nil
}

// GetPrinterAttributes implements Get-Printer-Attributes.
func (s *Service) GetPrinterAttributes(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	requested, present := ipp.RequestedAttributes(req.Operation)

	full := s.Printer.ToAttributes(ipp.PrinterStateIdle, nil, s.Registry.PendingCount())

	resp := ipp.NewResponse(req.Version, ipp.StatusOk, req.RequestID)
	resp.Printer = ipp.FilterAttributes(full, requested, present, ipp.PrinterDescriptionAttributes)
	return resp, nil
}
