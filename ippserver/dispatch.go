/* ippd - a library for building IPP printer servers
 *
 * Dispatch: routing IPP operations to a Service implementation
 */

package ippserver

import (
	"context"

	"github.com/openprint-go/ippd/ipp"
)

// Service implements the eight core IPP operations. Each method
// receives the decoded request message — including its Document
// reader, for the two operations that carry document data — and
// returns the response message to encode back to the client.
//
// A method should return an *ipp.Error (via ipp.NewError) to control
// exactly which status code and message reach the client; any other
// non-nil error is reported as server-error-internal-error.
type Service interface {
	PrintJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	ValidateJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	CreateJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	SendDocument(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	CancelJob(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	GetJobAttributes(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	GetJobs(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
	GetPrinterAttributes(ctx context.Context, req *ipp.Message) (*ipp.Message, error)
}

// handlerFunc adapts a Service method to a uniform signature for the
// dispatch table.
type handlerFunc func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error)

var dispatchTable = map[ipp.Op]handlerFunc{
	ipp.OpPrintJob: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.PrintJob(ctx, req)
	},
	ipp.OpValidateJob: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.ValidateJob(ctx, req)
	},
	ipp.OpCreateJob: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.CreateJob(ctx, req)
	},
	ipp.OpSendDocument: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.SendDocument(ctx, req)
	},
	ipp.OpCancelJob: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.CancelJob(ctx, req)
	},
	ipp.OpGetJobAttributes: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.GetJobAttributes(ctx, req)
	},
	ipp.OpGetJobs: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.GetJobs(ctx, req)
	},
	ipp.OpGetPrinterAttributes: func(ctx context.Context, svc Service, req *ipp.Message) (*ipp.Message, error) {
		return svc.GetPrinterAttributes(ctx, req)
	},
}

// Dispatch routes req to the Service method matching its operation
// code, returning server-error-operation-not-supported for any code
// not in the dispatch table.
func Dispatch(ctx context.Context, svc Service, req *ipp.Message) *ipp.Message {
	handler, ok := dispatchTable[ipp.Op(req.Code)]
	if !ok {
		resp := ipp.NewResponse(req.Version, ipp.StatusErrorOperationNotSupported, req.RequestID)
		resp.Operation = ipp.Attributes{
			ipp.MakeAttr("status-message", ipp.TagText,
				ipp.String("operation "+ipp.Op(req.Code).String()+" not supported")),
		}
		return resp
	}

	resp, err := handler(ctx, svc, req)
	if err != nil {
		ippErr := ipp.AsError(err)
		resp = ipp.NewResponse(req.Version, ippErr.Status, req.RequestID)
		resp.Operation = ipp.Attributes{
			ipp.MakeAttr("status-message", ipp.TagText, ipp.String(ippErr.Msg)),
		}
		return resp
	}

	if resp.RequestID == 0 {
		resp.RequestID = req.RequestID
	}
	if resp.Version == 0 {
		resp.Version = req.Version
	}
	return resp
}

// UnsupportedService embeds into a partial Service implementation to
// satisfy the interface with server-error-operation-not-supported
// stubs for any operation the embedder doesn't override.
type UnsupportedService struct{}

func (UnsupportedService) unsupported(req *ipp.Message) (*ipp.Message, error) {
	return nil, ipp.NewError(ipp.StatusErrorOperationNotSupported,
		"operation %s not supported", ipp.Op(req.Code))
}

func (s UnsupportedService) PrintJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) ValidateJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) CreateJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) SendDocument(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) CancelJob(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) GetJobAttributes(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) GetJobs(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
func (s UnsupportedService) GetPrinterAttributes(_ context.Context, req *ipp.Message) (*ipp.Message, error) {
	return s.unsupported(req)
}
