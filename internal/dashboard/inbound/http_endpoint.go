package inbound

import (
	"context"
	"encoding/base64"
	"errors"
	"html/template"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
)

// multipartOverhead is allowed on top of the file size for boundaries and
// part headers.
const multipartOverhead = 64 << 10

type HTTPEndpoint struct {
	uc           uc
	maxBodyBytes int64
}

func (h *HTTPEndpoint) Index(ctx context.Context, r *http.Request) (any, error) {
	page := indexPage{Notice: pkgrouter.Notice(ctx)}

	samples, err := h.uc.Samples(ctx)
	if err != nil {
		page.Notice = pkgerror.Notice(err)
	}
	page.Samples = samples

	return pkgrouter.View{Name: "index.html", Data: page}, nil
}

func (h *HTTPEndpoint) Upload(ctx context.Context, r *http.Request) (any, error) {
	if h.maxBodyBytes > 0 && r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, h.maxBodyBytes+multipartOverhead)
	}

	part, err := datasetPart(r)
	if err != nil {
		return pkgrouter.Redirect{Location: "/", Notice: pkgerror.Notice(err)}, nil
	}
	defer part.Close()

	result, err := h.uc.Upload(ctx, part.FileName(), part)
	if err != nil {
		return pkgrouter.Redirect{Location: "/", Notice: pkgerror.Notice(err)}, nil
	}

	return pkgrouter.Redirect{Location: "/dashboard?" + url.Values{"filename": {result.Filename}}.Encode()}, nil
}

func (h *HTTPEndpoint) Dashboard(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Dashboard(ctx, selection(r), chartRequest(r))
	if err != nil {
		return pkgrouter.Redirect{Location: "/", Notice: pkgerror.Notice(err)}, nil
	}

	return pkgrouter.View{Name: "dashboard.html", Data: toDashboardPage(pkgrouter.Notice(ctx), result)}, nil
}

func (h *HTTPEndpoint) Download(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Export(ctx, selection(r), pkgrouter.Query(r, "format"))
	if err != nil {
		return pkgrouter.Redirect{Location: "/", Notice: pkgerror.Notice(err)}, nil
	}

	return pkgrouter.Attachment{
		Filename:    result.Filename,
		ContentType: result.ContentType,
		Content:     result.Content,
	}, nil
}

func (h *HTTPEndpoint) APISamples(ctx context.Context, _ *http.Request) (any, error) {
	samples, err := h.uc.Samples(ctx)
	if err != nil {
		return nil, err
	}

	return SamplesResponse{Samples: samples}, nil
}

func (h *HTTPEndpoint) APIDashboard(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Dashboard(ctx, selection(r), chartRequest(r))
	if err != nil {
		return nil, err
	}

	return toDashboardResponse(result), nil
}

func selection(r *http.Request) entity.Selection {
	return entity.Selection{
		Filename: pkgrouter.Query(r, "filename"),
		Sample:   pkgrouter.Query(r, "sample"),
	}
}

func chartRequest(r *http.Request) entity.ChartRequest {
	return entity.ChartRequest{
		X:    pkgrouter.Query(r, "x_col"),
		Y:    pkgrouter.Query(r, "y_col"),
		Kind: pkgrouter.Query(r, "chart_type"),
	}
}

// datasetPart walks the multipart body up to the "dataset" file field.
func datasetPart(r *http.Request) (*multipart.Part, error) {
	noPart := pkgerror.NewValidation(usecase.MsgNoFilePart, pkgerror.CodeInvalidInput)

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || !strings.EqualFold(mediaType, "multipart/form-data") {
		return nil, noPart
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, noPart
	}

	for {
		part, err := reader.NextPart()
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, pkgerror.NewValidation(usecase.MsgFileTooLarge, pkgerror.CodeTooLarge)
			}
			if !errors.Is(err, io.EOF) {
				return nil, pkgerror.NewValidation("Upload could not be read", pkgerror.CodeInvalidFormat)
			}
			return nil, noPart
		}

		if part.FormName() != "dataset" {
			_ = part.Close()
			continue
		}
		if !isFilePart(part) {
			_ = part.Close()
			return nil, noPart
		}
		return part, nil
	}
}

// isFilePart reports whether the part carries a filename parameter, even an
// empty one. Plain form fields do not.
func isFilePart(part *multipart.Part) bool {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return false
	}
	_, ok := params["filename"]
	return ok
}

func chartDataURL(svg []byte) template.URL {
	//nolint:gosec // the SVG comes from the chart renderer, not from the client
	return template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(svg))
}

func joinStrings(sep string, values []string) string {
	return strings.Join(values, sep)
}
