package usecase

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/shandysiswandi/godash/internal/dashboard/chart"
	"github.com/shandysiswandi/godash/internal/dashboard/dataset"
	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/pkg/pkgerror"
)

// User-facing notices.
const (
	MsgNoFilePart        = "No file part"
	MsgNoFileSelected    = "No file selected"
	MsgOnlyCSV           = "Only CSV files are allowed"
	MsgFileTooLarge      = "File is too large"
	MsgDatasetNotFound   = "Dataset not found. Please upload or choose a sample."
	MsgExportNotFound    = "Dataset not found."
	MsgUnsupportedFormat = "Unsupported download format"

	prefixReadError  = "Error reading CSV: "
	prefixChartError = "Chart error: "
)

const (
	defaultPreviewRows = 10

	contentTypeCSV  = "text/csv"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var errTooLarge = errors.New("upload exceeds size limit")

type Store interface {
	Resolve(ctx context.Context, ref entity.DatasetRef) (string, error)
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	Samples(ctx context.Context) ([]string, error)
}

type Config struct {
	PreviewRows    int
	MaxUploadBytes int64
	Chart          chart.Options
}

type Dependency struct {
	Store  Store
	Config Config
}

type Usecase struct {
	store  Store
	config Config
}

func New(dep Dependency) *Usecase {
	cfg := dep.Config
	if cfg.PreviewRows <= 0 {
		cfg.PreviewRows = defaultPreviewRows
	}

	return &Usecase{
		store:  dep.Store,
		config: cfg,
	}
}

func (u *Usecase) Samples(ctx context.Context) ([]string, error) {
	names, err := u.store.Samples(ctx)
	if err != nil {
		return nil, pkgerror.NewServer(err)
	}
	return names, nil
}

// Dashboard resolves and parses the selected dataset and, when both axes are
// chosen, renders the chart. Chart failures are returned as warnings.
func (u *Usecase) Dashboard(ctx context.Context, sel entity.Selection, req entity.ChartRequest) (DashboardResult, error) {
	ref, path, err := u.resolve(ctx, sel, MsgDatasetNotFound)
	if err != nil {
		return DashboardResult{}, err
	}

	tbl, err := u.load(ctx, path)
	if err != nil {
		return DashboardResult{}, err
	}

	if req.Kind == "" {
		req.Kind = string(entity.DefaultChartKind)
	}

	result := DashboardResult{
		Dataset:        ref,
		Columns:        tbl.Names(),
		NumericColumns: dataset.NumericColumns(tbl),
		Preview:        tbl.Head(u.config.PreviewRows),
		Rows:           tbl.Len(),
		Summary:        dataset.Describe(tbl),
		Request:        req,
	}

	c, err := chart.Build(tbl, req, u.config.Chart)
	if err != nil {
		slog.WarnContext(ctx, "chart not rendered", "dataset", ref.Name, "x", req.X, "y", req.Y, "kind", req.Kind, "error", err)
		result.Warnings = append(result.Warnings, prefixChartError+err.Error())
	}
	result.Chart = c

	return result, nil
}

// Upload validates the client file name and stores the content. A file is
// written only when validation passes.
func (u *Usecase) Upload(ctx context.Context, filename string, r io.Reader) (UploadResult, error) {
	if filename == "" {
		return UploadResult{}, pkgerror.NewValidation(MsgNoFileSelected, pkgerror.CodeInvalidInput)
	}
	if !allowedFile(filename) {
		return UploadResult{}, pkgerror.NewValidation(MsgOnlyCSV, pkgerror.CodeInvalidInput)
	}

	if u.config.MaxUploadBytes > 0 {
		r = &capReader{r: r, left: u.config.MaxUploadBytes}
	}

	name, err := u.store.Save(ctx, filename, r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.Is(err, errTooLarge) || errors.As(err, &maxErr) {
			return UploadResult{}, pkgerror.NewValidation(MsgFileTooLarge, pkgerror.CodeTooLarge)
		}
		return UploadResult{}, pkgerror.NewServer(err)
	}

	slog.InfoContext(ctx, "dataset uploaded", "filename", name, "client_filename", filename)

	return UploadResult{Filename: name}, nil
}

// Export reloads the selected dataset and serializes it as csv or xlsx.
func (u *Usecase) Export(ctx context.Context, sel entity.Selection, format string) (ExportResult, error) {
	format = strings.ToLower(format)
	if format == "" {
		format = dataset.FormatCSV
	}
	if format != dataset.FormatCSV && format != dataset.FormatXLSX {
		return ExportResult{}, pkgerror.NewValidation(MsgUnsupportedFormat, pkgerror.CodeInvalidInput)
	}

	_, path, err := u.resolve(ctx, sel, MsgExportNotFound)
	if err != nil {
		return ExportResult{}, err
	}

	tbl, err := u.load(ctx, path)
	if err != nil {
		return ExportResult{}, err
	}

	var buf bytes.Buffer
	result := ExportResult{Filename: "dataset." + format}
	switch format {
	case dataset.FormatXLSX:
		result.ContentType = contentTypeXLSX
		err = dataset.WriteXLSX(&buf, tbl)
	default:
		result.ContentType = contentTypeCSV
		err = dataset.WriteCSV(&buf, tbl)
	}
	if err != nil {
		return ExportResult{}, pkgerror.NewServer(err)
	}

	result.Content = buf.Bytes()
	return result, nil
}

func (u *Usecase) resolve(ctx context.Context, sel entity.Selection, notFound string) (entity.DatasetRef, string, error) {
	ref, ok := sel.Ref()
	if !ok {
		return entity.DatasetRef{}, "", pkgerror.NewBusiness(notFound, pkgerror.CodeNotFound)
	}

	if sel.Ambiguous() {
		slog.WarnContext(ctx, "both filename and sample given, using filename", "filename", sel.Filename, "sample", sel.Sample)
	}

	path, err := u.store.Resolve(ctx, ref)
	if errors.Is(err, pkgerror.ErrNotFound) {
		return entity.DatasetRef{}, "", pkgerror.NewBusiness(notFound, pkgerror.CodeNotFound)
	}
	if err != nil {
		return entity.DatasetRef{}, "", pkgerror.NewServer(err)
	}

	return ref, path, nil
}

func (u *Usecase) load(ctx context.Context, path string) (*entity.Table, error) {
	tbl, err := dataset.Load(path)
	if err == nil {
		return tbl, nil
	}

	var perr *dataset.ParseError
	switch {
	case errors.As(err, &perr):
		slog.WarnContext(ctx, "dataset not parsable", "path", path, "error", err)
		return nil, pkgerror.WrapBusiness(err, prefixReadError+perr.Error(), pkgerror.CodeInvalidFormat)
	case errors.Is(err, fs.ErrNotExist):
		return nil, pkgerror.NewBusiness(MsgDatasetNotFound, pkgerror.CodeNotFound)
	default:
		return nil, pkgerror.NewServer(err)
	}
}

func allowedFile(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// capReader fails with errTooLarge once more than left bytes are read.
type capReader struct {
	r    io.Reader
	left int64
}

func (c *capReader) Read(p []byte) (int, error) {
	if c.left < 0 {
		return 0, errTooLarge
	}
	if int64(len(p)) > c.left+1 {
		p = p[:c.left+1]
	}

	n, err := c.r.Read(p)
	c.left -= int64(n)
	if c.left < 0 {
		return n, errTooLarge
	}
	return n, err
}
