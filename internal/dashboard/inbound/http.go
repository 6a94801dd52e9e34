package inbound

import (
	"context"
	"embed"
	"html/template"
	"io"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
)

//go:embed templates/*.html
var templateFS embed.FS

type uc interface {
	Samples(ctx context.Context) ([]string, error)
	Dashboard(ctx context.Context, sel entity.Selection, req entity.ChartRequest) (usecase.DashboardResult, error)
	Upload(ctx context.Context, filename string, r io.Reader) (usecase.UploadResult, error)
	Export(ctx context.Context, sel entity.Selection, format string) (usecase.ExportResult, error)
}

// Templates parses the embedded page templates.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"join": joinStrings,
	}).ParseFS(templateFS, "templates/*.html")
}

// RegisterHTTPEndpoint mounts the pages and JSON API. maxBodyBytes caps the
// upload request body; zero means no cap.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc, maxBodyBytes int64) error {
	tmpl, err := Templates()
	if err != nil {
		return err
	}
	r.UseTemplates(tmpl)

	end := &HTTPEndpoint{uc: uc, maxBodyBytes: maxBodyBytes}

	r.GET("/", end.Index)
	r.POST("/", end.Upload)
	r.GET("/dashboard", end.Dashboard) // ?filename= | ?sample= & x_col, y_col, chart_type
	r.GET("/download", end.Download)   // ?filename= | ?sample= & format

	r.GET("/api/samples", end.APISamples)
	r.GET("/api/dashboard", end.APIDashboard)

	return nil
}
