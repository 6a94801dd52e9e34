package dashboard

import (
	"context"

	"github.com/shandysiswandi/godash/internal/dashboard/chart"
	"github.com/shandysiswandi/godash/internal/dashboard/inbound"
	"github.com/shandysiswandi/godash/internal/dashboard/store"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

// Config is the module's settings, read once at startup.
type Config struct {
	UploadDir      string
	SampleDir      string
	PreviewRows    int
	MaxUploadBytes int64
	ChartWidth     int
	ChartHeight    int
}

// ConfigFrom reads the module settings from cfg, applying defaults for
// missing keys.
func ConfigFrom(cfg pkgconfig.Config) Config {
	c := Config{
		UploadDir:      cfg.GetString("storage.upload_dir"),
		SampleDir:      cfg.GetString("storage.sample_dir"),
		PreviewRows:    int(cfg.GetInt("dashboard.preview_rows")),
		MaxUploadBytes: cfg.GetInt("upload.max_bytes"),
		ChartWidth:     int(cfg.GetInt("chart.width")),
		ChartHeight:    int(cfg.GetInt("chart.height")),
	}

	if c.UploadDir == "" {
		c.UploadDir = "uploads"
	}
	if c.SampleDir == "" {
		c.SampleDir = "data"
	}
	if c.PreviewRows <= 0 {
		c.PreviewRows = 10
	}
	if c.MaxUploadBytes <= 0 {
		c.MaxUploadBytes = 16 << 20
	}

	return c
}

type Dependency struct {
	Config Config
	Router *pkgrouter.Router
	ID     pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	files, err := store.NewFileStore(dep.Config.UploadDir, dep.Config.SampleDir, dep.ID)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(usecase.Dependency{
		Store: files,
		Config: usecase.Config{
			PreviewRows:    dep.Config.PreviewRows,
			MaxUploadBytes: dep.Config.MaxUploadBytes,
			Chart: chart.Options{
				Width:  dep.Config.ChartWidth,
				Height: dep.Config.ChartHeight,
			},
		},
	})

	if err := inbound.RegisterHTTPEndpoint(dep.Router, uc, dep.Config.MaxUploadBytes); err != nil {
		return nil, err
	}

	return nil, nil
}
