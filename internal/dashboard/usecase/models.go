package usecase

import "github.com/shandysiswandi/godash/internal/dashboard/entity"

// DashboardResult is everything the dashboard page shows for one dataset.
type DashboardResult struct {
	Dataset        entity.DatasetRef
	Columns        []string
	NumericColumns []string
	Preview        [][]string
	Rows           int
	Summary        []entity.NumericSummary
	Chart          *entity.Chart
	Request        entity.ChartRequest
	Warnings       []string
}

type UploadResult struct {
	Filename string
}

type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}
