package inbound

import (
	"html/template"
	"net/url"
	"strconv"

	"github.com/shandysiswandi/godash/internal/dashboard/entity"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
)

type indexPage struct {
	Notice  string
	Samples []string
}

type summaryRow struct {
	Column string
	Count  int
	Mean   string
	Std    string
	Min    string
	Median string
	Max    string
}

type dashboardPage struct {
	Notice         string
	Warnings       []string
	Filename       string
	Sample         string
	Dataset        string
	DownloadURL    string
	DownloadXLSX   string
	Columns        []string
	NumericColumns []string
	Preview        [][]string
	Rows           int
	Summary        []summaryRow
	ChartKinds     []entity.ChartKind
	X              string
	Y              string
	Kind           string
	ChartTitle     string
	ChartURL       template.URL
}

func toDashboardPage(notice string, res usecase.DashboardResult) dashboardPage {
	page := dashboardPage{
		Notice:         notice,
		Warnings:       res.Warnings,
		Dataset:        res.Dataset.Name,
		Columns:        res.Columns,
		NumericColumns: res.NumericColumns,
		Preview:        res.Preview,
		Rows:           res.Rows,
		ChartKinds:     entity.ChartKinds(),
		X:              res.Request.X,
		Y:              res.Request.Y,
		Kind:           res.Request.Kind,
	}

	// The chart form re-submits the dataset that was actually resolved.
	if res.Dataset.Namespace == entity.NamespaceUploaded {
		page.Filename = res.Dataset.Name
	} else {
		page.Sample = res.Dataset.Name
	}

	query := datasetQuery(res.Dataset)
	page.DownloadURL = "/download?" + query.Encode()
	query.Set("format", "xlsx")
	page.DownloadXLSX = "/download?" + query.Encode()

	for _, s := range res.Summary {
		page.Summary = append(page.Summary, summaryRow{
			Column: s.Column,
			Count:  s.Count,
			Mean:   formatStat(s.Mean),
			Std:    formatStat(s.Std),
			Min:    formatStat(s.Min),
			Median: formatStat(s.Median),
			Max:    formatStat(s.Max),
		})
	}

	if res.Chart != nil {
		page.ChartTitle = res.Chart.Title
		page.ChartURL = chartDataURL(res.Chart.SVG)
	}

	return page
}

func datasetQuery(ref entity.DatasetRef) url.Values {
	if ref.Namespace == entity.NamespaceUploaded {
		return url.Values{"filename": {ref.Name}}
	}
	return url.Values{"sample": {ref.Name}}
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

type SamplesResponse struct {
	Samples []string `json:"samples"`
}

type Summary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

type Chart struct {
	Title string           `json:"title"`
	Kind  entity.ChartKind `json:"kind"`
	X     string           `json:"x"`
	Y     string           `json:"y"`
	SVG   string           `json:"svg"`
}

type DashboardResponse struct {
	Namespace      entity.Namespace `json:"namespace"`
	Dataset        string           `json:"dataset"`
	Columns        []string         `json:"columns"`
	NumericColumns []string         `json:"numeric_columns"`
	Preview        [][]string       `json:"preview"`
	Rows           int              `json:"rows"`
	Summary        []Summary        `json:"summary"`
	XCol           string           `json:"x_col"`
	YCol           string           `json:"y_col"`
	ChartType      string           `json:"chart_type"`
	Chart          *Chart           `json:"chart"`
	Warnings       []string         `json:"warnings"`
}

func toDashboardResponse(res usecase.DashboardResult) DashboardResponse {
	out := DashboardResponse{
		Namespace:      res.Dataset.Namespace,
		Dataset:        res.Dataset.Name,
		Columns:        res.Columns,
		NumericColumns: res.NumericColumns,
		Preview:        res.Preview,
		Rows:           res.Rows,
		Summary:        make([]Summary, 0, len(res.Summary)),
		XCol:           res.Request.X,
		YCol:           res.Request.Y,
		ChartType:      res.Request.Kind,
		Warnings:       res.Warnings,
	}
	if out.Warnings == nil {
		out.Warnings = []string{}
	}

	for _, s := range res.Summary {
		out.Summary = append(out.Summary, Summary(s))
	}

	if res.Chart != nil {
		out.Chart = &Chart{
			Title: res.Chart.Title,
			Kind:  res.Chart.Kind,
			X:     res.Chart.X,
			Y:     res.Chart.Y,
			SVG:   string(res.Chart.SVG),
		}
	}

	return out
}
