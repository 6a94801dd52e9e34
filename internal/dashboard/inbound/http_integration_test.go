package inbound

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shandysiswandi/godash/internal/dashboard/store"
	"github.com/shandysiswandi/godash/internal/dashboard/usecase"
	"github.com/shandysiswandi/godash/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/godash/internal/pkg/pkguid"
)

type envelope[T any] struct {
	Data T `json:"data"`
}

const salesCSV = "month,revenue\nJan,100\nFeb,150\nMar,130\n"

type fixture struct {
	router  http.Handler
	uploads string
	samples string
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	root := t.TempDir()
	uploads := filepath.Join(root, "uploads")
	samples := filepath.Join(root, "data")

	ids, err := pkguid.NewSnowflake(1)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}
	files, err := store.NewFileStore(uploads, samples, ids)
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	if err := os.WriteFile(filepath.Join(samples, "sales.csv"), []byte(salesCSV), 0o600); err != nil {
		t.Fatalf("write sample: %v", err)
	}

	uc := usecase.New(usecase.Dependency{
		Store:  files,
		Config: usecase.Config{MaxUploadBytes: 1 << 20},
	})

	router := pkgrouter.NewRouter(pkguid.NewUUID(), []byte("test-secret"))
	if err := RegisterHTTPEndpoint(router, uc, 1<<20); err != nil {
		t.Fatalf("register endpoints: %v", err)
	}

	return fixture{router: router, uploads: uploads, samples: samples}
}

func (f fixture) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// noticeAfter follows a redirect response and returns the page it lands on.
func (f fixture) noticeAfter(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, rec.Header().Get("Location"), nil)
	for _, c := range rec.Result().Cookies() {
		if c.Name == pkgrouter.NoticeCookie && c.MaxAge >= 0 {
			req.AddCookie(c)
		}
	}

	page := f.do(t, req)
	if page.Code != http.StatusOK {
		t.Fatalf("landing status = %d, want 200", page.Code)
	}
	return page.Body.String()
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if field != "" {
		part, err := writer.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte(content)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	} else if err := writer.WriteField("other", "value"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestSampleDashboardWithBarChart(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/dashboard?sample=sales.csv&x_col=month&y_col=revenue&chart_type=bar", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{"<th>month</th>", "<th>revenue</th>", "<td>Feb</td>", `alt="revenue vs month"`, "data:image/svg&#43;xml;base64,"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard body missing %q", want)
		}
	}
}

func TestAPIDashboard(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/dashboard?sample=sales.csv&x_col=month&y_col=revenue&chart_type=bar", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("api status = %d, want 200", rec.Code)
	}

	var env envelope[DashboardResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := env.Data
	if strings.Join(got.NumericColumns, ",") != "revenue" {
		t.Fatalf("numeric_columns = %v, want [revenue]", got.NumericColumns)
	}
	if len(got.Preview) != 3 || got.Rows != 3 {
		t.Fatalf("preview = %d rows = %d, want 3", len(got.Preview), got.Rows)
	}
	if got.Chart == nil || got.Chart.Title != "revenue vs month" || got.Chart.Kind != "bar" {
		t.Fatalf("chart = %+v", got.Chart)
	}
	if got.XCol != "month" || got.YCol != "revenue" || got.ChartType != "bar" {
		t.Fatalf("echo = %s %s %s", got.XCol, got.YCol, got.ChartType)
	}
}

func TestAPIDashboardErrors(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("api status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), usecase.MsgDatasetNotFound) {
		t.Fatalf("api body = %s", rec.Body.String())
	}
}

func TestAPISamples(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/samples", nil))
	var env envelope[SamplesResponse]
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(env.Data.Samples, ",") != "sales.csv" {
		t.Fatalf("samples = %v", env.Data.Samples)
	}
}

func TestDownloadRoundTrip(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/download?sample=sales.csv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/csv" {
		t.Fatalf("content type = %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=dataset.csv" {
		t.Fatalf("content disposition = %q", cd)
	}

	records, err := csv.NewReader(rec.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse download: %v", err)
	}
	if len(records) != 4 || strings.Join(records[0], ",") != "month,revenue" {
		t.Fatalf("download records = %v", records)
	}
}

func TestDownloadXLSX(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/download?sample=sales.csv&format=xlsx", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("download status = %d, want 200", rec.Code)
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != "attachment; filename=dataset.xlsx" {
		t.Fatalf("content disposition = %q", cd)
	}
}

func TestMissingSelectionRedirects(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		path string
		want string
	}{
		{path: "/dashboard", want: usecase.MsgDatasetNotFound},
		{path: "/dashboard?sample=nope.csv", want: usecase.MsgDatasetNotFound},
		{path: "/dashboard?filename=..%2Fdata%2Fsales.csv", want: usecase.MsgDatasetNotFound},
		{path: "/download", want: usecase.MsgExportNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := f.do(t, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if loc := rec.Header().Get("Location"); loc != "/" {
				t.Fatalf("location = %q, want /", loc)
			}
			if page := f.noticeAfter(t, rec); !strings.Contains(page, tt.want) {
				t.Fatalf("landing page does not show %q", tt.want)
			}
		})
	}
}

func TestUploadThenDashboard(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, uploadRequest(t, "dataset", "report.CSV", salesCSV))
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("upload status = %d, want 303", rec.Code)
	}

	loc, err := url.Parse(rec.Header().Get("Location"))
	if err != nil || loc.Path != "/dashboard" || loc.Query().Get("filename") != "report.CSV" {
		t.Fatalf("location = %q", rec.Header().Get("Location"))
	}

	if _, err := os.Stat(filepath.Join(f.uploads, "report.CSV")); err != nil {
		t.Fatalf("uploaded file: %v", err)
	}

	page := f.do(t, httptest.NewRequest(http.MethodGet, loc.String(), nil))
	if page.Code != http.StatusOK || !strings.Contains(page.Body.String(), "<td>Jan</td>") {
		t.Fatalf("dashboard after upload status = %d", page.Code)
	}
}

func TestUploadRejected(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		filename string
		want     string
	}{
		{name: "no file part", field: "", want: usecase.MsgNoFilePart},
		{name: "wrong field", field: "file", filename: "sales.csv", want: usecase.MsgNoFilePart},
		{name: "empty filename", field: "dataset", filename: "", want: usecase.MsgNoFileSelected},
		{name: "not csv", field: "dataset", filename: "report.txt", want: usecase.MsgOnlyCSV},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			rec := f.do(t, uploadRequest(t, tt.field, tt.filename, salesCSV))
			if page := f.noticeAfter(t, rec); !strings.Contains(page, tt.want) {
				t.Fatalf("landing page does not show %q", tt.want)
			}

			entries, err := os.ReadDir(f.uploads)
			if err != nil {
				t.Fatalf("read uploads: %v", err)
			}
			if len(entries) != 0 {
				t.Fatalf("uploads dir has %d entries, want 0", len(entries))
			}
		})
	}
}

func TestUploadNotMultipart(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("month,revenue\n"))
	req.Header.Set("Content-Type", "text/csv")

	if page := f.noticeAfter(t, f.do(t, req)); !strings.Contains(page, usecase.MsgNoFilePart) {
		t.Fatalf("landing page does not show %q", usecase.MsgNoFilePart)
	}
}

func TestUploadPlainFieldIsNoFilePart(t *testing.T) {
	f := newFixture(t)

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("dataset", "month,revenue\nJan,1\n"); err != nil {
		t.Fatalf("write field: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if page := f.noticeAfter(t, f.do(t, req)); !strings.Contains(page, usecase.MsgNoFilePart) {
		t.Fatalf("landing page does not show %q", usecase.MsgNoFilePart)
	}
	if entries, err := os.ReadDir(f.uploads); err != nil || len(entries) != 0 {
		t.Fatalf("uploads dir = %d entries (err %v), want empty", len(entries), err)
	}
}

func TestChartErrorIsWarning(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/dashboard?sample=sales.csv&x_col=revenue&y_col=month", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d, want 200", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Chart error: ") || !strings.Contains(body, "<td>Jan</td>") {
		t.Fatal("dashboard should keep the preview and show the chart warning")
	}
}

func TestIndexListsSamples(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("index status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `href="/dashboard?sample=sales.csv"`) {
		t.Fatalf("index does not link the sample: %s", rec.Body.String())
	}
}
