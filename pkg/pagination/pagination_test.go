package pagination

import (
	"net/url"
	"testing"
)

func testConfig() Config {
	return Config{DefaultPageSize: 20, MaxPageSize: 100}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name         string
		req          PageRequest
		wantPage     int
		wantPageSize int
	}{
		{
			name:         "valid request unchanged",
			req:          PageRequest{Page: 3, PageSize: 50},
			wantPage:     3,
			wantPageSize: 50,
		},
		{
			name:         "zero page becomes first",
			req:          PageRequest{Page: 0, PageSize: 10},
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "negative page becomes first",
			req:          PageRequest{Page: -5, PageSize: 10},
			wantPage:     1,
			wantPageSize: 10,
		},
		{
			name:         "zero page size uses default",
			req:          PageRequest{Page: 1, PageSize: 0},
			wantPage:     1,
			wantPageSize: 20,
		},
		{
			name:         "oversized page size capped",
			req:          PageRequest{Page: 1, PageSize: 500},
			wantPage:     1,
			wantPageSize: 100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize(testConfig())
			if tt.req.Page != tt.wantPage {
				t.Errorf("page = %d, want %d", tt.req.Page, tt.wantPage)
			}
			if tt.req.PageSize != tt.wantPageSize {
				t.Errorf("page size = %d, want %d", tt.req.PageSize, tt.wantPageSize)
			}
		})
	}
}

func TestOffset(t *testing.T) {
	tests := []struct {
		name string
		req  PageRequest
		want int
	}{
		{
			name: "first page",
			req:  PageRequest{Page: 1, PageSize: 20},
			want: 0,
		},
		{
			name: "third page",
			req:  PageRequest{Page: 3, PageSize: 20},
			want: 40,
		},
		{
			name: "small pages",
			req:  PageRequest{Page: 10, PageSize: 5},
			want: 45,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.Offset(); got != tt.want {
				t.Errorf("offset = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPageRequestFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("page", "2")
	values.Set("page_size", "30")
	values.Set("search", "roadmap")
	values.Set("sort", "-uploaded_at")

	req := PageRequestFromQuery(values, testConfig())

	if req.Page != 2 || req.PageSize != 30 {
		t.Errorf("page/size = %d/%d, want 2/30", req.Page, req.PageSize)
	}
	if req.Search == nil || *req.Search != "roadmap" {
		t.Errorf("search = %v, want roadmap", req.Search)
	}
	if req.Sort != "-uploaded_at" {
		t.Errorf("sort = %q, want -uploaded_at", req.Sort)
	}
}

func TestPageRequestFromQueryDefaults(t *testing.T) {
	req := PageRequestFromQuery(url.Values{}, testConfig())

	if req.Page != 1 {
		t.Errorf("page = %d, want 1", req.Page)
	}
	if req.PageSize != 20 {
		t.Errorf("page size = %d, want default 20", req.PageSize)
	}
	if req.Search != nil {
		t.Errorf("search = %v, want nil", req.Search)
	}
	if req.Sort != "" {
		t.Errorf("sort = %q, want empty", req.Sort)
	}
}

func TestPageRequestFromQueryGarbage(t *testing.T) {
	values := url.Values{}
	values.Set("page", "banana")
	values.Set("page_size", "-3")

	req := PageRequestFromQuery(values, testConfig())

	if req.Page != 1 {
		t.Errorf("page = %d, want normalized 1", req.Page)
	}
	if req.PageSize != 20 {
		t.Errorf("page size = %d, want default 20", req.PageSize)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name           string
		total          int
		pageSize       int
		wantTotalPages int
	}{
		{
			name:           "exact division",
			total:          100,
			pageSize:       20,
			wantTotalPages: 5,
		},
		{
			name:           "partial last page",
			total:          101,
			pageSize:       20,
			wantTotalPages: 6,
		},
		{
			name:           "empty result still one page",
			total:          0,
			pageSize:       20,
			wantTotalPages: 1,
		},
		{
			name:           "fewer records than page size",
			total:          5,
			pageSize:       20,
			wantTotalPages: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewPageResult([]string{"a"}, tt.total, 1, tt.pageSize)
			if result.TotalPages != tt.wantTotalPages {
				t.Errorf("total pages = %d, want %d", result.TotalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestNewPageResultNilData(t *testing.T) {
	result := NewPageResult[string](nil, 0, 1, 20)

	if result.Data == nil {
		t.Error("nil data should serialize as empty slice, not null")
	}
	if len(result.Data) != 0 {
		t.Errorf("data length = %d, want 0", len(result.Data))
	}
}

func TestConfigFinalize(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "defaults fill zero values",
			cfg:  Config{},
		},
		{
			name: "explicit valid",
			cfg:  Config{DefaultPageSize: 10, MaxPageSize: 50},
		},
		{
			name:    "default exceeds max",
			cfg:     Config{DefaultPageSize: 200, MaxPageSize: 100},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr = %v", err, tt.wantErr)
			}
			if err == nil && (tt.cfg.DefaultPageSize < 1 || tt.cfg.MaxPageSize < 1) {
				t.Errorf("finalize left zero values: %+v", tt.cfg)
			}
		})
	}
}

func TestConfigMerge(t *testing.T) {
	cfg := Config{DefaultPageSize: 20, MaxPageSize: 100}
	cfg.Merge(&Config{MaxPageSize: 200})

	if cfg.DefaultPageSize != 20 {
		t.Errorf("default page size = %d, want unchanged 20", cfg.DefaultPageSize)
	}
	if cfg.MaxPageSize != 200 {
		t.Errorf("max page size = %d, want overlay 200", cfg.MaxPageSize)
	}
}
