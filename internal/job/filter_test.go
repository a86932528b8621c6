package job

import (
	"fmt"
	"net/url"
	"reflect"
	"testing"

	"github.com/hitoshi/jobboard/internal/model"
)

func int64Ptr(v int64) *int64 { return &v }

func fixtureJobs() ([]*model.Job, map[string]*model.Company) {
	companies := map[string]*model.Company{
		"c-acme":   {ID: "c-acme", Name: "Acme Corp"},
		"c-globex": {ID: "c-globex", Name: "Globex"},
	}
	jobs := []*model.Job{
		{ID: "j1", CompanyID: "c-acme", Title: "Backend Engineer", Category: "engineering", Description: "Go and PostgreSQL",
			ExperienceLevel: model.ExperienceMid, WorkMode: model.WorkModeRemote, SalaryMin: 500, SalaryMax: 800, Status: model.JobStatusActive},
		{ID: "j2", CompanyID: "c-acme", Title: "Product Designer", Category: "design", Description: "Figma",
			ExperienceLevel: model.ExperienceSenior, WorkMode: model.WorkModeOnsite, SalaryMin: 400, SalaryMax: 600, Status: model.JobStatusActive},
		{ID: "j3", CompanyID: "c-globex", Title: "Frontend Engineer", Category: "engineering", Description: "React",
			ExperienceLevel: model.ExperienceEntry, WorkMode: model.WorkModeHybrid, SalaryMin: 300, SalaryMax: 450, Status: model.JobStatusClosed},
		{ID: "j4", CompanyID: "c-globex", Title: "Data Analyst", Category: "data", Description: "SQL dashboards for engineering",
			ExperienceLevel: model.ExperienceMid, WorkMode: model.WorkModeRemote, SalaryMin: 450, SalaryMax: 700, Status: model.JobStatusActive},
	}
	return jobs, companies
}

func ids(jobs []*model.Job) []string {
	out := make([]string, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestApply_Filters(t *testing.T) {
	jobs, companies := fixtureJobs()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "条件なしは全件", filter: Filter{}, want: []string{"j1", "j2", "j3", "j4"}},
		{name: "カテゴリ完全一致", filter: Filter{Category: "engineering"}, want: []string{"j1", "j3"}},
		{name: "カテゴリは部分一致しない", filter: Filter{Category: "engineer"}, want: []string{}},
		{name: "企業ID", filter: Filter{CompanyID: "c-globex"}, want: []string{"j3", "j4"}},
		{name: "経験レベル", filter: Filter{ExperienceLevel: model.ExperienceMid}, want: []string{"j1", "j4"}},
		{name: "勤務形態", filter: Filter{WorkMode: model.WorkModeRemote}, want: []string{"j1", "j4"}},
		{name: "最低給与は上限給与と比較", filter: Filter{MinSalary: int64Ptr(600)}, want: []string{"j1", "j2", "j4"}},
		{name: "最低給与0は全件", filter: Filter{MinSalary: int64Ptr(0)}, want: []string{"j1", "j2", "j3", "j4"}},
		{name: "検索はタイトルに大文字小文字を区別せず一致", filter: Filter{Search: "ENGINEER"}, want: []string{"j1", "j3", "j4"}},
		{name: "検索は企業名に一致", filter: Filter{Search: "globex"}, want: []string{"j3", "j4"}},
		{name: "検索は説明文に一致", filter: Filter{Search: "figma"}, want: []string{"j2"}},
		{name: "掲載状態", filter: Filter{Status: model.JobStatusClosed}, want: []string{"j3"}},
		{
			name:   "複数条件はAND",
			filter: Filter{Category: "engineering", WorkMode: model.WorkModeRemote, Search: "go"},
			want:   []string{"j1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Apply(jobs, companies, tt.filter)
			if got := ids(page.Items); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("items = %v, want %v", got, tt.want)
			}
			if page.Total != len(tt.want) {
				t.Errorf("total = %d, want %d", page.Total, len(tt.want))
			}
		})
	}
}

func TestApply_CategoryFilterReturnsOnlyThatCategory(t *testing.T) {
	jobs, companies := fixtureJobs()
	for _, category := range []string{"engineering", "design", "data", "sales"} {
		page := Apply(jobs, companies, Filter{Category: category, Limit: 100})
		for _, j := range page.Items {
			if j.Category != category {
				t.Errorf("category %q returned job %s with category %q", category, j.ID, j.Category)
			}
		}
	}
}

func TestApply_Pagination(t *testing.T) {
	var jobs []*model.Job
	for i := 1; i <= 45; i++ {
		jobs = append(jobs, &model.Job{ID: fmt.Sprintf("j%02d", i), Category: "engineering"})
	}

	for _, limit := range []int{1, 7, 20, 45, 100} {
		for page := 1; page <= 8; page++ {
			got := Apply(jobs, nil, Filter{Page: page, Limit: limit})

			start := (page - 1) * limit
			end := page * limit
			if start > len(jobs) {
				start = len(jobs)
			}
			if end > len(jobs) {
				end = len(jobs)
			}
			want := ids(jobs[start:end])

			if !reflect.DeepEqual(ids(got.Items), want) {
				t.Errorf("page=%d limit=%d: items = %v, want %v", page, limit, ids(got.Items), want)
			}
			if got.Total != len(jobs) {
				t.Errorf("page=%d limit=%d: total = %d, want %d", page, limit, got.Total, len(jobs))
			}
			wantPages := (len(jobs) + limit - 1) / limit
			if got.Pages != wantPages {
				t.Errorf("page=%d limit=%d: pages = %d, want %d", page, limit, got.Pages, wantPages)
			}
		}
	}
}

func TestApply_EmptyResultHasZeroPages(t *testing.T) {
	page := Apply(nil, nil, Filter{})
	if page.Total != 0 || page.Pages != 0 {
		t.Errorf("total = %d, pages = %d, want 0, 0", page.Total, page.Pages)
	}
	if page.Items == nil {
		t.Error("items should be empty, not nil")
	}
	if page.Page != DefaultPage || page.Limit != DefaultLimit {
		t.Errorf("page = %d, limit = %d, want defaults", page.Page, page.Limit)
	}
}

func TestApply_HugePageDoesNotOverflow(t *testing.T) {
	jobs, companies := fixtureJobs()
	page := Apply(jobs, companies, Filter{Page: int(^uint(0) >> 1), Limit: 20})
	if len(page.Items) != 0 {
		t.Errorf("items = %v, want empty", ids(page.Items))
	}
	if page.Total != 4 {
		t.Errorf("total = %d, want 4", page.Total)
	}
}

func TestParseFilter(t *testing.T) {
	q := url.Values{}
	q.Set("category", "engineering")
	q.Set("companyId", "c-acme")
	q.Set("experienceLevel", "mid")
	q.Set("workMode", "remote")
	q.Set("minSalary", "500")
	q.Set("search", "  go  ")
	q.Set("status", "active")
	q.Set("page", "3")
	q.Set("limit", "5")

	f := ParseFilter(q)

	if f.Category != "engineering" || f.CompanyID != "c-acme" {
		t.Errorf("category/companyId = %q/%q", f.Category, f.CompanyID)
	}
	if f.ExperienceLevel != model.ExperienceMid || f.WorkMode != model.WorkModeRemote {
		t.Errorf("experienceLevel/workMode = %q/%q", f.ExperienceLevel, f.WorkMode)
	}
	if f.MinSalary == nil || *f.MinSalary != 500 {
		t.Errorf("minSalary = %v, want 500", f.MinSalary)
	}
	if f.Search != "go" {
		t.Errorf("search = %q, want %q", f.Search, "go")
	}
	if f.Status != model.JobStatusActive {
		t.Errorf("status = %q, want %q", f.Status, model.JobStatusActive)
	}
	if f.Page != 3 || f.Limit != 5 {
		t.Errorf("page/limit = %d/%d, want 3/5", f.Page, f.Limit)
	}
}

func TestParseFilter_InvalidValuesFallBack(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		minSalary string
	}{
		{name: "数値でない", page: "abc", limit: "NaN", minSalary: "lots"},
		{name: "0", page: "0", limit: "0", minSalary: ""},
		{name: "負の値", page: "-1", limit: "-20", minSalary: "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := url.Values{}
			q.Set("page", tt.page)
			q.Set("limit", tt.limit)
			q.Set("minSalary", tt.minSalary)

			f := ParseFilter(q)
			if f.Page != DefaultPage {
				t.Errorf("page = %d, want %d", f.Page, DefaultPage)
			}
			if f.Limit != DefaultLimit {
				t.Errorf("limit = %d, want %d", f.Limit, DefaultLimit)
			}
			if f.MinSalary != nil {
				t.Errorf("minSalary = %d, want nil", *f.MinSalary)
			}
		})
	}
}
