// Package job は求人の検索・絞り込みと求人管理のドメインロジックを提供する。
package job

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/hitoshi/jobboard/internal/model"
)

// ページングの既定値。
const (
	DefaultPage  = 1
	DefaultLimit = 20
)

// Filter は求人一覧の絞り込み条件。空文字列およびnilの条件は適用しない。
type Filter struct {
	Category        string
	CompanyID       string
	ExperienceLevel model.ExperienceLevel
	WorkMode        model.WorkMode
	MinSalary       *int64
	Search          string
	Status          model.JobStatus
	Page            int
	Limit           int
}

// Page は絞り込み後の1ページ分の結果。
type Page struct {
	Items []*model.Job
	Total int
	Page  int
	Limit int
	Pages int
}

// ParseFilter はクエリパラメータからFilterを生成する。
// page、limitが数値でないか0以下の場合は既定値を使用する。
// minSalaryが数値でないか負の場合は条件を適用しない。
func ParseFilter(q url.Values) Filter {
	f := Filter{
		Category:        strings.TrimSpace(q.Get("category")),
		CompanyID:       strings.TrimSpace(q.Get("companyId")),
		ExperienceLevel: model.ExperienceLevel(strings.TrimSpace(q.Get("experienceLevel"))),
		WorkMode:        model.WorkMode(strings.TrimSpace(q.Get("workMode"))),
		Search:          strings.TrimSpace(q.Get("search")),
		Status:          model.JobStatus(strings.TrimSpace(q.Get("status"))),
		Page:            positiveIntOr(q.Get("page"), DefaultPage),
		Limit:           positiveIntOr(q.Get("limit"), DefaultLimit),
	}

	if v := strings.TrimSpace(q.Get("minSalary")); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			f.MinSalary = &n
		}
	}

	return f
}

func positiveIntOr(v string, defaultVal int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return n
}

// Apply は求人一覧に絞り込み条件を順に適用し、指定ページを切り出す。
// 条件はすべてAND結合で、カテゴリ、企業ID、経験レベル、勤務形態、最低給与、
// フリーテキスト検索、掲載状態の順に評価する。
// フリーテキスト検索はタイトル、企業名、説明文のいずれかへの大文字小文字を区別しない部分一致。
// 入力の並び順は保持する。
func Apply(jobs []*model.Job, companies map[string]*model.Company, f Filter) Page {
	if f.Page <= 0 {
		f.Page = DefaultPage
	}
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	search := strings.ToLower(f.Search)

	matched := make([]*model.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Category != "" && j.Category != f.Category {
			continue
		}
		if f.CompanyID != "" && j.CompanyID != f.CompanyID {
			continue
		}
		if f.ExperienceLevel != "" && j.ExperienceLevel != f.ExperienceLevel {
			continue
		}
		if f.WorkMode != "" && j.WorkMode != f.WorkMode {
			continue
		}
		if f.MinSalary != nil && j.SalaryMax < *f.MinSalary {
			continue
		}
		if search != "" && !matchesSearch(j, companies[j.CompanyID], search) {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		matched = append(matched, j)
	}

	total := len(matched)
	start, end := pageBounds(total, f.Page, f.Limit)

	return Page{
		Items: matched[start:end],
		Total: total,
		Page:  f.Page,
		Limit: f.Limit,
		Pages: pageCount(total, f.Limit),
	}
}

func matchesSearch(j *model.Job, company *model.Company, search string) bool {
	if strings.Contains(strings.ToLower(j.Title), search) {
		return true
	}
	if company != nil && strings.Contains(strings.ToLower(company.Name), search) {
		return true
	}
	return strings.Contains(strings.ToLower(j.Description), search)
}

// pageBounds は[(page-1)*limit, page*limit)をtotalの範囲に収めて返す。
// 大きなpageでも乗算がオーバーフローしないよう先に範囲外を判定する。
func pageBounds(total, page, limit int) (int, int) {
	if page-1 > total/limit {
		return total, total
	}
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total || end < start {
		end = total
	}
	return start, end
}

func pageCount(total, limit int) int {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return pages
}
