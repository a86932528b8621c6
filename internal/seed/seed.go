// Package seed は起動時の初期データ(企業、求人、管理者アカウント)を投入する。
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// UserEnsurer は指定メールアドレスのユーザーが存在しなければ作成する。
// auth.Serviceが満たす。
type UserEnsurer interface {
	EnsureUser(ctx context.Context, email, password, name string, role model.Role) (*model.User, bool, error)
}

// Admin は初期管理者アカウントの情報。
type Admin struct {
	Email    string
	Password string
	Name     string
}

// Seeder は初期データを投入する。
type Seeder struct {
	companies repository.CompanyRepository
	jobs      repository.JobRepository
	users     UserEnsurer
}

// NewSeeder はSeederを生成する。
func NewSeeder(companies repository.CompanyRepository, jobs repository.JobRepository, users UserEnsurer) *Seeder {
	return &Seeder{companies: companies, jobs: jobs, users: users}
}

// Run は管理者アカウントを作成し、企業が1件も登録されていない場合のみ企業と求人を投入する。
// 何度実行しても結果は同じになる。
func (s *Seeder) Run(ctx context.Context, admin Admin) error {
	u, created, err := s.users.EnsureUser(ctx, admin.Email, admin.Password, admin.Name, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("管理者アカウントの作成に失敗しました: %w", err)
	}
	if created {
		slog.Info("管理者アカウントを作成しました", slog.String("user_id", u.ID))
	}

	existing, err := s.companies.ListCompanies(ctx)
	if err != nil {
		return fmt.Errorf("企業一覧の取得に失敗しました: %w", err)
	}
	if len(existing) > 0 {
		slog.Info("初期データは投入済みです", slog.Int("company_count", len(existing)))
		return nil
	}

	jobCount := 0
	for _, sc := range companies {
		c, err := s.companies.CreateCompany(ctx, &sc.company)
		if err != nil {
			return fmt.Errorf("企業の作成に失敗しました: %w", err)
		}
		for _, in := range sc.jobs {
			in.CompanyID = c.ID
			if _, err := s.jobs.CreateJob(ctx, in); err != nil {
				return fmt.Errorf("求人の作成に失敗しました: %w", err)
			}
			jobCount++
		}
	}

	slog.Info("初期データを投入しました",
		slog.Int("company_count", len(companies)),
		slog.Int("job_count", jobCount),
	)
	return nil
}

type seedCompany struct {
	company model.Company
	jobs    []model.JobInput
}

var companies = []seedCompany{
	{
		company: model.Company{Name: "Northwind Labs", Tier: "enterprise", Size: "1000+", FoundedYear: 2004},
		jobs: []model.JobInput{
			{
				Title:           "Senior Backend Engineer",
				Category:        "engineering",
				Description:     "<p>Design and operate the services behind our logistics platform.</p>",
				Location:        "Tokyo",
				ExperienceLevel: model.ExperienceSenior,
				JobType:         model.JobTypeFullTime,
				WorkMode:        model.WorkModeHybrid,
				SalaryMin:       9000000,
				SalaryMax:       13000000,
			},
			{
				Title:           "Data Analyst",
				Category:        "data",
				Description:     "<p>Build dashboards and answer product questions with SQL.</p>",
				Location:        "Osaka",
				ExperienceLevel: model.ExperienceMid,
				JobType:         model.JobTypeFullTime,
				WorkMode:        model.WorkModeOnsite,
				SalaryMin:       6000000,
				SalaryMax:       8000000,
			},
		},
	},
	{
		company: model.Company{Name: "Blue Harbor", Tier: "startup", Size: "11-50", FoundedYear: 2021},
		jobs: []model.JobInput{
			{
				Title:           "Frontend Engineer",
				Category:        "engineering",
				Description:     "<p>Own the web client written in TypeScript.</p>",
				Location:        "Remote",
				ExperienceLevel: model.ExperienceMid,
				JobType:         model.JobTypeFullTime,
				WorkMode:        model.WorkModeRemote,
				SalaryMin:       7000000,
				SalaryMax:       10000000,
			},
			{
				Title:           "Product Design Intern",
				Category:        "design",
				Description:     "<p>Work with the product team on research and prototypes.</p>",
				Location:        "Fukuoka",
				ExperienceLevel: model.ExperienceEntry,
				JobType:         model.JobTypeInternship,
				WorkMode:        model.WorkModeHybrid,
				SalaryMin:       0,
				SalaryMax:       2400000,
			},
		},
	},
	{
		company: model.Company{Name: "Kestrel Systems", Tier: "mid-market", Size: "201-500", FoundedYear: 2012},
		jobs: []model.JobInput{
			{
				Title:           "Engineering Manager",
				Category:        "engineering",
				Description:     "<p>Lead a team of six engineers working on payments.</p>",
				Location:        "Tokyo",
				ExperienceLevel: model.ExperienceLead,
				JobType:         model.JobTypeFullTime,
				WorkMode:        model.WorkModeOnsite,
				SalaryMin:       12000000,
				SalaryMax:       16000000,
			},
			{
				Title:           "Technical Writer",
				Category:        "marketing",
				Description:     "<p>Write API guides and release notes.</p>",
				Location:        "Remote",
				ExperienceLevel: model.ExperienceMid,
				JobType:         model.JobTypeContract,
				WorkMode:        model.WorkModeRemote,
				SalaryMin:       5000000,
				SalaryMax:       7000000,
			},
		},
	},
}
