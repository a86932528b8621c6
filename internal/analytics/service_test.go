package analytics

import (
	"context"
	"errors"
	"testing"

	"github.com/hitoshi/jobboard/internal/model"
	"github.com/hitoshi/jobboard/internal/repository"
)

// mockAnalyticsRepo はAnalyticsRepositoryのモック。
type mockAnalyticsRepo struct {
	overviewFn func(ctx context.Context) (*model.Overview, error)
}

func (m *mockAnalyticsRepo) Overview(ctx context.Context) (*model.Overview, error) {
	return m.overviewFn(ctx)
}

func TestService_Overview_CountsStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	company, _ := store.CreateCompany(ctx, &model.Company{Name: "Acme"})
	j, err := store.CreateJob(ctx, model.JobInput{
		CompanyID: company.ID, Title: "Engineer", Category: "engineering",
		ExperienceLevel: model.ExperienceMid, JobType: model.JobTypeFullTime, WorkMode: model.WorkModeRemote,
	})
	if err != nil {
		t.Fatalf("CreateJob: %v", err)
	}
	u, _ := store.CreateUser(ctx, "a@x.com", "hash", "A", model.RoleUser)
	if _, err := store.CreateApplication(ctx, u.ID, j.ID, "", ""); err != nil {
		t.Fatalf("CreateApplication: %v", err)
	}
	if err := store.SaveJob(ctx, u.ID, j.ID); err != nil {
		t.Fatalf("SaveJob: %v", err)
	}

	o, err := NewService(store).Overview(ctx)
	if err != nil {
		t.Fatalf("Overview returned error: %v", err)
	}
	if o.TotalUsers != 1 || o.TotalCompanies != 1 || o.TotalJobs != 1 || o.ActiveJobs != 1 {
		t.Errorf("totals = %+v", o)
	}
	if o.TotalApplications != 1 || o.TotalSavedJobs != 1 {
		t.Errorf("applications/saved = %d/%d, want 1/1", o.TotalApplications, o.TotalSavedJobs)
	}
	if o.ApplicationsByStatus[model.ApplicationStatusPending] != 1 {
		t.Errorf("pending = %d, want 1", o.ApplicationsByStatus[model.ApplicationStatusPending])
	}
	if o.JobsByCategory["engineering"] != 1 {
		t.Errorf("engineering = %d, want 1", o.JobsByCategory["engineering"])
	}
}

func TestService_Overview_WrapsError(t *testing.T) {
	repoErr := errors.New("timeout")
	svc := NewService(&mockAnalyticsRepo{
		overviewFn: func(ctx context.Context) (*model.Overview, error) { return nil, repoErr },
	})

	if _, err := svc.Overview(context.Background()); !errors.Is(err, repoErr) {
		t.Errorf("error = %v, want wrapped %v", err, repoErr)
	}
}
