package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/jobboard/internal/model"
)

// applicationKey は(求人, ユーザー)の組で応募の一意性を表すキー。
type applicationKey struct {
	jobID  string
	userID string
}

// MemoryStore はプロセス内のマップで全エンティティを保持するストア。
// 全コレクションを単一のRWMutexで保護し、応募作成時の重複チェック、
// 作成、応募者数の加算を1つのクリティカルセクションで実行する。
// 返却する値はすべてコピーであり、呼び出し側の変更は内部状態に影響しない。
type MemoryStore struct {
	mu sync.RWMutex

	users        map[string]*model.User
	userByEmail  map[string]string
	userOrder    []string
	companies    map[string]*model.Company
	companyOrder []string
	jobs         map[string]*model.Job
	jobOrder     []string
	applications map[string]*model.Application
	appOrder     []string
	appByPair    map[applicationKey]string
	saved        map[string][]string
	savedSet     map[string]map[string]struct{}

	now   func() time.Time
	newID func() string
}

// NewMemoryStore は空のMemoryStoreを生成する。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:        make(map[string]*model.User),
		userByEmail:  make(map[string]string),
		companies:    make(map[string]*model.Company),
		jobs:         make(map[string]*model.Job),
		applications: make(map[string]*model.Application),
		appByPair:    make(map[applicationKey]string),
		saved:        make(map[string][]string),
		savedSet:     make(map[string]map[string]struct{}),
		now:          time.Now,
		newID:        func() string { return uuid.New().String() },
	}
}

// Ping は常にnilを返す。
func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// --- ユーザー ---

// CreateUser はユーザーを作成する。メールアドレスは正規化して一意性を判定する。
func (s *MemoryStore) CreateUser(ctx context.Context, email, passwordHash, name string, role model.Role) (*model.User, error) {
	key := model.NormalizeEmail(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userByEmail[key]; exists {
		return nil, model.NewDuplicateEmailError()
	}

	now := s.now()
	u := &model.User{
		ID:           s.newID(),
		Email:        key,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[u.ID] = u
	s.userByEmail[key] = u.ID
	s.userOrder = append(s.userOrder, u.ID)

	cp := *u
	return &cp, nil
}

// FindUserByEmail はメールアドレスでユーザーを検索する。見つからない場合はnilを返す。
func (s *MemoryStore) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userByEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := *s.users[id]
	return &cp, nil
}

// FindUserByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (s *MemoryStore) FindUserByID(ctx context.Context, id string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// UpdateUser はプロフィールを部分更新する。
func (s *MemoryStore) UpdateUser(ctx context.Context, id string, patch model.UserPatch) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, model.NewUserNotFoundError()
	}
	if patch.Name != nil {
		u.Name = *patch.Name
	}
	u.UpdatedAt = s.now()

	cp := *u
	return &cp, nil
}

// --- 企業 ---

// CreateCompany は企業を作成する。
func (s *MemoryStore) CreateCompany(ctx context.Context, company *model.Company) (*model.Company, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := *company
	if c.ID == "" {
		c.ID = s.newID()
	}
	if _, exists := s.companies[c.ID]; exists {
		return nil, model.NewValidationError("id", "企業IDが重複しています")
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now()
	}
	s.companies[c.ID] = &c
	s.companyOrder = append(s.companyOrder, c.ID)

	cp := c
	return &cp, nil
}

// FindCompanyByID は指定IDの企業を取得する。見つからない場合はnilを返す。
func (s *MemoryStore) FindCompanyByID(ctx context.Context, id string) (*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.companies[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

// ListCompanies は全企業を登録順で返す。
func (s *MemoryStore) ListCompanies(ctx context.Context) ([]*model.Company, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Company, 0, len(s.companyOrder))
	for _, id := range s.companyOrder {
		cp := *s.companies[id]
		result = append(result, &cp)
	}
	return result, nil
}

// --- 求人 ---

// ListJobs は全求人を登録順で返す。
func (s *MemoryStore) ListJobs(ctx context.Context) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Job, 0, len(s.jobOrder))
	for _, id := range s.jobOrder {
		cp := *s.jobs[id]
		result = append(result, &cp)
	}
	return result, nil
}

// FindJobByID は指定IDの求人を取得する。見つからない場合はnilを返す。
func (s *MemoryStore) FindJobByID(ctx context.Context, id string) (*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *j
	return &cp, nil
}

// CreateJob は求人を作成する。
func (s *MemoryStore) CreateJob(ctx context.Context, input model.JobInput) (*model.Job, error) {
	if !model.ValidSalaryRange(input.SalaryMin, input.SalaryMax) {
		return nil, model.NewValidationError("salary", "給与は0以上かつ下限が上限以下である必要があります")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	j := &model.Job{
		ID:              s.newID(),
		CompanyID:       input.CompanyID,
		Title:           input.Title,
		Category:        input.Category,
		Description:     input.Description,
		Location:        input.Location,
		ExperienceLevel: input.ExperienceLevel,
		JobType:         input.JobType,
		WorkMode:        input.WorkMode,
		SalaryMin:       input.SalaryMin,
		SalaryMax:       input.SalaryMax,
		Status:          model.JobStatusActive,
		ApplicantCount:  0,
		PostedAt:        now,
		UpdatedAt:       now,
	}
	s.jobs[j.ID] = j
	s.jobOrder = append(s.jobOrder, j.ID)

	cp := *j
	return &cp, nil
}

// UpdateJob は求人を部分更新する。検証に失敗した場合は何も変更しない。
func (s *MemoryStore) UpdateJob(ctx context.Context, id string, patch model.JobPatch) (*model.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, model.NewJobNotFoundError(id)
	}

	merged := patch.Apply(*j)
	if !model.ValidSalaryRange(merged.SalaryMin, merged.SalaryMax) {
		return nil, model.NewValidationError("salary", "給与は0以上かつ下限が上限以下である必要があります")
	}
	merged.UpdatedAt = s.now()
	*j = merged

	cp := merged
	return &cp, nil
}

// DeleteJob は求人を削除する。
func (s *MemoryStore) DeleteJob(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[id]; !ok {
		return model.NewJobNotFoundError(id)
	}
	delete(s.jobs, id)
	s.jobOrder = removeID(s.jobOrder, id)
	return nil
}

// CloseJobsPostedBefore はcutoffより前に掲載された募集中の求人を募集終了にする。
func (s *MemoryStore) CloseJobsPostedBefore(ctx context.Context, cutoff time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	closed := 0
	for _, id := range s.jobOrder {
		j := s.jobs[id]
		if j.Status == model.JobStatusActive && j.PostedAt.Before(cutoff) {
			j.Status = model.JobStatusClosed
			j.UpdatedAt = now
			closed++
		}
	}
	return closed, nil
}

// --- 応募 ---

// CreateApplication は応募を作成し、求人の応募者数を1増やす。
// 全ての検証が通った後にのみ状態を変更するため、失敗時に部分的な変更は残らない。
func (s *MemoryStore) CreateApplication(ctx context.Context, userID, jobID, coverLetter, resume string) (*model.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, model.NewJobNotFoundError(jobID)
	}
	if j.Status != model.JobStatusActive {
		return nil, model.NewJobClosedError(jobID)
	}
	key := applicationKey{jobID: jobID, userID: userID}
	if _, exists := s.appByPair[key]; exists {
		return nil, model.NewDuplicateApplicationError()
	}

	now := s.now()
	a := &model.Application{
		ID:          s.newID(),
		JobID:       jobID,
		UserID:      userID,
		Status:      model.ApplicationStatusPending,
		CoverLetter: coverLetter,
		Resume:      resume,
		AppliedAt:   now,
		UpdatedAt:   now,
	}
	s.applications[a.ID] = a
	s.appOrder = append(s.appOrder, a.ID)
	s.appByPair[key] = a.ID
	j.ApplicantCount++

	cp := *a
	return &cp, nil
}

// ListApplicationsByUser はユーザーの応募を作成順で返す。
func (s *MemoryStore) ListApplicationsByUser(ctx context.Context, userID string) ([]*model.Application, error) {
	return s.listApplications(func(a *model.Application) bool { return a.UserID == userID }), nil
}

// ListApplicationsByJob は求人への応募を作成順で返す。
func (s *MemoryStore) ListApplicationsByJob(ctx context.Context, jobID string) ([]*model.Application, error) {
	return s.listApplications(func(a *model.Application) bool { return a.JobID == jobID }), nil
}

func (s *MemoryStore) listApplications(match func(*model.Application) bool) []*model.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Application, 0)
	for _, id := range s.appOrder {
		a := s.applications[id]
		if match(a) {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result
}

// UpdateApplicationStatus は応募の選考状態を更新する。
func (s *MemoryStore) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) (*model.Application, error) {
	if !status.Valid() {
		return nil, model.NewInvalidApplicationStatusError(string(status))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.applications[id]
	if !ok {
		return nil, model.NewApplicationNotFoundError(id)
	}
	a.Status = status
	a.UpdatedAt = s.now()

	cp := *a
	return &cp, nil
}

// --- 保存済み求人 ---

// SaveJob は求人を保存する。保存済みの場合は何もしない。
func (s *MemoryStore) SaveJob(ctx context.Context, userID, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return model.NewJobNotFoundError(jobID)
	}

	set, ok := s.savedSet[userID]
	if !ok {
		set = make(map[string]struct{})
		s.savedSet[userID] = set
	}
	if _, exists := set[jobID]; exists {
		return nil
	}
	set[jobID] = struct{}{}
	s.saved[userID] = append(s.saved[userID], jobID)
	return nil
}

// UnsaveJob は保存を解除する。未保存の場合も何もせずnilを返す。
func (s *MemoryStore) UnsaveJob(ctx context.Context, userID, jobID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.savedSet[userID]
	if !ok {
		return nil
	}
	if _, exists := set[jobID]; !exists {
		return nil
	}
	delete(set, jobID)
	s.saved[userID] = removeID(s.saved[userID], jobID)
	return nil
}

// ListSavedJobs はユーザーが保存した求人を保存順で返す。削除済みの求人は除外する。
func (s *MemoryStore) ListSavedJobs(ctx context.Context, userID string) ([]*model.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*model.Job, 0, len(s.saved[userID]))
	for _, jobID := range s.saved[userID] {
		j, ok := s.jobs[jobID]
		if !ok {
			continue
		}
		cp := *j
		result = append(result, &cp)
	}
	return result, nil
}

// --- 集計 ---

// Overview は全エンティティの集計値を返す。
// 保存数は現存する求人に対するものだけを数える。
func (s *MemoryStore) Overview(ctx context.Context) (*model.Overview, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o := &model.Overview{
		TotalUsers:           len(s.users),
		TotalCompanies:       len(s.companies),
		TotalJobs:            len(s.jobs),
		TotalApplications:    len(s.applications),
		ApplicationsByStatus: make(map[model.ApplicationStatus]int),
		JobsByCategory:       make(map[string]int),
	}
	for _, st := range model.ApplicationStatuses {
		o.ApplicationsByStatus[st] = 0
	}
	for _, j := range s.jobs {
		if j.Status == model.JobStatusActive {
			o.ActiveJobs++
		}
		o.JobsByCategory[j.Category]++
	}
	for _, a := range s.applications {
		o.ApplicationsByStatus[a.Status]++
	}
	for _, set := range s.savedSet {
		for jobID := range set {
			if _, ok := s.jobs[jobID]; ok {
				o.TotalSavedJobs++
			}
		}
	}
	return o, nil
}

// removeID はスライスから最初に一致したIDを取り除く。順序は維持する。
func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// compile-time interface check
var _ Store = (*MemoryStore)(nil)
