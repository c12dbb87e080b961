package memrepo

import (
	"context"
	"sort"
	"strings"

	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/domain/repository"
)

var (
	_ repository.UserRepository           = (*UserRepo)(nil)
	_ repository.JobRepository            = (*JobRepo)(nil)
	_ repository.JobApplicationRepository = (*ApplicationRepo)(nil)
)

// ── Usuarios ─────────────────────────────────────────────────────────────────

type UserRepo struct{ s *Store }

func cloneUser(u *entity.User) *entity.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Roles = append([]string(nil), u.Roles...)
	return &c
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.users {
		if strings.EqualFold(other.Email, u.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return cloneUser(r.s.users[id]), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return cloneUser(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) SetRoles(_ context.Context, userID string, roles []string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Roles = append([]string(nil), roles...)
	return nil
}

func (r *UserRepo) SetActive(_ context.Context, userID string, active bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Active = active
	return nil
}

func (r *UserRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return page(out, limit, offset), nil
}

func (r *UserRepo) RoleNames(_ context.Context) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return append([]string(nil), r.s.roles...), nil
}

// ── Vacantes y postulaciones ─────────────────────────────────────────────────

type JobRepo struct{ s *Store }

func (r *JobRepo) Create(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.jobs[j.ID] = clone(j)
	return nil
}

func (r *JobRepo) GetByID(_ context.Context, id string) (*entity.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.jobs[id]), nil
}

func (r *JobRepo) Update(_ context.Context, j *entity.Job) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.jobs[j.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.jobs[j.ID] = clone(j)
	return nil
}

func (r *JobRepo) List(_ context.Context, onlyOpen bool, limit, offset int) ([]*entity.Job, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Job
	for _, j := range r.s.jobs {
		if onlyOpen && !j.Open() {
			continue
		}
		out = append(out, clone(j))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

type ApplicationRepo struct{ s *Store }

func (r *ApplicationRepo) Create(_ context.Context, a *entity.JobApplication) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.applications[a.ID] = clone(a)
	return nil
}

func (r *ApplicationRepo) GetByID(_ context.Context, id string) (*entity.JobApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return clone(r.s.applications[id]), nil
}

func (r *ApplicationRepo) ListByJob(_ context.Context, jobID string, limit, offset int) ([]*entity.JobApplication, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.JobApplication
	for _, a := range r.s.applications {
		if a.JobID == jobID {
			out = append(out, clone(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return page(out, limit, offset), nil
}

func (r *ApplicationRepo) UpdateStatus(_ context.Context, id, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.applications[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Status = status
	return nil
}
