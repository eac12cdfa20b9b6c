package router

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"taskpilot/internal/model"
)

type memUsers struct {
	mu    sync.Mutex
	users map[uuid.UUID]model.User
}

func newMemUsers() *memUsers {
	return &memUsers{users: make(map[uuid.UUID]model.User)}
}

func (r *memUsers) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return gorm.ErrDuplicatedKey
		}
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt, user.UpdatedAt = time.Now(), time.Now()
	r.users[user.ID] = *user
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memUsers) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

type memCategories struct {
	mu         sync.Mutex
	categories map[uuid.UUID]model.Category
}

func newMemCategories() *memCategories {
	return &memCategories{categories: make(map[uuid.UUID]model.Category)}
}

func (r *memCategories) Create(_ context.Context, category *model.Category) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.UserID == category.UserID && c.NormalizedName == category.NormalizedName {
			return gorm.ErrDuplicatedKey
		}
	}
	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	category.CreatedAt, category.UpdatedAt = time.Now(), time.Now()
	r.categories[category.ID] = *category
	return nil
}

func (r *memCategories) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, c := range r.categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memCategories) FindByNormalizedName(_ context.Context, userID uuid.UUID, normalizedName string) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.UserID == userID && c.NormalizedName == normalizedName {
			return &c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *memCategories) FindByIDForUser(_ context.Context, userID, id uuid.UUID) (*model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.categories[id]
	if !ok || c.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return &c, nil
}

func (r *memCategories) FindByIDsForUser(_ context.Context, userID uuid.UUID, ids []uuid.UUID) ([]model.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Category
	for _, id := range ids {
		if c, ok := r.categories[id]; ok && c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type memTasks struct {
	mu    sync.Mutex
	seq   int
	order map[uuid.UUID]int
	tasks map[uuid.UUID]model.Task
}

func newMemTasks() *memTasks {
	return &memTasks{order: make(map[uuid.UUID]int), tasks: make(map[uuid.UUID]model.Task)}
}

func (r *memTasks) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	task.CreatedAt, task.UpdatedAt = time.Now(), time.Now()
	r.seq++
	r.order[task.ID] = r.seq
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTasks) FindByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (r *memTasks) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Task
	for _, t := range r.tasks {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return r.order[out[i].ID] > r.order[out[j].ID] })
	return out, nil
}

func (r *memTasks) Update(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[task.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	task.UpdatedAt = time.Now()
	r.tasks[task.ID] = *task
	return nil
}

func (r *memTasks) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(r.tasks, id)
	delete(r.order, id)
	return nil
}

// outbox records the last code mailed per recipient and purpose.
type outbox struct {
	mu    sync.Mutex
	codes map[string]string
}

func newOutbox() *outbox {
	return &outbox{codes: make(map[string]string)}
}

func (o *outbox) SendOTP(_ context.Context, to, code string, purpose model.OTPPurpose) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.codes[string(purpose)+":"+to] = code
	return nil
}

func (o *outbox) last(to string, purpose model.OTPPurpose) string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.codes[string(purpose)+":"+to]
}
