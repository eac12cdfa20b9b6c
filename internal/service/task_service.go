package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "taskpilot/internal/errors"
	"taskpilot/internal/model"
	"taskpilot/internal/repository"
)

// MsgTaskRemoved is returned after a successful delete.
const MsgTaskRemoved = "Task removed successfully"

// CategoryRef is the category summary embedded in a task.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TaskView is a task with its category resolved.
type TaskView struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Status      model.TaskStatus `json:"status"`
	UserID      uuid.UUID        `json:"userId"`
	Category    *CategoryRef     `json:"category"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TaskService manages a user's tasks.
type TaskService interface {
	List(ctx context.Context, ownerID uuid.UUID) ([]TaskView, error)
	Create(ctx context.Context, ownerID uuid.UUID, cmd CreateTaskCommand) (*TaskView, error)
	Update(ctx context.Context, ownerID uuid.UUID, taskID string, cmd UpdateTaskCommand) (*TaskView, error)
	Delete(ctx context.Context, ownerID uuid.UUID, taskID string) (string, error)
}

type taskService struct {
	taskRepo     repository.TaskRepository
	categoryRepo repository.CategoryRepository
}

// NewTaskService creates a new task service.
func NewTaskService(taskRepo repository.TaskRepository, categoryRepo repository.CategoryRepository) TaskService {
	return &taskService{
		taskRepo:     taskRepo,
		categoryRepo: categoryRepo,
	}
}

// List returns the owner's tasks, newest first.
func (s *taskService) List(ctx context.Context, ownerID uuid.UUID) ([]TaskView, error) {
	tasks, err := s.taskRepo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(tasks))
	seen := make(map[uuid.UUID]struct{}, len(tasks))
	for _, t := range tasks {
		if t.CategoryID == nil {
			continue
		}
		if _, ok := seen[*t.CategoryID]; ok {
			continue
		}
		seen[*t.CategoryID] = struct{}{}
		ids = append(ids, *t.CategoryID)
	}

	categories, err := s.categoryRepo.FindByIDsForUser(ctx, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("load task categories: %w", err)
	}
	byID := make(map[uuid.UUID]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}

	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		var category *model.Category
		if tasks[i].CategoryID != nil {
			category = byID[*tasks[i].CategoryID]
		}
		views = append(views, newTaskView(&tasks[i], category))
	}
	return views, nil
}

// Create adds a pending task for the owner.
func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, cmd CreateTaskCommand) (*TaskView, error) {
	title := strings.TrimSpace(cmd.Title)
	if title == "" {
		return nil, apperrors.Validation("Title is required")
	}

	var category *model.Category
	if cmd.Category != nil {
		var err error
		category, err = s.resolveCategory(ctx, ownerID, *cmd.Category)
		if err != nil {
			return nil, err
		}
	}

	task := &model.Task{
		Title:       title,
		Description: strings.TrimSpace(cmd.Description),
		Status:      model.TaskStatusPending,
		UserID:      ownerID,
	}
	if category != nil {
		task.CategoryID = &category.ID
	}

	if err := s.taskRepo.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	view := newTaskView(task, category)
	return &view, nil
}

// Update applies the fields present in cmd to one of the owner's tasks.
func (s *taskService) Update(ctx context.Context, ownerID uuid.UUID, taskID string, cmd UpdateTaskCommand) (*TaskView, error) {
	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	if cmd.Title.Set {
		title := strings.TrimSpace(cmd.Title.Value)
		if cmd.Title.Null || title == "" {
			return nil, apperrors.Validation("Title cannot be empty")
		}
		task.Title = title
	}
	if cmd.Description.Set {
		task.Description = strings.TrimSpace(cmd.Description.Value)
	}
	if cmd.Status.Set {
		status := model.TaskStatus(cmd.Status.Value)
		if cmd.Status.Null || !status.Valid() {
			return nil, apperrors.Validation("Invalid status value")
		}
		task.Status = status
	}

	var category *model.Category
	categoryResolved := false
	if cmd.Category.Set {
		categoryResolved = true
		task.CategoryID = nil
		if !cmd.Category.Null {
			category, err = s.resolveCategory(ctx, ownerID, cmd.Category.Value)
			if err != nil {
				return nil, err
			}
			if category != nil {
				task.CategoryID = &category.ID
			}
		}
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}

	if !categoryResolved && task.CategoryID != nil {
		category, err = s.categoryRepo.FindByIDForUser(ctx, ownerID, *task.CategoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load task category: %w", err)
		}
	}

	view := newTaskView(task, category)
	return &view, nil
}

// Delete removes one of the owner's tasks.
func (s *taskService) Delete(ctx context.Context, ownerID uuid.UUID, taskID string) (string, error) {
	task, err := s.ownedTask(ctx, ownerID, taskID)
	if err != nil {
		return "", err
	}

	if err := s.taskRepo.Delete(ctx, task.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", apperrors.NotFound("Task not found")
		}
		return "", fmt.Errorf("delete task: %w", err)
	}
	return MsgTaskRemoved, nil
}

// ownedTask loads a task and checks that ownerID owns it.
func (s *taskService) ownedTask(ctx context.Context, ownerID uuid.UUID, taskID string) (*model.Task, error) {
	id, err := uuid.Parse(taskID)
	if err != nil {
		return nil, apperrors.Validation("Invalid task id")
	}

	task, err := s.taskRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Task not found")
		}
		return nil, fmt.Errorf("find task: %w", err)
	}
	if task.UserID != ownerID {
		return nil, apperrors.Auth("Not authorized")
	}
	return task, nil
}

// resolveCategory maps a raw category id to one of the owner's categories.
// An empty id means no category.
func (s *taskService) resolveCategory(ctx context.Context, ownerID uuid.UUID, raw string) (*model.Category, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperrors.Validation("Invalid category id")
	}

	category, err := s.categoryRepo.FindByIDForUser(ctx, ownerID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Category not found")
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return category, nil
}

func newTaskView(task *model.Task, category *model.Category) TaskView {
	view := TaskView{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		UserID:      task.UserID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if category != nil {
		view.Category = &CategoryRef{ID: category.ID, Name: category.Name}
	}
	return view
}
