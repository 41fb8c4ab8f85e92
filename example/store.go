package main

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Status is the state of a todo.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Todo is a task in the store.
type Todo struct {
	ID          string
	Title       string
	Description string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Stats summarises the store.
type Stats struct {
	Total     int
	Pending   int
	Completed int
}

// Store is an in-memory todo store shared by all sessions.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*Todo
	nextID int
}

// NewStore creates a new store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]*Todo),
		nextID: 1,
	}

	s.Add("Buy groceries", "Milk, eggs, bread")
	s.Add("Review PR #123", "Check the authentication changes")
	s.Add("Write documentation", "Update API docs for v2")
	s.Add("Call dentist", "Schedule annual checkup")

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title, description string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.nextID++

	now := time.Now()
	s.todos[id] = &Todo{
		ID:          id,
		Title:       title,
		Description: description,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return id
}

// Get returns a copy of the todo with id.
func (s *Store) Get(id string) (Todo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, false
	}
	return *t, true
}

// Toggle toggles the completed status of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}
	if todo.Status == StatusCompleted {
		todo.Status = StatusPending
	} else {
		todo.Status = StatusCompleted
	}
	todo.UpdatedAt = time.Now()
	return true
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns all todos, oldest first.
func (s *Store) List() []Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		result = append(result, *todo)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result
}

// Stats returns statistics about the todos.
func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats Stats
	for _, todo := range s.todos {
		stats.Total++
		if todo.Status == StatusCompleted {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats
}
