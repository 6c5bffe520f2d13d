package sla

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gira-airport/complaint-service/internal/domain"
)

// Matrix maps lower-cased category names to per-priority resolution
// windows in hours. Entries that match no priority label are allowed;
// they simply never apply.
type Matrix struct {
	DefaultHours int                       `json:"default_hours"`
	Categories   map[string]map[string]int `json:"categories"`
}

// DefaultMatrix returns the built-in service-level table.
func DefaultMatrix() Matrix {
	return Matrix{
		DefaultHours: 48,
		Categories: map[string]map[string]int{
			"baggage":          {"Normal": 24, "Urgent": 8},
			"security":         {"Critical": 2, "Normal": 12},
			"facilities":       {"Normal": 48, "Urgent": 16},
			"customer service": {"Normal": 24},
			"lost & found":     {"Normal": 72},
		},
	}
}

// Policy computes complaint deadlines from the injected matrix. Reload
// swaps the matrix at runtime without a restart.
type Policy struct {
	mu     sync.RWMutex
	matrix Matrix
}

// NewPolicy builds a policy around the given matrix.
func NewPolicy(matrix Matrix) *Policy {
	if matrix.DefaultHours <= 0 {
		matrix.DefaultHours = DefaultMatrix().DefaultHours
	}
	return &Policy{matrix: matrix}
}

// LoadMatrix parses a matrix from a JSON file.
func LoadMatrix(path string) (Matrix, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Matrix{}, fmt.Errorf("read sla matrix: %w", err)
	}
	var matrix Matrix
	if err := json.Unmarshal(content, &matrix); err != nil {
		return Matrix{}, fmt.Errorf("parse sla matrix: %w", err)
	}
	return matrix, nil
}

// Reload replaces the active matrix.
func (p *Policy) Reload(matrix Matrix) {
	if matrix.DefaultHours <= 0 {
		matrix.DefaultHours = DefaultMatrix().DefaultHours
	}
	p.mu.Lock()
	p.matrix = matrix
	p.mu.Unlock()
}

// DurationHours looks up the resolution window for a category and
// priority, falling back to the default. Total: always returns a value.
func (p *Policy) DurationHours(categoryName string, priority domain.ComplaintPriority) int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	key := strings.ToLower(strings.TrimSpace(categoryName))
	if byPriority, ok := p.matrix.Categories[key]; ok {
		if hours, ok := byPriority[string(priority)]; ok {
			return hours
		}
	}
	return p.matrix.DefaultHours
}

// DueDate computes the deadline for a complaint created at createdAt.
func (p *Policy) DueDate(createdAt time.Time, categoryName string, priority domain.ComplaintPriority) time.Time {
	return createdAt.Add(time.Duration(p.DurationHours(categoryName, priority)) * time.Hour)
}
