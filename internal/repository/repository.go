package repository

import (
	"fmt"

	"github.com/yourusername/steady-better/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	RunResult RunResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		RunResult: NewPostgresRunResultRepository(db),
	}, nil
}
