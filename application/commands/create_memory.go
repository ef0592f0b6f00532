package commands

import (
	"strings"

	"memoryweb/pkg/utils"
)

// CreateMemoryCommand records a new memory. Position and animation seeds are
// randomized by the domain at creation, never supplied by callers.
type CreateMemoryCommand struct {
	UserID       string   `validate:"required"`
	Title        string   `validate:"required,min=1,max=200"`
	Content      string   `validate:"omitempty,max=50000"`
	Format       string   `validate:"omitempty,oneof=text markdown html"`
	Tags         []string `validate:"omitempty,max=10,dive,max=50"`
	Images       []string `validate:"omitempty,max=12"`
	Links        []string `validate:"omitempty,max=20,dive,url"`
	CollectionID string   `validate:"omitempty,uuid4"`
}

// Validate checks the command's invariants
func (c CreateMemoryCommand) Validate() error {
	c.Title = strings.TrimSpace(c.Title)
	return utils.ValidateStruct(c)
}

// CreateCollectionCommand creates a user-named organizational collection
type CreateCollectionCommand struct {
	UserID      string `validate:"required"`
	Name        string `validate:"required,min=1,max=100"`
	Description string `validate:"omitempty,max=500"`
}

// Validate checks the command's invariants
func (c CreateCollectionCommand) Validate() error {
	return utils.ValidateStruct(c)
}
