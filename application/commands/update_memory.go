package commands

import "memoryweb/pkg/utils"

// UpdateMemoryCommand applies partial updates to a memory. Nil pointer fields
// are left untouched; a non-nil Tags pointer replaces the tag set wholesale,
// which may trigger edge re-derivation downstream.
type UpdateMemoryCommand struct {
	UserID       string    `validate:"required"`
	MemoryID     string    `validate:"required,uuid4"`
	Title        *string   `validate:"omitempty,min=1,max=200"`
	Content      *string   `validate:"omitempty,max=50000"`
	Format       *string   `validate:"omitempty,oneof=text markdown html"`
	Tags         *[]string `validate:"omitempty,max=10,dive,max=50"`
	CollectionID *string   `validate:"omitempty"`
}

// Validate checks the command's invariants
func (c UpdateMemoryCommand) Validate() error {
	return utils.ValidateStruct(c)
}

// HasChanges reports whether the command carries any mutation at all
func (c UpdateMemoryCommand) HasChanges() bool {
	return c.Title != nil || c.Content != nil || c.Format != nil ||
		c.Tags != nil || c.CollectionID != nil
}

// DeleteMemoryCommand removes a memory and cascades its edges
type DeleteMemoryCommand struct {
	UserID   string `validate:"required"`
	MemoryID string `validate:"required,uuid4"`
}

// Validate checks the command's invariants
func (c DeleteMemoryCommand) Validate() error {
	return utils.ValidateStruct(c)
}
