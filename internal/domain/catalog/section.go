package catalog

import (
	"strings"

	"github.com/resto/backend/internal/domain/shared"
)

// Section is an operational location (kitchen station, bar) that holds an
// allocated slice of total stock. Reference data, read by the ledger.
type Section struct {
	shared.BaseEntity
	Name     string `gorm:"type:varchar(120);not null"`
	IsActive bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Section) TableName() string {
	return "sections"
}

// NewSection creates a new active section
func NewSection(name string) (*Section, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Section name cannot be empty")
	}
	return &Section{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		IsActive:   true,
	}, nil
}

// Deactivate soft-deletes the section
func (s *Section) Deactivate() {
	s.IsActive = false
	s.Touch()
}
