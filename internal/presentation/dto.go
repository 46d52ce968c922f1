package presentation

import (
	"github.com/strataml/strata/internal/registry"
)

// EntryDTO represents a registry entry for presentation
type EntryDTO struct {
	Name   string `json:"name"`
	Kind   string `json:"kind,omitempty"`
	Doc    string `json:"doc,omitempty"`
	Source string `json:"source"`
}

// ValidationDTO represents the outcome of validating one spec file
type ValidationDTO struct {
	Path  string `json:"path"`
	Tag   string `json:"tag,omitempty"`
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

// FromEntry converts a registry entry to a DTO.
func FromEntry(e registry.Entry) EntryDTO {
	dto := EntryDTO{
		Name:   e.Name,
		Doc:    e.Doc,
		Source: string(e.Source),
	}
	// Function bindings carry no descriptor, so no kind either
	if e.Descriptor != nil {
		dto.Kind = e.Descriptor.Kind()
	}
	return dto
}

// FromEntries converts a slice of registry entries to DTOs
func FromEntries(entries []registry.Entry) []EntryDTO {
	dtos := make([]EntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = FromEntry(e)
	}
	return dtos
}

// FromValidation converts a validation outcome to a DTO. A nil err marks
// the spec valid.
func FromValidation(path, tag string, err error) ValidationDTO {
	dto := ValidationDTO{
		Path:  path,
		Tag:   tag,
		Valid: err == nil,
	}
	if err != nil {
		dto.Error = err.Error()
	}
	return dto
}
