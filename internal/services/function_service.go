package services

import (
	"fmt"

	"github.com/complytrack/compliance-tracker-api/internal/models"
	"github.com/complytrack/compliance-tracker-api/internal/repository"
)

// FunctionService exposes the business-function catalog.
type FunctionService struct {
	functions repository.FunctionRepository
}

func NewFunctionService(functions repository.FunctionRepository) *FunctionService {
	return &FunctionService{functions: functions}
}

func (s *FunctionService) List() ([]models.Function, error) {
	functions, err := s.functions.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list functions: %w", err)
	}
	return functions, nil
}
