// Package steps provides stage definitions and dependency validation
// for the candidate evaluation pipeline.
package steps

import (
	"fmt"
	"sort"
)

// Stage names
const (
	ParseRequirements  = "parse_requirements"
	CheckAlignment     = "check_alignment"
	ExtractProfile     = "extract_profile"
	EvaluateTech       = "evaluate_tech"
	EvaluateExperience = "evaluate_experience"
	EvaluateCulture    = "evaluate_culture"
	Aggregate          = "aggregate"
	WriteFeedback      = "write_feedback"
)

// Stage categories
const (
	CategoryIngestion  = "ingestion"
	CategoryEvaluation = "evaluation"
	CategoryScoring    = "scoring"
	CategoryNarrative  = "narrative"
)

// StepDefinition defines metadata for a pipeline stage
type StepDefinition struct {
	Name         string
	Category     string
	Dependencies []string
	Optional     []string
}

// StepRegistry holds all stage definitions
var StepRegistry = map[string]StepDefinition{
	ParseRequirements: {
		Name:         ParseRequirements,
		Category:     CategoryIngestion,
		Dependencies: []string{},
		Optional:     []string{},
	},
	CheckAlignment: {
		Name:         CheckAlignment,
		Category:     CategoryIngestion,
		Dependencies: []string{ParseRequirements},
		Optional:     []string{},
	},
	ExtractProfile: {
		Name:         ExtractProfile,
		Category:     CategoryIngestion,
		Dependencies: []string{CheckAlignment},
		Optional:     []string{},
	},
	EvaluateTech: {
		Name:         EvaluateTech,
		Category:     CategoryEvaluation,
		Dependencies: []string{ParseRequirements, ExtractProfile},
		Optional:     []string{CheckAlignment},
	},
	EvaluateExperience: {
		Name:         EvaluateExperience,
		Category:     CategoryEvaluation,
		Dependencies: []string{ParseRequirements, ExtractProfile},
		Optional:     []string{CheckAlignment},
	},
	EvaluateCulture: {
		Name:         EvaluateCulture,
		Category:     CategoryEvaluation,
		Dependencies: []string{ParseRequirements, ExtractProfile},
		Optional:     []string{CheckAlignment},
	},
	Aggregate: {
		Name:         Aggregate,
		Category:     CategoryScoring,
		Dependencies: []string{EvaluateTech, EvaluateExperience, EvaluateCulture},
		Optional:     []string{CheckAlignment},
	},
	WriteFeedback: {
		Name:         WriteFeedback,
		Category:     CategoryNarrative,
		Dependencies: []string{Aggregate},
		Optional:     []string{},
	},
}

// DependencyError represents a dependency validation error
type DependencyError struct {
	Step                string
	MissingDependencies []string
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("stage %s has missing dependencies: %v", e.Step, e.MissingDependencies)
}

// ValidateDependencies checks that every required dependency of a stage is completed
func ValidateDependencies(stepName string, completed map[string]bool) error {
	def, ok := StepRegistry[stepName]
	if !ok {
		return fmt.Errorf("unknown step: %s", stepName)
	}

	var missing []string
	for _, dep := range def.Dependencies {
		if !completed[dep] {
			missing = append(missing, dep)
		}
	}
	if len(missing) > 0 {
		return &DependencyError{Step: stepName, MissingDependencies: missing}
	}
	return nil
}

// GetAvailableSteps returns the stages not yet completed whose dependencies are met, sorted by name
func GetAvailableSteps(completed map[string]bool) []string {
	var available []string
	for stepName := range StepRegistry {
		if completed[stepName] {
			continue
		}
		if err := ValidateDependencies(stepName, completed); err != nil {
			continue
		}
		available = append(available, stepName)
	}
	sort.Strings(available)
	return available
}

// Order returns every stage in an order that satisfies all dependencies.
// Stages that become available together are grouped and sorted by name.
func Order() ([][]string, error) {
	completed := make(map[string]bool, len(StepRegistry))
	var levels [][]string
	for len(completed) < len(StepRegistry) {
		next := GetAvailableSteps(completed)
		if len(next) == 0 {
			return nil, fmt.Errorf("stage graph has a cycle or an unknown dependency")
		}
		for _, name := range next {
			completed[name] = true
		}
		levels = append(levels, next)
	}
	return levels, nil
}
