package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepRegistry(t *testing.T) {
	expectedSteps := []string{
		ParseRequirements, CheckAlignment, ExtractProfile,
		EvaluateTech, EvaluateExperience, EvaluateCulture,
		Aggregate, WriteFeedback,
	}

	require.Len(t, StepRegistry, len(expectedSteps))
	for _, stepName := range expectedSteps {
		def, ok := StepRegistry[stepName]
		require.True(t, ok, "Step %s should be in registry", stepName)
		assert.Equal(t, stepName, def.Name)
		assert.NotEmpty(t, def.Category)
	}
}

func TestStepRegistryCategories(t *testing.T) {
	categories := map[string][]string{
		CategoryIngestion:  {ParseRequirements, CheckAlignment, ExtractProfile},
		CategoryEvaluation: {EvaluateTech, EvaluateExperience, EvaluateCulture},
		CategoryScoring:    {Aggregate},
		CategoryNarrative:  {WriteFeedback},
	}

	for category, stepNames := range categories {
		for _, stepName := range stepNames {
			assert.Equal(t, category, StepRegistry[stepName].Category, "Step %s should be in category %s", stepName, category)
		}
	}
}

func TestDependencyError(t *testing.T) {
	err := &DependencyError{
		Step:                "test_step",
		MissingDependencies: []string{"dep1", "dep2"},
	}

	assert.Contains(t, err.Error(), "missing dependencies")
	assert.Contains(t, err.Error(), "test_step")
}

func TestValidateDependencies(t *testing.T) {
	err := ValidateDependencies("unknown_step", nil)
	assert.ErrorContains(t, err, "unknown step")

	assert.NoError(t, ValidateDependencies(ParseRequirements, nil))

	err = ValidateDependencies(Aggregate, map[string]bool{EvaluateTech: true})
	var depErr *DependencyError
	require.ErrorAs(t, err, &depErr)
	assert.Equal(t, []string{EvaluateExperience, EvaluateCulture}, depErr.MissingDependencies)
}

func TestGetAvailableSteps(t *testing.T) {
	completed := map[string]bool{ParseRequirements: true, CheckAlignment: true, ExtractProfile: true}
	assert.Equal(t, []string{EvaluateCulture, EvaluateExperience, EvaluateTech}, GetAvailableSteps(completed))
}

func TestOrder(t *testing.T) {
	levels, err := Order()
	require.NoError(t, err)

	assert.Equal(t, [][]string{
		{ParseRequirements},
		{CheckAlignment},
		{ExtractProfile},
		{EvaluateCulture, EvaluateExperience, EvaluateTech},
		{Aggregate},
		{WriteFeedback},
	}, levels)
}
