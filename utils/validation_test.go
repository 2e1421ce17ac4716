package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatPayload struct {
	Model    string        `validate:"required"`
	Messages []chatMessage `validate:"required,min=1,dive"`
}

type chatMessage struct {
	Role    string `validate:"required,oneof=system user assistant"`
	Content string `validate:"required"`
}

func TestValidateStruct_Valid(t *testing.T) {
	payload := chatPayload{
		Model:    "klassicheskiy-gpt4",
		Messages: []chatMessage{{Role: "user", Content: "hi"}},
	}

	assert.NoError(t, ValidateStruct(payload))
}

func TestValidateStruct_MissingModel(t *testing.T) {
	payload := chatPayload{
		Messages: []chatMessage{{Role: "user", Content: "hi"}},
	}

	err := ValidateStruct(payload)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "Model")
	assert.Equal(t, "Model is required", vErr.Fields["Model"])
}

func TestValidateStruct_EmptyMessages(t *testing.T) {
	payload := chatPayload{Model: "klassicheskiy-gpt4"}

	err := ValidateStruct(payload)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields, "Messages")
}

func TestValidateStruct_InvalidRole(t *testing.T) {
	payload := chatPayload{
		Model:    "klassicheskiy-gpt4",
		Messages: []chatMessage{{Role: "tool", Content: "hi"}},
	}

	err := ValidateStruct(payload)
	require.Error(t, err)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["Role"], "must be one of")
}

func TestValidationError_FieldDetails(t *testing.T) {
	vErr := &ValidationError{
		Message: "validation failed",
		Fields:  map[string]string{"Model": "Model is required"},
	}

	details := vErr.FieldDetails()
	assert.Equal(t, "Model is required", details["Model"])
}
