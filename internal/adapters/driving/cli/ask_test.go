package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ragdex-labs/ragdex-cli/internal/core/domain"
)

func TestAskCmd_Use(t *testing.T) {
	assert.Equal(t, "ask [question]", askCmd.Use)
}

func TestAskCmd_PrintsAnswerAndSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "what is this?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "mock answer")
	assert.Contains(t, buf.String(), "Sources:")
	assert.Contains(t, buf.String(), "Mock Doc")
}

func TestAskCmd_LLMUnavailable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	answerService = &mockAnswerService{err: domain.ErrLLMUnavailable}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"ask", "what is this?"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no LLM configured")
}

func TestAskCmd_NoSources(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	answerService = &mockAnswerService{
		answer: &domain.Answer{Text: "No relevant documents found.", Model: "mock-model"},
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"ask", "obscure question"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.NoError(t, err)
	assert.NotContains(t, buf.String(), "Sources:")
}
