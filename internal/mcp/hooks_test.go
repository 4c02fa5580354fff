package mcp

import (
	"testing"

	"github.com/Laisky/errors/v2"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

// TestShouldDowngradeMCPErrorLog verifies expected capability probes are downgraded.
func TestShouldDowngradeMCPErrorLog(t *testing.T) {
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, errors.New("request error: resources not supported")))
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesTemplatesList, errors.New("resources not supported")))
	require.True(t, shouldDowngradeMCPErrorLog(mcp.MethodPromptsList, errors.New("prompts not supported")))
}

// TestShouldDowngradeMCPErrorLogFalse verifies unrelated errors remain at error level.
func TestShouldDowngradeMCPErrorLogFalse(t *testing.T) {
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodToolsList, errors.New("resources not supported")))
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, errors.New("other failure")))
	require.False(t, shouldDowngradeMCPErrorLog(mcp.MethodResourcesList, nil))
}

func TestNewMCPHooksNilLogger(t *testing.T) {
	require.Nil(t, newMCPHooks(nil))
}
