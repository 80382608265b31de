package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/domain"
)

const fixtureDir = "../../../../testdata/carousels"

func callTool(t *testing.T, h func(context.Context, mcplib.CallToolRequest) (*mcplib.CallToolResult, error), args map[string]any) (*mcplib.CallToolResult, string) {
	t.Helper()
	var req mcplib.CallToolRequest
	req.Params.Arguments = args
	res, err := h(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcplib.TextContent)
	require.True(t, ok)
	return res, text.Text
}

func TestInspectMarkup_ScoresFixture(t *testing.T) {
	markup, err := os.ReadFile(filepath.Join(fixtureDir, "accessible.html"))
	require.NoError(t, err)

	res, text := callTool(t, handleInspectMarkup(t.TempDir()), map[string]any{"html": string(markup)})
	require.False(t, res.IsError, text)

	var out struct {
		Score domain.Score       `json:"score"`
		Check domain.CheckResult `json:"check"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &out))
	assert.Equal(t, 9, out.Score.Passed)
	assert.Equal(t, 9, out.Score.Total)
	assert.Equal(t, 100, out.Score.Percentage)
	assert.True(t, out.Check.Structure.HasContainer)
}

func TestInspectMarkup_MissingSectionScoresEmpty(t *testing.T) {
	res, text := callTool(t, handleInspectMarkup(t.TempDir()), map[string]any{
		"html":    `<div class="other"></div>`,
		"section": ".carousel-section",
	})
	require.False(t, res.IsError, text)
	assert.Contains(t, text, `"percentage": 0`)
	assert.Contains(t, text, "Missing identifiable carousel container")
}

func TestInspectMarkup_RequiresHTML(t *testing.T) {
	res, _ := callTool(t, handleInspectMarkup(t.TempDir()), map[string]any{})
	assert.True(t, res.IsError)
}

func TestInspectMarkup_BadSelector(t *testing.T) {
	res, text := callTool(t, handleInspectMarkup(t.TempDir()), map[string]any{"html": "<p></p>", "section": "[[["})
	assert.True(t, res.IsError)
	assert.Contains(t, text, "inspection failed")
}

func TestRun_WithoutAuditor(t *testing.T) {
	res, text := callTool(t, handleRun(nil), nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, "not available")
}

func TestRun_PassesTargetIDs(t *testing.T) {
	var got []string
	audit := func(_ context.Context, ids []string) (*domain.AuditReport, error) {
		got = ids
		return &domain.AuditReport{RunID: "r1", Results: []domain.TargetResult{}}, nil
	}

	res, text := callTool(t, handleRun(audit), map[string]any{"targets": "embla,glide"})
	require.False(t, res.IsError, text)
	assert.Equal(t, []string{"embla", "glide"}, got)
	assert.Contains(t, text, `"run_id": "r1"`)
}

func TestRun_InterruptedKeepsPartialReport(t *testing.T) {
	audit := func(context.Context, []string) (*domain.AuditReport, error) {
		return &domain.AuditReport{RunID: "r2"}, errors.New("audit interrupted: context canceled")
	}
	res, text := callTool(t, handleRun(audit), nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, `"run_id": "r2"`)
}

func TestRun_ConfigError(t *testing.T) {
	audit := func(context.Context, []string) (*domain.AuditReport, error) {
		return nil, errors.New("invalid .carouselaudit.yaml: base_url must not be empty")
	}
	res, text := callTool(t, handleRun(audit), nil)
	assert.True(t, res.IsError)
	assert.Contains(t, text, "base_url")
}

func TestRubricResource(t *testing.T) {
	var req mcplib.ReadResourceRequest
	req.Params.URI = "carouselaudit://rubric"

	contents, err := handleRubricResource()(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcplib.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "application/json", text.MIMEType)

	var criteria []struct {
		Name        string `json:"name"`
		Conditional bool   `json:"conditional"`
	}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &criteria))
	require.Len(t, criteria, 9)
	assert.Equal(t, "container", criteria[0].Name)

	conditional := 0
	for _, c := range criteria {
		if c.Conditional {
			conditional++
		}
	}
	assert.Equal(t, 1, conditional)
}

func TestConfigResource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".carouselaudit.yaml"), []byte("base_url: http://example.test\n"), 0o644))

	var req mcplib.ReadResourceRequest
	req.Params.URI = "carouselaudit://config"

	contents, err := handleConfigResource(dir)(context.Background(), req)
	require.NoError(t, err)
	text := contents[0].(mcplib.TextResourceContents)
	assert.Contains(t, text.Text, `"base_url": "http://example.test"`)
	assert.Contains(t, text.Text, `"section_selector": ".carousel-section"`)
}
