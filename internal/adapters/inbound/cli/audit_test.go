package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdidvp/carouselaudit/internal/adapters/inbound/cli"
	"github.com/abdidvp/carouselaudit/internal/domain"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmdForTest()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAudit_AllTargetsPass(t *testing.T) {
	b := &fakeBrowser{section: readFixture(t, "accessible.html")}
	useBrowser(t, b, nil)

	out, err := execute(t, "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "1 / 1 targets passing")
	assert.Contains(t, out, "embla (baseline)")
	assert.Contains(t, out, "100% (9/9)")
	assert.Equal(t, []string{"http://site.test/carousel/embla"}, b.visited)
}

func TestAudit_JSON(t *testing.T) {
	useBrowser(t, &fakeBrowser{section: readFixture(t, "accessible.html")}, nil)

	out, err := execute(t, "--config", writeConfig(t, ""), "--json")
	require.NoError(t, err)

	var report domain.AuditReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Results, 1)
	assert.Equal(t, 100, report.Results[0].Score.Percentage)
	assert.True(t, report.Passed())
}

func TestAudit_BelowBarExitsNonZero(t *testing.T) {
	useBrowser(t, &fakeBrowser{section: readFixture(t, "focus-trap.html")}, nil)

	out, err := execute(t, "--config", writeConfig(t, ""))
	require.Error(t, err)
	assert.True(t, errors.Is(err, cli.ErrBelowBar))
	assert.Contains(t, out, "44% (4/9)")
	assert.Contains(t, out, "BELOW 60%")
}

func TestAudit_PerTargetMinScore(t *testing.T) {
	useBrowser(t, &fakeBrowser{section: readFixture(t, "focus-trap.html")}, nil)

	dir := writeConfig(t, "    min_score: 40\n")
	_, err := execute(t, "--config", dir)
	assert.NoError(t, err)
}

func TestAudit_FailedTargetIsReported(t *testing.T) {
	useBrowser(t, &fakeBrowser{sessionErr: errors.New("tab crashed")}, nil)

	out, err := execute(t, "--config", writeConfig(t, ""))
	require.ErrorIs(t, err, cli.ErrBelowBar)
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "tab crashed")
}

func TestAudit_LaunchFailure(t *testing.T) {
	useBrowser(t, nil, errNoChrome)

	out, err := execute(t, "--config", writeConfig(t, ""))
	require.ErrorIs(t, err, errNoChrome)
	assert.Empty(t, out)
}

func TestAudit_UnknownTarget(t *testing.T) {
	useBrowser(t, &fakeBrowser{}, nil)

	_, err := execute(t, "--config", writeConfig(t, ""), "--target", "owl")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "owl"`)
}

func TestAudit_InvalidConfig(t *testing.T) {
	useBrowser(t, &fakeBrowser{}, nil)

	_, err := execute(t, "--config", writeConfig(t, "concurrency: 0\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "concurrency")
}

func TestAudit_BadLogFormat(t *testing.T) {
	_, err := execute(t, "--log-format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log format")
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "carouselaudit dev")
}
