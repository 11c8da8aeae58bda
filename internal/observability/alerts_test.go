package observability

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type alertRule struct {
	Alert       string            `yaml:"alert"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for"`
	Labels      map[string]string `yaml:"labels"`
	Annotations map[string]string `yaml:"annotations"`
}

type alertGroup struct {
	Name  string      `yaml:"name"`
	Rules []alertRule `yaml:"rules"`
}

type alertFile struct {
	Groups []alertGroup `yaml:"groups"`
}

func TestAlertRules(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "deploy", "prometheus", "alerts", "quotebill.yml"))
	require.NoError(t, err)

	var file alertFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.Len(t, file.Groups, 1)
	group := file.Groups[0]
	require.Equal(t, "quotebill", group.Name)

	expected := map[string]struct {
		severity string
		runbook  string
		metric   string
	}{
		"HighErrorRate":       {"critical", "docs/runbook.md#high-error-rate", "quotebill_http_requests_total"},
		"PDFRenderFailures":   {"warning", "docs/runbook.md#pdf-render-failures", "quotebill_pdf_renders_total"},
		"OverdueSweepFailing": {"warning", "docs/runbook.md#overdue-sweep", "quotebill_jobs_failures_total"},
	}
	require.Len(t, group.Rules, len(expected))

	for _, rule := range group.Rules {
		want, ok := expected[rule.Alert]
		require.True(t, ok, "unexpected rule %q", rule.Alert)
		assert.Equal(t, want.severity, rule.Labels["severity"], rule.Alert)
		assert.Equal(t, want.runbook, rule.Annotations["runbook"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["summary"], rule.Alert)
		assert.NotEmpty(t, rule.Annotations["description"], rule.Alert)
		assert.Contains(t, rule.Expr, want.metric, rule.Alert)
		assert.NotEmpty(t, rule.For, rule.Alert)
	}
}
