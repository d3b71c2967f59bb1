package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xh-polaris/brandstudio-core-api/biz/infra/config"
)

func newTestGuard(t *testing.T) *Guard {
	t.Helper()
	return New(config.Guard{})
}

func TestPrecheckClean(t *testing.T) {
	g := newTestGuard(t)
	r := g.Precheck("Necesito un plan de contenido para el lanzamiento")
	assert.True(t, r.Pass)
	assert.Equal(t, 100, r.Score)
	assert.Empty(t, r.Violations)
}

func TestPrecheckBannedTerm(t *testing.T) {
	g := newTestGuard(t)
	r := g.Precheck("our obsolete product line")
	assert.False(t, r.Pass)
	assert.Equal(t, 80, r.Score)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, TypeBannedTerm, r.Violations[0].Type)
	assert.Equal(t, SeverityHigh, r.Violations[0].Severity)
}

func TestPrecheckTone(t *testing.T) {
	g := newTestGuard(t)
	r := g.Precheck("this looks terrible to me")
	assert.False(t, r.Pass)
	assert.Equal(t, 90, r.Score)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, TypeTone, r.Violations[0].Type)
	assert.Equal(t, SeverityMedium, r.Violations[0].Severity)
}

func TestPrecheckShoutingPasses(t *testing.T) {
	// 仅低危不阻断
	g := newTestGuard(t)
	r := g.Precheck("quiero algo URGENTE para el viernes")
	assert.True(t, r.Pass)
	assert.Equal(t, 95, r.Score)
	require.Len(t, r.Violations, 1)
	assert.Equal(t, TypeStyle, r.Violations[0].Type)
	assert.Equal(t, SeverityLow, r.Violations[0].Severity)
}

func TestPrecheckCombined(t *testing.T) {
	g := newTestGuard(t)
	r := g.Precheck("the obsolete design is terrible")
	assert.False(t, r.Pass)
	assert.Equal(t, 70, r.Score)
	assert.Len(t, r.Violations, 2)
}

func TestPrecheckCustomLists(t *testing.T) {
	g := New(config.Guard{Banned: []string{"competidor"}, Avoid: []string{"barato"}})
	assert.False(t, g.Precheck("mencionar al competidor").Pass)
	assert.False(t, g.Precheck("que se vea barato").Pass)
	// 默认词表被覆盖后不再命中
	assert.True(t, g.Precheck("our obsolete product").Pass)
}

func TestIsShouting(t *testing.T) {
	assert.True(t, isShouting("URGENTE"))
	assert.False(t, isShouting("OK"))
	assert.False(t, isShouting("Urgente"))
	assert.False(t, isShouting("2024"))
}
