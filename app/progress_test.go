package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgressIndicator(t *testing.T) {
	p := NewProgressIndicator()
	var changes int
	p.OnChange = func(*ProgressIndicator) { changes++ }

	assert.Equal(t, "Cow (loading 0%)", p.Title("Cow"))

	p.Report(42.4)
	p.Report(42.4)
	assert.Equal(t, "Cow (loading 42%)", p.Title("Cow"))
	assert.Equal(t, 1, changes)

	p.Hide()
	p.Hide()
	assert.Equal(t, "Cow", p.Title("Cow"))
	assert.Equal(t, 2, changes)

	p.Report(100)
	assert.Equal(t, 42.4, p.Percent)
	assert.Equal(t, 2, changes)
}
