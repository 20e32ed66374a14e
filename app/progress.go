package app

import "fmt"

// ProgressIndicator is the on-screen load indicator. It starts visible at
// 0% and is hidden for good once the scene decides loading is over.
type ProgressIndicator struct {
	Visible bool
	Percent float64

	// OnChange, if set, runs after every visible change.
	OnChange func(p *ProgressIndicator)
}

func NewProgressIndicator() *ProgressIndicator {
	return &ProgressIndicator{Visible: true}
}

// Report records a new percentage while the indicator is visible.
func (p *ProgressIndicator) Report(percent float64) {
	if !p.Visible || percent == p.Percent {
		return
	}
	p.Percent = percent
	p.changed()
}

func (p *ProgressIndicator) Hide() {
	if !p.Visible {
		return
	}
	p.Visible = false
	p.changed()
}

// Title decorates a window title with the current progress.
func (p *ProgressIndicator) Title(base string) string {
	if !p.Visible {
		return base
	}
	return fmt.Sprintf("%s (loading %.0f%%)", base, p.Percent)
}

func (p *ProgressIndicator) changed() {
	if p.OnChange != nil {
		p.OnChange(p)
	}
}
