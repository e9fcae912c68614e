package holiday

import "time"

// Composite chains several providers; the first one that recognizes a date
// wins. Used to layer a company holiday file over the jurisdiction table.
type Composite struct {
	providers []Provider
}

// NewComposite creates a composite provider from the given chain
func NewComposite(providers ...Provider) *Composite {
	return &Composite{providers: providers}
}

// Holiday asks each provider in order
func (c *Composite) Holiday(date time.Time) (string, bool) {
	for _, p := range c.providers {
		if label, ok := p.Holiday(date); ok {
			return label, ok
		}
	}
	return "", false
}
