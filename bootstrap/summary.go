package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xlab/treeprint"

	"github.com/kbukum/seedkit/component"
)

// Summary renders the startup state of an App: the backing stores it
// connected to and their live health.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	out             io.Writer
}

// NewSummary creates a summary that writes to out.
func NewSummary(serviceName, version string, out io.Writer) *Summary {
	return &Summary{serviceName: serviceName, version: version, out: out}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// Display prints the stores described by registry and their health.
func (s *Summary) Display(ctx context.Context, registry *component.Registry) {
	version := s.version
	if version == "" {
		version = "dev"
	}
	fmt.Fprintf(s.out, "\n%s %s ready in %.2fs\n", s.serviceName, version, s.startupDuration.Seconds())

	tree := treeprint.NewWithRoot("Stores")
	var descs []component.Description
	if registry != nil {
		descs = registry.Describe()
	}
	if len(descs) == 0 {
		tree.AddNode("No stores configured")
		fmt.Fprintln(s.out, tree.String())
		return
	}

	health := make(map[string]component.Health)
	for _, h := range registry.HealthAll(ctx) {
		health[h.Name] = h
	}
	for i, c := range registry.All() {
		d := descs[i]
		h := health[c.Name()]
		status := strings.ToLower(string(h.Status))
		if h.Message != "" {
			status += " (" + h.Message + ")"
		}
		tree.AddMetaNode(d.Type, fmt.Sprintf("%s %s %s: %s", healthStatusIcon(h.Status), d.Name, d.Details, status))
	}
	fmt.Fprintln(s.out, tree.String())
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
