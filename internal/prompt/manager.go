package prompt

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/isaacphi/mapsxplr/internal/domain"
	"github.com/samber/lo"
)

// Manager resolves the configured presets.
type Manager struct {
	presets []domain.Preset
}

func NewManager(presets []domain.Preset) *Manager {
	return &Manager{presets: presets}
}

func (m *Manager) Presets() []domain.Preset {
	return m.presets
}

// Resolve finds a preset by its 1-based number or by its label. Labels match
// case-insensitively and the leading emoji may be left out, so "cold" finds
// "❄️ Cold".
func (m *Manager) Resolve(ref string) (domain.Preset, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(m.presets) {
			return domain.Preset{}, fmt.Errorf("preset number %d out of range 1-%d", n, len(m.presets))
		}
		return m.presets[n-1], nil
	}

	preset, ok := lo.Find(m.presets, func(p domain.Preset) bool {
		return strings.EqualFold(p.Label, ref) || strings.EqualFold(bareLabel(p.Label), ref)
	})
	if !ok {
		return domain.Preset{}, fmt.Errorf("unknown preset %q", ref)
	}
	return preset, nil
}

// bareLabel drops a leading emoji word from a label.
func bareLabel(label string) string {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return label
	}
	first := []rune(fields[0])
	if len(first) > 0 && first[0] > 0x2000 {
		return strings.Join(fields[1:], " ")
	}
	return label
}
