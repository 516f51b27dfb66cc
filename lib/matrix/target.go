package matrix

import (
	"fmt"
	"os"

	"github.com/go-rod/fullpage/lib/devices"
	"gopkg.in/yaml.v3"
)

// Default window size of a target
const (
	DefaultWidth  = 1280
	DefaultHeight = 1024
)

// Target is one browser the fixture runs against
type Target struct {
	Name     string `yaml:"name"`
	Browser  string `yaml:"browser"`
	Platform string `yaml:"platform"`

	// ControlURL of a remote browser, such as "ws://grid:9222" or "grid:9222".
	// When it's empty a local browser is launched.
	ControlURL string `yaml:"control_url"`
	Bin        string `yaml:"bin"`
	Show       bool   `yaml:"show"`

	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	// Device preset to emulate, such as "iPhone X", see the devices package
	Device    string `yaml:"device"`
	Landscape bool   `yaml:"landscape"`

	// JobID on the remote grid, the id of the page target is used if it's empty
	JobID string   `yaml:"job_id"`
	Tags  []string `yaml:"tags"`
}

// Default is a single local headless chromium
func Default() []Target {
	t := Target{Name: "chromium", Browser: "chromium"}
	t.applyDefaults()
	return []Target{t}
}

// Load a yaml list of targets
func Load(path string) ([]Target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse a yaml list of targets
func Parse(data []byte) ([]Target, error) {
	var list []Target
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	for i := range list {
		t := &list[i]
		if t.Name == "" {
			t.Name = t.Browser
		}
		if t.Name == "" {
			return nil, fmt.Errorf("[matrix] target %d has no name", i)
		}
		if seen[t.Name] {
			return nil, fmt.Errorf("[matrix] duplicated target name: %s", t.Name)
		}
		seen[t.Name] = true
		if t.Device != "" {
			if _, err := devices.Find(t.Device); err != nil {
				return nil, fmt.Errorf("[matrix] target %s: %w", t.Name, err)
			}
		}
		t.applyDefaults()
	}
	return list, nil
}

func (t *Target) applyDefaults() {
	if t.Width <= 0 {
		t.Width = DefaultWidth
	}
	if t.Height <= 0 {
		t.Height = DefaultHeight
	}
}

func (t Target) String() string {
	s := t.Name
	if t.Platform != "" {
		s += "@" + t.Platform
	}
	return s
}
