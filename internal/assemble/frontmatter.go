package assemble

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Meta describes one conversion for the optional YAML frontmatter block.
type Meta struct {
	Title     string    `yaml:"title"`
	Source    string    `yaml:"source,omitempty"`
	Pages     int       `yaml:"pages,omitempty"`
	Sections  int       `yaml:"sections"`
	Generated time.Time `yaml:"generated"`
}

// Frontmatter renders meta as a fenced YAML block ready to prepend to the
// document, trailing blank line included.
func Frontmatter(meta Meta) (string, error) {
	body, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	return "---\n" + string(body) + "---\n\n", nil
}
