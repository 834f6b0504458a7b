package questions

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// yamlPack mirrors the on-disk pack format.
type yamlPack struct {
	ID        string         `yaml:"id"`
	Name      string         `yaml:"name"`
	Questions []yamlQuestion `yaml:"questions"`
}

type yamlQuestion struct {
	ID      string   `yaml:"id,omitempty"`
	Prompt  string   `yaml:"prompt"`
	Options []string `yaml:"options"`
	Answer  int      `yaml:"answer"`
	Info    string   `yaml:"info,omitempty"`
}

// ParseYAML parses a YAML question pack.
func ParseYAML(data []byte) (Pack, error) {
	var yp yamlPack
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return Pack{}, fmt.Errorf("yaml unmarshal: %w", err)
	}

	pack := Pack{
		ID:        yp.ID,
		Name:      yp.Name,
		Questions: make([]Question, 0, len(yp.Questions)),
	}
	for i, q := range yp.Questions {
		id := q.ID
		if id == "" {
			id = fmt.Sprintf("%s-%d", yp.ID, i+1)
		}
		pack.Questions = append(pack.Questions, Question{
			ID:      id,
			Prompt:  q.Prompt,
			Options: q.Options,
			Answer:  q.Answer,
			Info:    q.Info,
		})
	}

	if err := pack.Validate(); err != nil {
		return Pack{}, err
	}
	return pack, nil
}

// FormatExtensions returns supported pack file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml"}
}
