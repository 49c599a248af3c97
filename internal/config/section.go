package config

import (
	"maps"

	"github.com/nao1215/ucma/internal/pipeline"
	"github.com/nao1215/ucma/internal/plugin"
)

// Section selects a plugin for one capability.
type Section struct {
	// Plugin is the name resolved against the registry. The first
	// descriptor whose location starts with it wins, so "git" selects
	// "git.extractor:New".
	Plugin string `yaml:"plugin"`

	// Config is passed to the stage constructor untouched.
	Config plugin.StageConfig `yaml:"config,omitempty"`
}

// Override returns a copy of s with the plugin replaced when name is
// non-empty and the keys of cfg merged over the existing config.
func (s Section) Override(name string, cfg plugin.StageConfig) Section {
	result := Section{Plugin: s.Plugin, Config: s.Config.Clone()}
	if name != "" && name != s.Plugin {
		// Stage config belongs to the plugin it was written for.
		result.Plugin = name
		result.Config = nil
	}
	if len(cfg) > 0 {
		if result.Config == nil {
			result.Config = make(plugin.StageConfig, len(cfg))
		}
		maps.Copy(result.Config, cfg)
	}
	return result
}

func (s Section) spec() pipeline.StageSpec {
	return pipeline.StageSpec{Plugin: s.Plugin, Config: s.Config}
}
