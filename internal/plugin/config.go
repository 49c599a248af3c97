package plugin

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// validate is shared; validator caches struct metadata and is safe for
// concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// StageConfig is the opaque per-stage configuration taken verbatim from the
// config file. The pipeline never inspects it.
type StageConfig map[string]any

// Decode decodes the configuration into out, which must be a pointer.
// Keys unknown to out are rejected. When out points to a struct, its
// `validate` tags are checked after decoding.
func (c StageConfig) Decode(out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("decode stage config: target must be a non-nil pointer, got %T", out)
	}

	if len(c) > 0 {
		data, err := yaml.Marshal(map[string]any(c))
		if err != nil {
			return fmt.Errorf("encode stage config: %w", err)
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(out); err != nil {
			return fmt.Errorf("decode stage config: %w", err)
		}
	}

	if rv.Elem().Kind() != reflect.Struct {
		return nil
	}
	if err := validate.Struct(out); err != nil {
		return fmt.Errorf("invalid stage config: %w", err)
	}
	return nil
}

// Clone returns a shallow copy of the configuration.
func (c StageConfig) Clone() StageConfig {
	if c == nil {
		return nil
	}
	out := make(StageConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
