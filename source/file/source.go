package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/danmasta/rbac"
)

// document is the wrapped policy shape: a mapping with a "roles" key.
type document struct {
	Roles []rbac.RoleDecl `yaml:"roles" json:"roles"`
}

// Source reads role declarations from a single policy file.
type Source struct {
	fs   afero.Fs
	path string
}

// Option configures a Source.
type Option func(*Source)

// WithFs substitutes the filesystem the policy is read from.
func WithFs(fs afero.Fs) Option {
	return func(s *Source) {
		s.fs = fs
	}
}

// New creates a Source for the given policy file path. The format is chosen
// by extension: .json is JSON, .yml/.yaml (and anything else) is YAML.
func New(path string, opts ...Option) *Source {
	s := &Source{
		fs:   afero.NewOsFs(),
		path: path,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load implements rbac.Source.
func (s *Source) Load(ctx context.Context) ([]rbac.RoleDecl, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		return nil, errors.Join(ErrReadFailed, err)
	}
	return Parse(data, filepath.Ext(s.path))
}

// Parse decodes a policy document in the format named by ext.
func Parse(data []byte, ext string) ([]rbac.RoleDecl, error) {
	switch strings.ToLower(ext) {
	case ".json":
		return parseJSON(data)
	case ".yml", ".yaml", "":
		return parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

func parseYAML(data []byte) ([]rbac.RoleDecl, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, nil
	}

	switch root.Content[0].Kind {
	case yaml.SequenceNode:
		var decls []rbac.RoleDecl
		if err := root.Content[0].Decode(&decls); err != nil {
			return nil, errors.Join(ErrParseFailed, err)
		}
		return decls, nil
	case yaml.MappingNode:
		var doc document
		if err := root.Content[0].Decode(&doc); err != nil {
			return nil, errors.Join(ErrParseFailed, err)
		}
		return doc.Roles, nil
	default:
		return nil, fmt.Errorf("%w: policy root must be a list or a mapping", ErrParseFailed)
	}
}

func parseJSON(data []byte) ([]rbac.RoleDecl, error) {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" {
		return nil, nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var decls []rbac.RoleDecl
		if err := json.Unmarshal(data, &decls); err != nil {
			return nil, errors.Join(ErrParseFailed, err)
		}
		return decls, nil
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrParseFailed, err)
	}
	return doc.Roles, nil
}
