package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/reflow/pkg/cache"
	"github.com/matzehuels/reflow/pkg/config"
	errs "github.com/matzehuels/reflow/pkg/errors"
)

// Scene encodings accepted by Parse.
const (
	SceneTOML = "toml"
	SceneJSON = "json"
)

// Parse decodes a scene in the given encoding and validates it.
func Parse(data []byte, encoding string) (*config.Scene, error) {
	switch encoding {
	case SceneTOML:
		return config.ReadScene(bytes.NewReader(data))
	case SceneJSON:
		var s config.Scene
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&s); err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidScene, err, "decode scene")
		}
		if err := s.Validate(); err != nil {
			return nil, err
		}
		return &s, nil
	}
	return nil, errs.New(errs.ErrCodeUnsupported, "unsupported scene encoding %q", encoding)
}

// EncodingFromPath picks the scene encoding from a file extension. Anything
// other than .json is TOML.
func EncodingFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return SceneJSON
	}
	return SceneTOML
}

// LoadScene reads and parses the scene file at path.
func LoadScene(path string) (*config.Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "scene %s", path)
		}
		return nil, fmt.Errorf("read scene: %w", err)
	}
	s, err := Parse(data, EncodingFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// SceneHash hashes the decoded scene, so the same scene in TOML and JSON
// shares cache entries.
func SceneHash(s *config.Scene) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInternal, err, "hash scene")
	}
	return cache.Hash(data), nil
}
