package api

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"github.com/qri-io/jsonschema"

	"github.com/garnizeh/feedback/internal/models"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

const maxBodyBytes = 1 << 20

const (
	schemaLogin          = "login"
	schemaFeedbackCreate = "feedback_create"
	schemaFeedbackUpdate = "feedback_update"
)

// Schemas holds the compiled request body schemas keyed by file name without
// extension. It is read-only once LoadSchemas returns.
type Schemas struct {
	cache map[string]*jsonschema.Schema
}

// LoadSchemas compiles every *.json file in the schemas directory of fsys.
func LoadSchemas(fsys fs.FS) (*Schemas, error) {
	entries, err := fs.ReadDir(fsys, "schemas")
	if err != nil {
		return nil, fmt.Errorf("read schemas: %w", err)
	}

	cache := make(map[string]*jsonschema.Schema)
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := fs.ReadFile(fsys, path.Join("schemas", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read schema %s: %w", e.Name(), err)
		}
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal(raw, rs); err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", e.Name(), err)
		}
		cache[strings.TrimSuffix(e.Name(), ".json")] = rs
	}

	return &Schemas{cache: cache}, nil
}

func (s *Schemas) Get(name string) (*jsonschema.Schema, bool) {
	rs, ok := s.cache[name]
	return rs, ok
}

// Check validates raw against the named schema. Violations are reported as ErrValidation.
func (s *Schemas) Check(ctx context.Context, name string, raw []byte) error {
	rs, ok := s.Get(name)
	if !ok {
		return fmt.Errorf("no schema named %s", name)
	}

	verrs, err := rs.ValidateBytes(ctx, raw)
	if err != nil {
		return fmt.Errorf("%w: request body is not valid JSON", models.ErrValidation)
	}
	if len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, v := range verrs {
			if v.PropertyPath != "" && v.PropertyPath != "/" {
				msgs = append(msgs, v.PropertyPath+": "+v.Message)
				continue
			}
			msgs = append(msgs, v.Message)
		}
		return fmt.Errorf("%w: %s", models.ErrValidation, strings.Join(msgs, "; "))
	}

	return nil
}

// decodeBody reads the request body, checks it against the named schema and
// unmarshals it into dst.
func (s *Schemas) decodeBody(r *http.Request, name string, dst any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: cannot read request body", models.ErrValidation)
	}

	if err := s.Check(r.Context(), name, raw); err != nil {
		return err
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", models.ErrValidation, err)
	}

	return nil
}
