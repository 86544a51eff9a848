// Package admin keeps the registry of entities exposed through the admin API
// and how each of them is edited.
package admin

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kutbudev/blog/pkg/models"
	"gorm.io/gorm/schema"
)

var (
	ErrAlreadyRegistered = errors.New("model already registered")
	ErrUnknownField      = errors.New("unknown relation field")
)

// ModelAdmin describes one registered entity. RawIDFields are relations edited
// by typing ids instead of picking from a list of every row.
type ModelAdmin struct {
	Name        string   `json:"name"`
	Table       string   `json:"table"`
	Path        string   `json:"path"`
	Fields      []string `json:"fields"`
	RawIDFields []string `json:"raw_id_fields"`
}

// IsRawID reports whether field is edited by id.
func (m ModelAdmin) IsRawID(field string) bool {
	for _, f := range m.RawIDFields {
		if strings.EqualFold(f, field) {
			return true
		}
	}
	return false
}

// Site is a set of registered model admins.
type Site struct {
	mu     sync.RWMutex
	cache  *sync.Map
	namer  schema.Namer
	models map[string]*ModelAdmin
	order  []string
}

func NewSite() *Site {
	return &Site{
		cache:  &sync.Map{},
		namer:  schema.NamingStrategy{},
		models: make(map[string]*ModelAdmin),
	}
}

// NewDefaultSite registers the blog's entities.
func NewDefaultSite() (*Site, error) {
	site := NewSite()
	if err := site.Register(&models.Post{}, "tags", "likes"); err != nil {
		return nil, err
	}
	if err := site.Register(&models.Tag{}); err != nil {
		return nil, err
	}
	if err := site.Register(&models.Comment{}, "post", "author"); err != nil {
		return nil, err
	}
	return site, nil
}

// Register adds a GORM model to the site. Every raw-id field must name a
// belongs-to or many-to-many relation of the model.
func (s *Site) Register(model any, rawIDFields ...string) error {
	sch, err := schema.Parse(model, s.cache, s.namer)
	if err != nil {
		return fmt.Errorf("failed to parse model: %w", err)
	}

	name := strings.ToLower(sch.Name)
	entry := &ModelAdmin{
		Name:        name,
		Table:       sch.Table,
		Path:        "/admin/" + sch.Table,
		Fields:      editableFields(sch, s.namer),
		RawIDFields: make([]string, 0, len(rawIDFields)),
	}

	for _, field := range rawIDFields {
		rel := findRelation(sch, field)
		if rel == nil || (rel.Type != schema.BelongsTo && rel.Type != schema.Many2Many) {
			return fmt.Errorf("%w: %s.%s", ErrUnknownField, name, field)
		}
		entry.RawIDFields = append(entry.RawIDFields, strings.ToLower(field))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.models[name]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, name)
	}
	s.models[name] = entry
	s.order = append(s.order, name)
	return nil
}

// Lookup returns the admin registered under name ("post", "tag", ...).
func (s *Site) Lookup(name string) (ModelAdmin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.models[strings.ToLower(name)]
	if !ok {
		return ModelAdmin{}, false
	}
	return *m, true
}

// Models lists registered admins in registration order.
func (s *Site) Models() []ModelAdmin {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ModelAdmin, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.models[name])
	}
	return out
}

// editableFields lists writable columns (annotations and the primary key are
// skipped) followed by many-to-many relations.
func editableFields(sch *schema.Schema, namer schema.Namer) []string {
	var fields []string
	for _, f := range sch.Fields {
		if f.DBName == "" || f.PrimaryKey || !f.Creatable {
			continue
		}
		fields = append(fields, f.DBName)
	}
	for _, rel := range sch.Relationships.Many2Many {
		fields = append(fields, namer.ColumnName("", rel.Name))
	}
	return fields
}

func findRelation(sch *schema.Schema, field string) *schema.Relationship {
	for name, rel := range sch.Relationships.Relations {
		if strings.EqualFold(name, field) {
			return rel
		}
	}
	return nil
}
