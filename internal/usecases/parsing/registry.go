package parsing

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

type schemaFile struct {
	Schemas []Schema `yaml:"schemas"`
}

// Registry guarda os formatos de CSV disponíveis por nome
type Registry struct {
	mu          sync.RWMutex
	schemas     map[string]Schema
	defaultName string
}

// NewRegistry cria um registro com os schemas embutidos (simple e extended)
func NewRegistry(defaultName string) *Registry {
	r := &Registry{
		schemas:     make(map[string]Schema),
		defaultName: defaultName,
	}
	r.schemas[SchemaSimple] = SimpleSchema()
	r.schemas[SchemaExtended] = ExtendedSchema()
	return r
}

// Register adiciona ou substitui um schema depois de validá-lo
func (r *Registry) Register(schema Schema) error {
	if err := schema.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[schema.Name] = schema
	return nil
}

// LoadFile lê schemas adicionais de um arquivo YAML
func (r *Registry) LoadFile(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, errors.Wrapf(err, "erro ao ler arquivo de schemas %s", path)
	}

	var file schemaFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return 0, errors.Wrapf(err, "erro ao interpretar arquivo de schemas %s", path)
	}

	for _, schema := range file.Schemas {
		if err := r.Register(schema); err != nil {
			return 0, err
		}
		logrus.WithFields(logrus.Fields{
			"schema":  schema.Name,
			"columns": len(schema.Columns),
		}).Info("Schema de CSV registrado")
	}

	return len(file.Schemas), nil
}

// Get retorna o schema pelo nome; nome vazio usa o schema padrão
func (r *Registry) Get(name string) (Schema, error) {
	if name == "" {
		name = r.defaultName
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	schema, ok := r.schemas[name]
	if !ok {
		return Schema{}, fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	return schema, nil
}

func (r *Registry) DefaultName() string {
	return r.defaultName
}

// List retorna os schemas ordenados por nome
func (r *Registry) List() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Schema, 0, len(r.schemas))
	for _, schema := range r.schemas {
		list = append(list, schema)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return list
}
