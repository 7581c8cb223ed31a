package fiddle

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
)

var (
	ErrInvalidTemplate  = errors.New("invalid template name")
	ErrTemplateNotFound = errors.New("template not found")
)

// Catalog resolves template names to fiddles stored under a root directory,
// one subdirectory per template.
type Catalog struct {
	root   string
	reader *Reader
}

// NewCatalog creates a Catalog rooted at root.
func NewCatalog(reader *Reader, root string) *Catalog {
	return &Catalog{root: root, reader: reader}
}

// List returns the template names in sorted order. A missing root yields an
// empty list.
func (c *Catalog) List() ([]string, error) {
	if c.root == "" {
		return []string{}, nil
	}
	exists, err := c.reader.fsys.Exists(c.root)
	if err != nil {
		return nil, err
	}
	if !exists {
		return []string{}, nil
	}
	entries, err := c.reader.fsys.ReadDir(c.root)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	names := []string{}
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Path returns the directory of the named template.
func (c *Catalog) Path(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidTemplate
	}
	if c.root == "" {
		return "", ErrTemplateNotFound
	}
	dir := filepath.Join(c.root, name)
	exists, err := c.reader.fsys.Exists(dir)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", ErrTemplateNotFound
	}
	return dir, nil
}

// Read loads the named template.
func (c *Catalog) Read(name string) (Files, error) {
	dir, err := c.Path(name)
	if err != nil {
		return nil, err
	}
	return c.reader.Read(dir)
}
