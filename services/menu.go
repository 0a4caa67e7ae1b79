package services

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"mimi-order/models"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultCatalog []byte

var (
	ErrUnknownItem  = errors.New("unknown menu item")
	ErrUnknownExtra = errors.New("unknown extra option")
)

// Catalog is the immutable menu loaded at startup.
type Catalog struct {
	Store models.StoreInfo

	items     []models.MenuItem
	extras    []models.ExtraOption
	itemByID  map[string]int
	extraByID map[string]int
}

type catalogFile struct {
	Store  models.StoreInfo     `yaml:"store"`
	Menu   []models.MenuItem    `yaml:"menu"`
	Extras []models.ExtraOption `yaml:"extras"`
}

// LoadCatalog reads a YAML catalog from path, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	if path == "" {
		return ParseCatalog(defaultCatalog)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Menu) == 0 {
		return nil, errors.New("catalog has no menu items")
	}
	c := &Catalog{
		Store:     f.Store,
		items:     f.Menu,
		extras:    f.Extras,
		itemByID:  make(map[string]int, len(f.Menu)),
		extraByID: make(map[string]int, len(f.Extras)),
	}
	for i, it := range f.Menu {
		if it.ID == "" || it.Name == "" {
			return nil, fmt.Errorf("menu item %d: id and name are required", i)
		}
		if it.Price < 0 {
			return nil, fmt.Errorf("menu item %s: price must be >= 0", it.ID)
		}
		if _, dup := c.itemByID[it.ID]; dup {
			return nil, fmt.Errorf("menu item %s: duplicate id", it.ID)
		}
		c.itemByID[it.ID] = i
	}
	for i, ex := range f.Extras {
		if ex.ID == "" || ex.Name == "" {
			return nil, fmt.Errorf("extra %d: id and name are required", i)
		}
		if ex.Price < 0 {
			return nil, fmt.Errorf("extra %s: price must be >= 0", ex.ID)
		}
		if _, dup := c.extraByID[ex.ID]; dup {
			return nil, fmt.Errorf("extra %s: duplicate id", ex.ID)
		}
		c.extraByID[ex.ID] = i
	}
	return c, nil
}

func (c *Catalog) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Extras() []models.ExtraOption {
	out := make([]models.ExtraOption, len(c.extras))
	copy(out, c.extras)
	return out
}

func (c *Catalog) Item(id string) (models.MenuItem, bool) {
	i, ok := c.itemByID[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Extra(id string) (models.ExtraOption, bool) {
	i, ok := c.extraByID[id]
	if !ok {
		return models.ExtraOption{}, false
	}
	return c.extras[i], true
}

// Search returns items whose name or description contains text. Empty text returns everything.
func (c *Catalog) Search(text string) []models.MenuItem {
	var out []models.MenuItem
	for _, it := range c.items {
		if strings.Contains(it.Name, text) || strings.Contains(it.Description, text) {
			out = append(out, it)
		}
	}
	return out
}

// ResolveExtras maps ids to options in catalog order, dropping duplicates.
func (c *Catalog) ResolveExtras(ids []string) ([]models.ExtraOption, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := c.extraByID[id]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExtra, id)
		}
		want[id] = true
	}
	var out []models.ExtraOption
	for _, ex := range c.extras {
		if want[ex.ID] {
			out = append(out, ex)
		}
	}
	return out, nil
}
