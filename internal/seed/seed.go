// Package seed loads a catalog of architectural styles (and optional demo
// favorites) from YAML and applies it to a store.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/architex/internal/adapters/repository"
	"github.com/okian/architex/internal/domain/model"
	"github.com/okian/architex/pkg/logger"
)

//go:embed styles.yaml
var defaultCatalog []byte

// Catalog is the decoded seed file.
type Catalog struct {
	// CreatedBy is used for styles that do not name a creator.
	CreatedBy string        `koanf:"created_by"`
	Styles    []model.Style `koanf:"styles"`
	Favorites []Favorites   `koanf:"favorites"`
}

// Favorites marks styles, by name, as liked by a user.
type Favorites struct {
	User   string   `koanf:"user"`
	Styles []string `koanf:"styles"`
}

// Store is what Apply writes to.
type Store interface {
	repository.Catalog
	repository.Favorites
}

// Result summarizes an Apply run.
type Result struct {
	Created   int
	Skipped   int
	Favorites int
}

// Load reads a YAML catalog from path.
func Load(ctx context.Context, path string) (*Catalog, error) {
	return load(ctx, file.Provider(path), path)
}

// Default returns the built-in catalog.
func Default(ctx context.Context) (*Catalog, error) {
	return load(ctx, bytesProvider{b: defaultCatalog}, "embedded")
}

// Parse decodes a YAML catalog held in memory.
func Parse(ctx context.Context, data []byte) (*Catalog, error) {
	return load(ctx, bytesProvider{b: data}, "bytes")
}

func load(ctx context.Context, p koanf.Provider, source string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if err := k.Load(p, yaml.Parser()); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSeed, source, err)
	}

	var c Catalog
	if err := k.UnmarshalWithConf("", &c, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoadSeed, source, err)
	}

	for i := range c.Styles {
		if c.Styles[i].CreatedBy == "" {
			c.Styles[i].CreatedBy = c.CreatedBy
		}
		if err := c.Styles[i].Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s: style %d: %w", ErrInvalidSeed, source, i, err)
		}
	}
	return &c, nil
}

// Apply inserts the catalog's styles, skipping names that already exist,
// then marks the listed favorites. Favorites already present are left alone
// so Apply can be run repeatedly.
func Apply(ctx context.Context, store Store, c *Catalog) (Result, error) {
	var res Result
	log := logger.Named("seed")

	for _, s := range c.Styles {
		_, err := store.Create(ctx, s)
		switch {
		case errors.Is(err, repository.ErrDuplicateName):
			res.Skipped++
			log.Debug(ctx, "style already present", logger.String("name", s.Name))
		case err != nil:
			return res, fmt.Errorf("create %q: %w", s.Name, err)
		default:
			res.Created++
		}
	}

	n, err := applyFavorites(ctx, store, c.Favorites)
	res.Favorites = n
	if err != nil {
		return res, err
	}

	log.Info(ctx, "catalog seeded",
		logger.Int("created", res.Created),
		logger.Int("skipped", res.Skipped),
		logger.Int("favorites", res.Favorites))
	return res, nil
}

func applyFavorites(ctx context.Context, store Store, favorites []Favorites) (int, error) {
	if len(favorites) == 0 {
		return 0, nil
	}

	all, err := store.All(ctx)
	if err != nil {
		return 0, err
	}
	idByName := make(map[string]string, len(all))
	for _, s := range all {
		idByName[s.Name] = s.ID
	}

	added := 0
	for _, fav := range favorites {
		current, err := store.Favorites(ctx, fav.User)
		if err != nil {
			return added, err
		}
		have := make([]string, len(current))
		for i, s := range current {
			have[i] = s.ID
		}

		for _, name := range fav.Styles {
			id, ok := idByName[name]
			if !ok {
				return added, fmt.Errorf("%w: favorite %q for %s is not in the catalog", ErrInvalidSeed, name, fav.User)
			}
			if slices.Contains(have, id) {
				continue
			}
			if _, _, err := store.ToggleFavorite(ctx, fav.User, id); err != nil {
				return added, err
			}
			have = append(have, id)
			added++
		}
	}
	return added, nil
}
