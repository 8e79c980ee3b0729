package catalog

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/factoryflow/pkg/errors"
	"github.com/matzehuels/factoryflow/pkg/factory"
)

//go:embed vanilla.toml
var vanillaTOML []byte

var (
	vanillaOnce sync.Once
	vanilla     *Catalog
	vanillaErr  error
)

// Default returns the embedded vanilla catalog with opts applied.
func Default(opts Options) (*Catalog, error) {
	vanillaOnce.Do(func() {
		vanilla, vanillaErr = LoadTOML(bytes.NewReader(vanillaTOML), Options{})
	})
	if vanillaErr != nil {
		return nil, vanillaErr
	}
	return vanilla.WithOptions(opts)
}

// Open loads a catalog file. Files ending in .json are read as a data-raw
// dump, everything else as TOML.
func Open(path string, opts Options) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "catalog %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "open catalog %s", path)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadRaw(f, opts)
	}
	return LoadTOML(f, opts)
}

type tomlFile struct {
	Prototypes []Prototype  `toml:"prototype"`
	Recipes    []tomlRecipe `toml:"recipe"`
}

type tomlRecipe struct {
	Name        string         `toml:"name"`
	Time        float64        `toml:"time"`
	Result      factory.Item   `toml:"result"`
	Ingredients []factory.Item `toml:"ingredients"`
}

// LoadTOML reads a catalog in the native TOML format:
//
//	[[prototype]]
//	name = "transport-belt"
//	type = "transport-belt"
//	speed = 0.03125
//
//	[[recipe]]
//	name = "iron-gear-wheel"
//	time = 0.5
//	result = { name = "iron-gear-wheel", amount = 1 }
//	ingredients = [{ name = "iron-plate", amount = 2 }]
func LoadTOML(r io.Reader, opts Options) (*Catalog, error) {
	var f tomlFile
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode catalog")
	}
	recipes := make([]factory.Recipe, len(f.Recipes))
	for i, tr := range f.Recipes {
		recipes[i] = factory.Recipe{
			Name:        tr.Name,
			Ingredients: tr.Ingredients,
			Result:      tr.Result,
			Time:        tr.Time,
		}
	}
	return New(f.Prototypes, recipes, opts)
}

// rawCategories lists the data-raw categories holding placeable entities.
var rawCategories = []string{
	TypeSplitter,
	TypeContainer,
	TypeLogisticContainer,
	TypeAssembler,
	TypeInfinityContainer,
	TypeInserter,
	TypeUndergroundBelt,
	TypeFurnace,
	TypeTransportBelt,
}

type rawRecipeBody struct {
	Ingredients    []json.RawMessage `json:"ingredients"`
	Result         string            `json:"result"`
	ResultCount    float64           `json:"result_count"`
	EnergyRequired float64           `json:"energy_required"`
}

type rawRecipe struct {
	rawRecipeBody
	Normal *rawRecipeBody `json:"normal"`
}

type rawIngredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
}

// LoadRaw reads the game's data-raw JSON dump. Entities are collected from
// the placeable categories, recipes from "recipe". When a recipe has a
// "normal" difficulty block it takes precedence. Fluid ingredients are
// dropped.
func LoadRaw(r io.Reader, opts Options) (*Catalog, error) {
	var data map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode data-raw")
	}

	var prototypes []Prototype
	for _, cat := range rawCategories {
		blob, ok := data[cat]
		if !ok {
			continue
		}
		var entries map[string]Prototype
		if err := json.Unmarshal(blob, &entries); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode category %s", cat)
		}
		for name, p := range entries {
			if p.Name == "" {
				p.Name = name
			}
			if p.Type == "" {
				p.Type = cat
			}
			prototypes = append(prototypes, p)
		}
	}

	blob, ok := data["recipe"]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidCatalog, "data-raw has no recipe category")
	}
	var raws map[string]rawRecipe
	if err := json.Unmarshal(blob, &raws); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode recipes")
	}

	recipes := make([]factory.Recipe, 0, len(raws))
	for name, raw := range raws {
		rec, err := raw.recipe(name)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, rec)
	}
	return New(prototypes, recipes, opts)
}

func (raw rawRecipe) recipe(name string) (factory.Recipe, error) {
	body := raw.rawRecipeBody
	if raw.Normal != nil {
		body = *raw.Normal
	}

	rec := factory.Recipe{
		Name:   name,
		Result: factory.Item{Name: name, Amount: body.ResultCount},
		Time:   body.EnergyRequired,
	}
	if body.Result != "" {
		rec.Result.Name = body.Result
	}
	if rec.Result.Amount <= 0 {
		rec.Result.Amount = 1
	}
	if rec.Time <= 0 {
		rec.Time = 1
	}

	for _, msg := range body.Ingredients {
		it, err := parseIngredient(msg)
		if err != nil {
			return factory.Recipe{}, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "recipe %s", name)
		}
		if it.Type == "fluid" {
			continue
		}
		rec.Ingredients = append(rec.Ingredients, factory.Item{Name: it.Name, Amount: it.Amount})
	}
	return rec, nil
}

// parseIngredient accepts both ["iron-plate", 2] and
// {"name": "water", "amount": 20, "type": "fluid"}.
func parseIngredient(msg json.RawMessage) (rawIngredient, error) {
	msg = bytes.TrimSpace(msg)
	if len(msg) > 0 && msg[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(msg, &pair); err != nil {
			return rawIngredient{}, err
		}
		if len(pair) != 2 {
			return rawIngredient{}, errors.New(errors.ErrCodeInvalidCatalog, "ingredient pair has %d elements", len(pair))
		}
		var it rawIngredient
		if err := json.Unmarshal(pair[0], &it.Name); err != nil {
			return rawIngredient{}, err
		}
		if err := json.Unmarshal(pair[1], &it.Amount); err != nil {
			return rawIngredient{}, err
		}
		return it, nil
	}
	var it rawIngredient
	if err := json.Unmarshal(msg, &it); err != nil {
		return rawIngredient{}, err
	}
	if it.Name == "" {
		return rawIngredient{}, errors.New(errors.ErrCodeInvalidCatalog, "ingredient without a name")
	}
	return it, nil
}
