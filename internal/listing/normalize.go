package listing

import (
	"fmt"
	"strings"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

// Adapter normalizes raw source records into the common Listing shape.
// Each source keeps its own field naming; the matching pipeline only ever
// sees normalized listings.
type Adapter interface {
	Source() string
	Normalize(raw map[string]any) (*Listing, error)
}

// MapAdapter decodes map-shaped records into listings, translating
// per-source field aliases to the canonical keys first.
type MapAdapter struct {
	source  string
	aliases map[string][]string
}

// defaultAliases covers the alternative field names seen across the
// supported collectors.
var defaultAliases = map[string][]string{
	"id":               {"jobId", "reference"},
	"titre":            {"title", "poste"},
	"entreprise":       {"company", "societe"},
	"localisation":     {"location", "lieu"},
	"description":      {"contenu"},
	"type_contrat":     {"contractType", "contrat"},
	"salaire":          {"salary"},
	"date_publication": {"datePublication"},
}

func NewMapAdapter(source string, aliases map[string][]string) *MapAdapter {
	if aliases == nil {
		aliases = defaultAliases
	}
	return &MapAdapter{source: source, aliases: aliases}
}

func (a *MapAdapter) Source() string { return a.source }

func (a *MapAdapter) Normalize(raw map[string]any) (*Listing, error) {
	record := make(map[string]any, len(raw))
	for key, value := range raw {
		record[key] = value
	}
	for canonical, names := range a.aliases {
		if _, ok := record[canonical]; ok {
			continue
		}
		for _, name := range names {
			if value, ok := record[name]; ok {
				record[canonical] = value
				break
			}
		}
	}

	var l Listing
	cfg := &mapstructure.DecoderConfig{
		Result:           &l,
		TagName:          "json",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(record); err != nil {
		return nil, fmt.Errorf("decoding record: %w", err)
	}

	if l.Source == "" {
		l.Source = a.source
	}
	if strings.TrimSpace(l.ID) == "" {
		return nil, fmt.Errorf("record has no id")
	}
	return &l, nil
}

// NormalizeAll runs raw records through the adapter. Records that cannot
// be normalized are logged and skipped; one bad record never fails the
// batch.
func NormalizeAll(adapter Adapter, raws []map[string]any, logger *zap.Logger) *Listings {
	listings := &Listings{}
	for _, raw := range raws {
		l, err := adapter.Normalize(raw)
		if err != nil {
			if logger != nil {
				logger.Warn("skipping record that could not be normalized",
					zap.String("source", adapter.Source()),
					zap.Error(err),
				)
			}
			continue
		}
		listings.Items = append(listings.Items, l)
	}
	return listings
}
