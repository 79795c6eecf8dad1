package migration

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/timechallenge/backend/internal/entity"
	"github.com/timechallenge/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

//go:embed games.toml
var defaultCatalogue []byte

type catalogueGame struct {
	ID                string         `toml:"id"`
	Name              string         `toml:"name"`
	Description       string         `toml:"description"`
	Type              string         `toml:"type"`
	ResetTime         string         `toml:"reset_time"`
	MaxAttemptsPerDay int            `toml:"max_attempts_per_day"`
	Config            map[string]any `toml:"config"`
}

type catalogue struct {
	Games []catalogueGame `toml:"game"`
}

// ParseCatalogue reads a game catalogue. An empty path reads the embedded
// default catalogue.
func ParseCatalogue(path string) ([]entity.Game, error) {
	data := defaultCatalogue
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		data = b
	}

	var c catalogue
	if _, err := toml.Decode(string(data), &c); err != nil {
		return nil, err
	}

	games := make([]entity.Game, 0, len(c.Games))
	for _, g := range c.Games {
		if g.ID == "" || g.Type == "" {
			return nil, fmt.Errorf("game %q must have both id and type", g.Name)
		}

		games = append(games, entity.Game{
			Base:              entity.Base{ID: g.ID},
			Name:              g.Name,
			Description:       g.Description,
			Type:              g.Type,
			Config:            entity.Map(g.Config),
			ResetTime:         g.ResetTime,
			MaxAttemptsPerDay: g.MaxAttemptsPerDay,
		})
	}

	return games, nil
}

// Seed inserts the games of the catalogue, skipping ids which already exist.
func Seed(ctx context.Context, games []entity.Game) error {
	if len(games) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&games).Error
}
