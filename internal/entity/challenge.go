package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Challenge struct {
	Base
	GameID      string `gorm:"index;size:64"`
	Game        Game   `gorm:"foreignKey:GameID"`
	Name        string
	Description string

	StartDate    time.Time
	EndDate      time.Time
	JoinDeadline time.Time

	MaxParticipants  int
	ParticipantCount int

	GameMode        GameMode `gorm:"size:16;default:free"`
	Price           float64
	PricesByPackage PackagePrices
	Prize           string
	Visibility      Visibility `gorm:"size:16;default:public"`
	CreatedBy       string     `gorm:"size:64"`
}

// IsActive reports whether attempts are accepted at now. Both ends are
// inclusive.
func (c Challenge) IsActive(now time.Time) bool {
	return !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// PackagePrices overrides the base price per user package.
type PackagePrices map[PackageType]float64

func (p *PackagePrices) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), p)
	case []byte:
		return json.Unmarshal(t, p)
	case nil:
		*p = nil
		return nil
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (p PackagePrices) Value() (driver.Value, error) {
	if p == nil {
		return "{}", nil
	}

	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

func (PackagePrices) GormDataType() string {
	return "json"
}
