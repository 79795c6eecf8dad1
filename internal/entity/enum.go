package entity

import "github.com/timechallenge/backend/pkg/enum"

type ScoreOrdering string

var (
	LowerIsBetter  = enum.New(ScoreOrdering("lower_is_better"))
	HigherIsBetter = enum.New(ScoreOrdering("higher_is_better"))
)

// Better reports whether a strictly improves on b.
func (o ScoreOrdering) Better(a, b float64) bool {
	if o == HigherIsBetter {
		return a > b
	}

	return a < b
}

// Comparator returns the SQL comparison operator selecting a stored score that
// the new score improves on.
func (o ScoreOrdering) Comparator() string {
	if o == HigherIsBetter {
		return "<"
	}

	return ">"
}

type GameMode string

var (
	GameModeFree    = enum.New(GameMode("free"))
	GameModePaid    = enum.New(GameMode("paid"))
	GameModePro     = enum.New(GameMode("pro"))
	GameModePremium = enum.New(GameMode("premium"))
	GameModeVIP     = enum.New(GameMode("vip"))
)

type PackageType string

var (
	PackageFree    = enum.New(PackageType("free"))
	PackagePro     = enum.New(PackageType("pro"))
	PackagePremium = enum.New(PackageType("premium"))
	PackageVIP     = enum.New(PackageType("vip"))
)

// PackageHierarchy lists packages from the lowest to the highest tier. A user
// with a package may access every tier at or below it.
var PackageHierarchy = []PackageType{PackageFree, PackagePro, PackagePremium, PackageVIP}

type Visibility string

var (
	VisibilityPublic  = enum.New(Visibility("public"))
	VisibilityShop    = enum.New(Visibility("shop"))
	VisibilityPrivate = enum.New(Visibility("private"))
)
