package models

import "time"

// AssetStatus is the lifecycle state of a physical copy.
type AssetStatus string

const (
	AssetStatusAvailable AssetStatus = "available"
	AssetStatusBorrowed  AssetStatus = "borrowed"
	AssetStatusDamaged   AssetStatus = "damaged"
	AssetStatusLost      AssetStatus = "lost"
)

// assetTransitions encodes the status state machine. An asset must be
// returned before it can be marked damaged, and damaged and lost never
// transition into each other directly.
var assetTransitions = map[AssetStatus][]AssetStatus{
	AssetStatusAvailable: {AssetStatusBorrowed, AssetStatusDamaged},
	AssetStatusBorrowed:  {AssetStatusAvailable, AssetStatusLost},
	AssetStatusDamaged:   {AssetStatusAvailable},
	AssetStatusLost:      {AssetStatusAvailable},
}

// CanTransitionTo reports whether the status may move to target.
func (s AssetStatus) CanTransitionTo(target AssetStatus) bool {
	for _, allowed := range assetTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Asset is one barcoded physical copy of a title.
type Asset struct {
	ID        string      `db:"id" json:"id"`
	AssetCode string      `db:"asset_code" json:"asset_code"`
	TitleID   string      `db:"title_id" json:"title_id"`
	Status    AssetStatus `db:"status" json:"status"`
	Building  *string     `db:"building" json:"building,omitempty"`
	Aisle     *string     `db:"aisle" json:"aisle,omitempty"`
	Shelf     *string     `db:"shelf" json:"shelf,omitempty"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`
	DeletedAt *time.Time  `db:"deleted_at" json:"deleted_at,omitempty"`
}

// AssetDetail enriches Asset with its title's bibliographic fields.
type AssetDetail struct {
	Asset
	Title      string  `db:"book_title" json:"title"`
	Author     string  `db:"author" json:"author"`
	CallNumber *string `db:"call_number" json:"call_number,omitempty"`
	Category   *string `db:"category" json:"category,omitempty"`
}
