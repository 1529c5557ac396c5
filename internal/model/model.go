package model

import "time"

type User struct {
	Id        int       `db:"id"`
	UserId    int64     `db:"user_id"`
	Username  string    `db:"username"`
	CreatedAt time.Time `db:"created_at"`
}

// Category is a node of the catalog tree. A node without a parent is a
// global category.
type Category struct {
	Id       int64  `db:"id"`
	Name     string `db:"name"`
	ParentId *int64 `db:"parent_id"`
}

func (c Category) IsRoot() bool {
	return c.ParentId == nil
}

// Level selects which part of the tree a lookup by name addresses.
type Level int

const (
	LevelGlobal Level = iota
	LevelSub
)

func (l Level) Matches(c Category) bool {
	if l == LevelGlobal {
		return c.IsRoot()
	}
	return !c.IsRoot()
}

type ParentKind int

const (
	ParentGlobal ParentKind = iota
	ParentSub
)

// ParentRef is a parent reference resolved once, when a category is created.
type ParentRef struct {
	Kind ParentKind
	Id   int64
}

func RefTo(c Category) ParentRef {
	if c.IsRoot() {
		return ParentRef{Kind: ParentGlobal, Id: c.Id}
	}
	return ParentRef{Kind: ParentSub, Id: c.Id}
}

type Product struct {
	Id             int64    `db:"id"`
	Name           string   `db:"name"`
	CategoryId     int64    `db:"category_id"`
	MinPrice       *float64 `db:"min_price"`
	CountOfReviews int      `db:"count_of_reviews"`
	ParseName      *string  `db:"parse_name"`

	Photos []ProductPhoto `db:"-"`
}

func (p Product) HasPhotos() bool {
	return len(p.Photos) > 0
}

func (p Product) PhotoBlobs() [][]byte {
	blobs := make([][]byte, 0, len(p.Photos))
	for _, photo := range p.Photos {
		blobs = append(blobs, photo.Photo)
	}
	return blobs
}

type ProductPhoto struct {
	Id        int64  `db:"id"`
	ProductId int64  `db:"product_id"`
	Photo     []byte `db:"photo"`
}

type SortKey string

const (
	SortPriceAsc   SortKey = "price_asc"
	SortPriceDesc  SortKey = "price_desc"
	SortPopularity SortKey = "popularity"
)

// ParseSortKey falls back to SortPriceAsc for unknown input.
func ParseSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortPriceDesc:
		return SortPriceDesc
	case SortPopularity:
		return SortPopularity
	default:
		return SortPriceAsc
	}
}

// SizePrice is one line of a live price lookup.
type SizePrice struct {
	Size  float64 `json:"size"`
	Price int     `json:"price"`
}
