// Package catalog turns the category tree and the product store into the
// screens a shopper walks through: category lists, paginated product
// listings and the targets of the "back" buttons.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"SneakerShopBot/internal/application/states"
	"SneakerShopBot/internal/model"
	"SneakerShopBot/internal/storage"
)

const PageSize = 3

type Action string

const (
	ActionShow     Action = "show"
	ActionNext     Action = "next"
	ActionPrevious Action = "previous"
)

func ParseAction(s string) Action {
	switch Action(s) {
	case ActionNext:
		return ActionNext
	case ActionPrevious:
		return ActionPrevious
	default:
		return ActionShow
	}
}

type Navigator struct {
	categories storage.CategoryStorage
	products   storage.ProductStorage
	pageSize   int
}

func NewNavigator(categories storage.CategoryStorage, products storage.ProductStorage) *Navigator {
	return &Navigator{categories: categories, products: products, pageSize: PageSize}
}

// Node is a category together with its direct children. A node without
// children is a leaf and is shown as a product listing.
type Node struct {
	Category model.Category
	Children []model.Category
}

func (n Node) IsLeaf() bool {
	return len(n.Children) == 0
}

type Listing struct {
	Category   model.Category
	Items      []model.Product
	Page       int
	TotalPages int
	Total      int
	Sort       model.SortKey
}

func (l Listing) HasPrevious() bool { return l.Page > 1 }
func (l Listing) HasNext() bool     { return l.Page < l.TotalPages }

func (n *Navigator) Roots(ctx context.Context) ([]model.Category, error) {
	return n.categories.ListRoots(ctx)
}

func (n *Navigator) Children(ctx context.Context, id int64) ([]model.Category, error) {
	return n.categories.ListChildren(ctx, id)
}

func (n *Navigator) Category(ctx context.Context, id int64) (Node, error) {
	c, err := n.categories.GetById(ctx, id)
	if err != nil {
		return Node{}, err
	}
	children, err := n.categories.ListChildren(ctx, id)
	if err != nil {
		return Node{}, fmt.Errorf("list children of %d: %w", id, err)
	}
	return Node{Category: *c, Children: children}, nil
}

// ListProducts returns one page of the products of a leaf category.
// Products without photos are not shown, and the page is clamped into the
// available range.
func (n *Navigator) ListProducts(ctx context.Context, categoryId int64, sort model.SortKey, page int) (Listing, error) {
	return n.TurnPage(ctx, categoryId, sort, page, ActionShow)
}

// TurnPage is ListProducts for the page reached from page by action.
func (n *Navigator) TurnPage(ctx context.Context, categoryId int64, sort model.SortKey, page int, action Action) (Listing, error) {
	c, err := n.categories.GetById(ctx, categoryId)
	if err != nil {
		return Listing{}, err
	}

	all, err := n.products.ListByCategory(ctx, categoryId, sort)
	if err != nil {
		return Listing{}, err
	}

	visible := make([]model.Product, 0, len(all))
	for _, p := range all {
		if p.HasPhotos() {
			visible = append(visible, p)
		}
	}

	total := TotalPages(len(visible), n.pageSize)
	page = Turn(page, total, action)

	start := min((page-1)*n.pageSize, len(visible))
	end := min(start+n.pageSize, len(visible))

	return Listing{
		Category:   *c,
		Items:      visible[start:end],
		Page:       page,
		TotalPages: total,
		Total:      len(visible),
		Sort:       sort,
	}, nil
}

func TotalPages(count, size int) int {
	if count <= 0 || size <= 0 {
		return 0
	}
	return (count + size - 1) / size
}

// Turn moves from page by action. next stops at the last page and previous
// stops at the first one.
func Turn(page, total int, action Action) int {
	switch action {
	case ActionNext:
		page++
	case ActionPrevious:
		page--
	}
	return clamp(page, total)
}

func clamp(page, total int) int {
	if page > total {
		page = total
	}
	if page < 1 {
		page = 1
	}
	return page
}

// BackTarget tells which menu the "back" button of a node's screen leads to
// and which node that menu is anchored at. Nodes that no longer exist lead
// back to the catalog root.
func (n *Navigator) BackTarget(ctx context.Context, nodeId int64) (states.Menu, int64, error) {
	node, err := n.categories.GetById(ctx, nodeId)
	if errors.Is(err, storage.ErrNotFound) {
		return states.MenuGlobal, 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	if node.IsRoot() {
		return states.MenuGlobal, 0, nil
	}

	parent, err := n.categories.GetById(ctx, *node.ParentId)
	if errors.Is(err, storage.ErrNotFound) {
		return states.MenuGlobal, 0, nil
	}
	if err != nil {
		return "", 0, err
	}
	if parent.IsRoot() {
		return states.MenuSubcategory, parent.Id, nil
	}
	return states.MenuSubSubcategory, parent.Id, nil
}

// Anchor returns the node a menu is anchored at in the browse state.
func Anchor(menu states.Menu, b states.Browse) int64 {
	switch menu {
	case states.MenuSubcategory:
		return b.GlobalCategory
	case states.MenuSubSubcategory:
		return b.Subcategory
	default:
		return 0
	}
}

// Resolve re-reads the screen a menu stands for. The main menu has no node.
// A remembered node that was deleted meanwhile resolves to the catalog root.
func (n *Navigator) Resolve(ctx context.Context, menu states.Menu, b states.Browse) (states.Menu, *Node, error) {
	if menu == states.MenuMain {
		return states.MenuMain, nil, nil
	}

	if anchor := Anchor(menu, b); anchor != 0 {
		node, err := n.Category(ctx, anchor)
		if err == nil {
			return menu, &node, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return "", nil, err
		}
	}

	roots, err := n.Roots(ctx)
	if err != nil {
		return "", nil, err
	}
	return states.MenuGlobal, &Node{Children: roots}, nil
}
