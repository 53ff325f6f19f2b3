package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/feldhaus/einkauf/internal/models"
)

var _ list.Item = shoppingItem{}

// shoppingItem wraps [models.ItemWithDepartment] to implement [list.Item].
type shoppingItem struct {
	item models.ItemWithDepartment
}

func (i shoppingItem) FilterValue() string { return i.item.Name }

func (i shoppingItem) Title() string {
	if i.item.Menge != nil && *i.item.Menge != "" {
		return fmt.Sprintf("%s (%s)", i.item.Name, *i.item.Menge)
	}
	return i.item.Name
}

func (i shoppingItem) Description() string {
	desc := "Sonstiges"
	if i.item.DepartmentName != nil && *i.item.DepartmentName != "" {
		desc = *i.item.DepartmentName
	}
	if i.item.Manufacturer != nil && *i.item.Manufacturer != "" {
		desc = fmt.Sprintf("%s • %s", desc, *i.item.Manufacturer)
	}
	if i.item.ShoppingDate != nil && *i.item.ShoppingDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, *i.item.ShoppingDate)
	}
	return desc
}

func toListItems(items []models.ItemWithDepartment) []list.Item {
	out := make([]list.Item, len(items))
	for i, item := range items {
		out[i] = shoppingItem{item: item}
	}
	return out
}
