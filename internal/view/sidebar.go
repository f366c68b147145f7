package view

import "strings"

type NavItem struct {
	Label string
	Path  string
}

// Sidebar is the top-level navigation in display order.
var Sidebar = []NavItem{
	{Label: "角色管理", Path: "/roles"},
	{Label: "提示词模板", Path: "/templates"},
}

// Selected returns the item owning path. The root path belongs to roles.
func Selected(path string) (NavItem, bool) {
	if path == "" || path == "/" {
		return Sidebar[0], true
	}
	for _, item := range Sidebar {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return item, true
		}
	}
	return NavItem{}, false
}
