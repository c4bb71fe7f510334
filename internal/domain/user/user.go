package user

import (
	"time"

	"fashionmart/internal/core/listview"
)

const (
	Resource   = "users"
	ItemsField = "users"
)

// User is a marketplace account as seen by the admin user management page
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        Role       `json:"role"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
}

type Role string

const (
	RoleCustomer  Role = "customer"
	RoleDesigner  Role = "designer"
	RoleStaff     Role = "staff"
	RoleInventory Role = "inventory"
	RoleAdmin     Role = "admin"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusPending   Status = "pending"
	StatusSuspended Status = "suspended"
)

func (u User) Key() string { return u.ID }

func View() listview.Config[User] {
	created := func(u User) time.Time { return u.CreatedAt }

	return listview.Config[User]{
		Fields: map[string]listview.Field[User]{
			"search": {Kind: listview.KindSearch, Text: func(u User) []string { return listview.Texts(u.Name, u.Email) }},
			"role":   {Kind: listview.KindEqual, String: func(u User) (string, bool) { return listview.Present(string(u.Role)) }},
			"status": {Kind: listview.KindEqual, String: func(u User) (string, bool) { return listview.Present(string(u.Status)) }},
			"date":   {Kind: listview.KindTimeRange, Time: func(u User) (time.Time, bool) { return listview.Known(u.CreatedAt) }},
		},
		Sorts: map[listview.SortKey]listview.Sort[User]{
			listview.SortNewest: {Kind: listview.TimeDesc, Time: created},
			listview.SortOldest: {Kind: listview.TimeAsc, Time: created},
			listview.SortName:   {Kind: listview.NameAsc, Name: func(u User) string { return u.Name }},
		},
		DefaultSort: listview.SortNewest,
		ServerKeys:  []string{"search", "status", "date"},
	}
}

type Summary struct {
	Total         int            `json:"total"`
	ByRole        map[string]int `json:"by_role"`
	ByStatus      map[string]int `json:"by_status"`
	ActivePercent int            `json:"active_percent"`
}

func Summarize(items []User) Summary {
	active := listview.Count(items, func(u User) bool { return u.Status == StatusActive })
	return Summary{
		Total: len(items),
		ByRole: listview.CountBy(items, func(u User) string { return string(u.Role) },
			string(RoleCustomer), string(RoleDesigner), string(RoleStaff), string(RoleInventory), string(RoleAdmin)),
		ByStatus:      listview.CountBy(items, func(u User) string { return string(u.Status) }),
		ActivePercent: listview.Percentage(active, len(items)),
	}
}
