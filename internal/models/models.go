package models

import "time"

// Item is a shopping-list entry as sent to the server. The id is a UUID
// string generated server-side when omitted.
type Item struct {
	ID           string  `json:"id,omitempty"`
	Name         string  `json:"name"`
	Menge        *string `json:"menge,omitempty"`
	StoreID      *int    `json:"store_id,omitempty"`
	ProductID    *int    `json:"product_id,omitempty"`
	UserID       *int    `json:"user_id,omitempty"`
	ShoppingDate *string `json:"shopping_date,omitempty"`
}

// ItemWithDepartment is an item enriched with department information for
// grouping, as returned by the items endpoints.
type ItemWithDepartment struct {
	ID                  string  `json:"id"`
	UserID              *int    `json:"user_id"`
	StoreID             *int    `json:"store_id"`
	ProductID           *int    `json:"product_id"`
	Name                string  `json:"name"`
	Menge               *string `json:"menge"`
	ShoppingDate        *string `json:"shopping_date,omitempty"`
	DepartmentID        *int    `json:"department_id,omitempty"`
	DepartmentName      *string `json:"department_name,omitempty"`
	DepartmentSortOrder *int    `json:"department_sort_order,omitempty"`
	Manufacturer        *string `json:"manufacturer,omitempty"`
}

// Store is a shop with an ordered list of departments.
type Store struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Location  string `json:"location"`
	SortOrder int    `json:"sort_order"`
}

// StoreCreate is the request body for creating a store.
type StoreCreate struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

// StoreUpdate is the request body for updating a store. Nil fields are left
// unchanged.
type StoreUpdate struct {
	Name      *string `json:"name,omitempty"`
	Location  *string `json:"location,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// Department is a section within a store, ordered by SortOrder for the
// walk-through sequence.
type Department struct {
	ID        int    `json:"id"`
	StoreID   int    `json:"store_id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// DepartmentCreate is the request body for creating a department.
type DepartmentCreate struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// DepartmentUpdate is the request body for updating a department. Nil fields
// are left unchanged.
type DepartmentUpdate struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// Product is a catalog entry belonging to a store department.
type Product struct {
	ID           int     `json:"id"`
	Name         string  `json:"name"`
	StoreID      int     `json:"store_id"`
	DepartmentID int     `json:"department_id"`
	Fresh        bool    `json:"fresh"`
	Manufacturer *string `json:"manufacturer,omitempty"`
}

// ProductCreate is the request body for creating a product.
type ProductCreate struct {
	Name         string `json:"name"`
	StoreID      int    `json:"store_id"`
	DepartmentID int    `json:"department_id"`
	Fresh        bool   `json:"fresh"`
}

// ProductUpdate is the request body for updating a product. Nil fields are
// left unchanged.
type ProductUpdate struct {
	Name         *string `json:"name,omitempty"`
	StoreID      *int    `json:"store_id,omitempty"`
	DepartmentID *int    `json:"department_id,omitempty"`
	Fresh        *bool   `json:"fresh,omitempty"`
}

// Unit is a quantity unit (g, kg, Packung, ...) offered by the item form.
type Unit struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// UnitCreate is the request body for creating a unit.
type UnitCreate struct {
	Name      string `json:"name"`
	SortOrder int    `json:"sort_order"`
}

// UnitUpdate is the request body for updating a unit.
type UnitUpdate struct {
	Name      *string `json:"name,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// TemplateItem is a line of a shopping template.
type TemplateItem struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Menge *string `json:"menge,omitempty"`
}

// TemplateItemCreate is a template line in create/update requests.
type TemplateItemCreate struct {
	Name  string  `json:"name"`
	Menge *string `json:"menge,omitempty"`
}

// Template is a reusable shopping list sized for PersonCount people.
type Template struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description,omitempty"`
	PersonCount int            `json:"person_count"`
	Items       []TemplateItem `json:"items"`
}

// TemplateCreate is the request body for creating a template.
type TemplateCreate struct {
	Name        string               `json:"name"`
	Description *string              `json:"description,omitempty"`
	PersonCount int                  `json:"person_count"`
	Items       []TemplateItemCreate `json:"items"`
}

// TemplateUpdate is the request body for updating a template. Nil fields are
// left unchanged; a non-nil Items slice replaces all lines.
type TemplateUpdate struct {
	Name        *string              `json:"name,omitempty"`
	Description *string              `json:"description,omitempty"`
	PersonCount *int                 `json:"person_count,omitempty"`
	Items       []TemplateItemCreate `json:"items,omitempty"`
}

// Meal slots accepted by the weekplan endpoints.
const (
	MealMorning = "morning"
	MealLunch   = "lunch"
	MealDinner  = "dinner"
)

// WeekplanEntry is a meal-plan cell: one meal slot on one day.
type WeekplanEntry struct {
	ID   int    `json:"id"`
	Date string `json:"date"` // ISO date, YYYY-MM-DD
	Meal string `json:"meal"`
	Text string `json:"text"`
}

// WeekplanEntryCreate is the request body for creating a weekplan entry.
type WeekplanEntryCreate struct {
	Date string `json:"date"`
	Meal string `json:"meal"`
	Text string `json:"text"`
}

// WeekplanDelta is a per-entry override layered onto a template or recipe at
// render time: removed lines, extra lines, and an adjusted person count.
type WeekplanDelta struct {
	EntryID      int                  `json:"entry_id"`
	RemovedItems []string             `json:"removed_items,omitempty"`
	AddedItems   []TemplateItemCreate `json:"added_items,omitempty"`
	PersonCount  *int                 `json:"person_count,omitempty"`
}

// User is an account as returned by the server (never includes the password).
type User struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	IsActive   bool      `json:"is_active"`
	IsApproved bool      `json:"is_approved"`
	IsAdmin    bool      `json:"is_admin"`
	CreatedAt  time.Time `json:"created_at"`
}

// UserCreate is the registration request body.
type UserCreate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserLogin is the login request body.
type UserLogin struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Token is the JWT response from login and refresh. ExpiresIn is seconds
// until expiry and may be zero on older servers, in which case the exp claim
// inside the token is used instead.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Recipe is an imported recipe; Data carries the raw recipe document.
type Recipe struct {
	ID         int            `json:"id"`
	Name       string         `json:"name"`
	Category   *string        `json:"category,omitempty"`
	Tags       *string        `json:"tags,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
	ImportedAt *string        `json:"imported_at,omitempty"`
}

// RecipeRef is the id/name pair returned by recipe search and listing.
type RecipeRef struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Category *string `json:"category,omitempty"`
}

// BackupData is the structure-independent full database dump used by the
// backup and restore endpoints. Record fields stay schemaless on purpose so
// the client survives server schema changes.
type BackupData struct {
	Version       string           `json:"version"`
	Timestamp     string           `json:"timestamp"`
	Users         []map[string]any `json:"users"`
	Stores        []map[string]any `json:"stores"`
	Departments   []map[string]any `json:"departments"`
	Products      []map[string]any `json:"products"`
	Items         []map[string]any `json:"items"`
	Templates     []map[string]any `json:"templates"`
	TemplateItems []map[string]any `json:"template_items"`
}

// WebDAVSettings configures the server-side WebDAV recipe import.
type WebDAVSettings struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Filename string `json:"filename"`
	Enabled  bool   `json:"enabled"`
}

// WebDAVSettingsCreate is the request body for creating WebDAV settings.
type WebDAVSettingsCreate struct {
	URL      string `json:"url"`
	Username string `json:"username"`
	Password string `json:"password"`
	Filename string `json:"filename"`
}

// WebDAVSettingsUpdate is the request body for updating WebDAV settings.
type WebDAVSettingsUpdate struct {
	URL      *string `json:"url,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
	Filename *string `json:"filename,omitempty"`
	Enabled  *bool   `json:"enabled,omitempty"`
}

// ServerConfig is the shopping-day configuration exposed by /api/config.
// Days are 0=Monday through 6=Sunday.
type ServerConfig struct {
	MainShoppingDay  int `json:"main_shopping_day"`
	FreshProductsDay int `json:"fresh_products_day"`
}

// Ptr returns a pointer to v; convenience for optional request fields.
func Ptr[T any](v T) *T { return &v }
