// Package models defines the wire types exchanged with the Einkaufsliste API.
//
// The types mirror the server's request and response schemas one to one:
//
//   - [Item] / [ItemWithDepartment] : shared shopping-list entries; the server
//     merges duplicates and assigns departments, the client only echoes them
//   - [Store], [Department], [Product], [Unit] : store catalog administration
//   - [Template] / [TemplateItem] : reusable shopping lists
//   - [WeekplanEntry] : meal-plan entries keyed by date and meal slot
//   - [User], [Token] : authentication payloads
//   - [BackupData], [WebDAVSettings], [Recipe], [ServerConfig] : the remaining
//     server surfaces the client drives
//
// Quantities (the menge fields) are free-form strings such as "500 g" or
// "2 Packungen; ½ TL"; internal/quantity knows how to parse and merge them.
package models
