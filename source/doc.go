// Package source provides built-in roster source implementations.
//
// Roster sources produce the raw participant entries an exchange builds its
// roster from. The package includes:
//
//   - YAMLFile: Roster document on disk
//   - Static: Fixed list of entries
//
// Custom sources can be implemented by satisfying the types.RosterSource interface.
package source
