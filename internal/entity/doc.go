// Package entity provides the program-entity model shared by the whole
// pipeline.
//
// This package contains type definitions only. All other internal packages
// import entity; entity imports nothing internal. This keeps the entity
// model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Entity names are stable identity across rounds (the processed set
//     depends on this)
//   - Marker groupings are rebuilt fresh each round, never persisted
//   - MethodSet is membership-only; iteration order carries no meaning
package entity
