// Package models defines the core domain types for the NeonEats client state.
//
// # Models
//
//   - CartLine / CartState: the shopping cart and its line items
//   - Session / UserRecord: the authenticated identity held by the client
//   - ThemeState: display preferences (dark mode, language, neon accent)
//   - Role / NeonColor: closed enums replacing the free-form strings the
//     backend wire format uses
//
// # Design principles
//
//  1. Monetary fields are money.Cents, never floats. JSON still reads and
//     writes plain decimal numbers so persisted snapshots stay compatible
//     with the documented layout.
//  2. Enum fields parse strictly: an unknown role or color is an error at
//     the boundary, not a silent passthrough.
//  3. State structs are plain values. Copying a CartState copies the slice
//     header only; mutation helpers in the cart package always rebuild the
//     slice before publishing.
package models
