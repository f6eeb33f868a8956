// Package version classifies metadata runtime-version strings.
//
// A module's runtime-version string ("v4.0.30319", "WindowsRuntime 1.0;CLR
// v4.0.30319", ...) encodes both the producing runtime and, for Windows
// Runtime metadata, an optional embedded CLR version. The functions here are
// total: malformed or absent strings classify as WinMDNone and extractions
// report a miss instead of failing.
//
// Cache memoizes the derived values for a module and invalidates them as a
// unit when the string is reassigned. It deliberately assumes a single
// writer; see the type's documentation.
package version
