package version

import "strings"

// Well-known runtime-version literals written into the metadata header by
// the various runtimes.
const (
	ECMA2002        = "Standard CLI 2002"
	ECMA2005        = "Standard CLI 2005"
	CLR10           = "v1.0.3705"
	CLR10X86Retail  = "v1.x86ret"
	CLR10Retail     = "retail"
	CLR10Complus    = "COMPLUS"
	CLR11           = "v1.1.4322"
	CLR20           = "v2.0.50727"
	CLR40           = "v4.0.30319"
	PortablePDBV1_0 = "PDB v1.0"
)

// Version prefixes for family matching.
const (
	CLR10Prefix = "v1.0"
	CLR11Prefix = "v1.1"
	CLR20Prefix = "v2.0"
	CLR40Prefix = "v4.0"
)

// IsECMA2002 reports whether s is the ECMA 2002 standard literal.
func IsECMA2002(s string) bool { return s == ECMA2002 }

// IsECMA2005 reports whether s is the ECMA 2005 standard literal.
func IsECMA2005(s string) bool { return s == ECMA2005 }

// IsCLR10 reports whether s names a CLR 1.0 runtime, including the retail
// and COMPLUS build variants.
func IsCLR10(s string) bool {
	return strings.HasPrefix(s, CLR10Prefix) ||
		s == CLR10X86Retail || s == CLR10Retail || s == CLR10Complus
}

// IsCLR11 reports whether s names a CLR 1.1 runtime.
func IsCLR11(s string) bool { return strings.HasPrefix(s, CLR11Prefix) }

// IsCLR1x reports whether s names any CLR 1.x runtime.
func IsCLR1x(s string) bool { return IsCLR10(s) || IsCLR11(s) }

// IsCLR20 reports whether s names a CLR 2.0 runtime.
func IsCLR20(s string) bool { return strings.HasPrefix(s, CLR20Prefix) }

// IsCLR40 reports whether s names a CLR 4.0 runtime.
func IsCLR40(s string) bool { return strings.HasPrefix(s, CLR40Prefix) }
