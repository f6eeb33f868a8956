package version

// Cache memoizes the three values derived from a runtime-version string:
// the WinMD kind, the embedded CLR version and the WinMD version substring.
// All three invalidate together when the string is reassigned so they can
// never disagree with each other or with the source string.
//
// Cache is NOT thread-safe. It assumes a single writer for the version
// field; concurrent readers during a Set may observe the old or the new
// derivation, never a torn mix (the memos are dropped before the string
// changes, forcing racing readers to recompute from whichever string they
// see).
type Cache struct {
	s string

	kind      WinMDKind
	clr       string
	clrOK     bool
	winmd     string
	winmdOK   bool
	kindDone  bool
	clrDone   bool
	winmdDone bool
}

// NewCache creates a cache over an initial version string.
func NewCache(s string) *Cache {
	return &Cache{s: s}
}

// Version returns the raw runtime-version string.
func (c *Cache) Version() string {
	return c.s
}

// Set reassigns the version string, invalidating every derived value as a
// unit before the new string becomes visible.
func (c *Cache) Set(s string) {
	c.kindDone = false
	c.clrDone = false
	c.winmdDone = false
	c.s = s
}

// Kind returns the memoized WinMD classification.
func (c *Cache) Kind() WinMDKind {
	if !c.kindDone {
		c.kind = Classify(c.s)
		c.kindDone = true
	}
	return c.kind
}

// CLRVersion returns the memoized embedded CLR version.
func (c *Cache) CLRVersion() (string, bool) {
	if !c.clrDone {
		c.clr, c.clrOK = CLRVersion(c.s)
		c.clrDone = true
	}
	return c.clr, c.clrOK
}

// WinMDVersion returns the memoized WinMD version substring.
func (c *Cache) WinMDVersion() (string, bool) {
	if !c.winmdDone {
		c.winmd, c.winmdOK = WinMDVersion(c.s)
		c.winmdDone = true
	}
	return c.winmd, c.winmdOK
}

// IsWinMD reports whether the version string is Windows Runtime metadata.
func (c *Cache) IsWinMD() bool { return c.Kind() != WinMDNone }

// IsManagedWinMD reports WinMD with an embedded CLR version.
func (c *Cache) IsManagedWinMD() bool { return c.Kind() == WinMDManaged }

// IsPureWinMD reports WinMD without an embedded CLR version.
func (c *Cache) IsPureWinMD() bool { return c.Kind() == WinMDPure }

// IsCLR1xEra reports whether the version names a CLR 1.x runtime, which
// decides the default COR20 header version for images that do not store one.
func (c *Cache) IsCLR1xEra() bool { return IsCLR1x(c.s) }
