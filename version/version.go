package version

import "strings"

// WinMDPrefix starts every Windows-Runtime-metadata runtime-version string.
const WinMDPrefix = "WindowsRuntime "

// WinMDKind classifies a runtime-version string's Windows-Runtime flavor.
type WinMDKind uint8

const (
	// WinMDNone means the string is absent or not WinMD at all.
	WinMDNone WinMDKind = iota
	// WinMDPure is WinMD with no embedded CLR version.
	WinMDPure
	// WinMDManaged is WinMD with an embedded CLR version after a ';'.
	WinMDManaged
)

func (k WinMDKind) String() string {
	switch k {
	case WinMDPure:
		return "Pure"
	case WinMDManaged:
		return "Managed"
	default:
		return "None"
	}
}

// Classify derives the WinMD status of a runtime-version string. The empty
// string counts as absent.
func Classify(s string) WinMDKind {
	if !strings.HasPrefix(s, WinMDPrefix) {
		return WinMDNone
	}
	if strings.IndexByte(s, ';') < 0 {
		return WinMDPure
	}
	return WinMDManaged
}

// CLRVersion extracts the embedded CLR version of a managed WinMD
// runtime-version string: the part after the first ';' with a leading
// case-insensitive "CLR" token and surrounding spaces removed.
func CLRVersion(s string) (string, bool) {
	if !strings.HasPrefix(s, WinMDPrefix) {
		return "", false
	}
	i := strings.IndexByte(s, ';')
	if i < 0 {
		return "", false
	}
	v := strings.TrimLeft(s[i+1:], " ")
	if len(v) >= 3 && strings.EqualFold(v[:3], "CLR") {
		v = v[3:]
	}
	return strings.TrimLeft(v, " "), true
}

// WinMDVersion extracts the WinMD version of a runtime-version string: the
// part before the first ';', or the whole string if there is none.
func WinMDVersion(s string) (string, bool) {
	if !strings.HasPrefix(s, WinMDPrefix) {
		return "", false
	}
	if i := strings.IndexByte(s, ';'); i >= 0 {
		return s[:i], true
	}
	return s, true
}
