package cor

import "sync/atomic"

// Flags is the COR20 header flags word.
type Flags uint32

const (
	FlagILOnly           Flags = 0x00000001
	FlagBit32Required    Flags = 0x00000002
	FlagILLibrary        Flags = 0x00000004
	FlagStrongNameSigned Flags = 0x00000008
	FlagNativeEntryPoint Flags = 0x00000010
	FlagTrackDebugData   Flags = 0x00010000
	FlagBit32Preferred   Flags = 0x00020000
)

// RuntimeVersion values for the COR20 header, encoded major<<16 | minor.
// Images produced for CLR 1.x carry 2.0; everything later carries 2.5.
const (
	RuntimeVersionCLR1x uint32 = 0x00020000
	RuntimeVersion2_5   uint32 = 0x00020005
)

// FlagSet is an atomic bitset over the COR20 flags word. Single-bit updates
// retry a read-modify-write loop so concurrent toggles of unrelated flags
// never lose each other; reads are plain atomic loads.
//
// The entry-point duality rule (native vs managed entry point) needs more
// than single-word atomicity and lives with the module, which guards the
// compound update with its own critical section.
type FlagSet struct {
	word atomic.Uint32
}

// Value returns the current flags word.
func (s *FlagSet) Value() Flags {
	return Flags(s.word.Load())
}

// Store replaces the whole flags word.
func (s *FlagSet) Store(f Flags) {
	s.word.Store(uint32(f))
}

// Has reports whether every bit in f is set.
func (s *FlagSet) Has(f Flags) bool {
	return Flags(s.word.Load())&f == f
}

// Set turns the bits in f on.
func (s *FlagSet) Set(f Flags) {
	s.SetOrClear(f, true)
}

// Clear turns the bits in f off.
func (s *FlagSet) Clear(f Flags) {
	s.SetOrClear(f, false)
}

// SetOrClear turns the bits in f on or off depending on enabled.
func (s *FlagSet) SetOrClear(f Flags, enabled bool) {
	for {
		old := s.word.Load()
		var next uint32
		if enabled {
			next = old | uint32(f)
		} else {
			next = old &^ uint32(f)
		}
		if s.word.CompareAndSwap(old, next) {
			return
		}
	}
}

// Derived accessors over individual bits.

func (s *FlagSet) IsILOnly() bool           { return s.Has(FlagILOnly) }
func (s *FlagSet) Is32BitRequired() bool    { return s.Has(FlagBit32Required) }
func (s *FlagSet) Is32BitPreferred() bool   { return s.Has(FlagBit32Preferred) }
func (s *FlagSet) IsStrongNameSigned() bool { return s.Has(FlagStrongNameSigned) }
func (s *FlagSet) HasNativeEntry() bool     { return s.Has(FlagNativeEntryPoint) }
