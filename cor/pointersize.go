package cor

import "github.com/halcyonlab/clr-metadata/pe"

// PointerSize reproduces the platform loader's bitness selection for a
// managed image and returns the assumed native pointer size in bytes.
//
//  1. A 64-bit machine always loads 64-bit.
//  2. A machine outside the x86 family loads as defaultSize says.
//  3. On x86, a COR20 runtime version below 2.5 always loads 32-bit.
//  4. An image that is not IL-only contains native x86 code and loads 32-bit.
//  5. Otherwise Bit32Required forces 32-bit; Bit32Required+Bit32Preferred
//     yields prefer32Size; Bit32Preferred alone is an illegal encoding and
//     falls through with no defined result; neither bit falls through to
//     defaultSize.
//
// runtimeVersion is the effective COR20 header version (the stored value if
// present, else RuntimeVersionCLR1x for 1.x-era images, else
// RuntimeVersion2_5).
func PointerSize(machine pe.Machine, flags Flags, runtimeVersion uint32, defaultSize, prefer32Size int) int {
	if machine.Is64Bit() {
		return 8
	}
	if !machine.IsI386() {
		return defaultSize
	}

	// Pre-2.5 runtimes ignore the 32-bit flags and always load 32-bit.
	if runtimeVersion < RuntimeVersion2_5 {
		return 4
	}

	// Native x86 code in the image pins the declared bitness.
	if flags&FlagILOnly == 0 {
		return 4
	}

	switch flags & (FlagBit32Required | FlagBit32Preferred) {
	case FlagBit32Required:
		return 4
	case FlagBit32Required | FlagBit32Preferred:
		return prefer32Size
	}
	// Neither bit, or the illegal Bit32Preferred-alone combination.
	return defaultSize
}
