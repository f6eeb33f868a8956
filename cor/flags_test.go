package cor

import (
	"sync"
	"testing"

	"github.com/halcyonlab/clr-metadata/pe"
)

func TestFlagSet_SetClear(t *testing.T) {
	var s FlagSet

	s.Set(FlagILOnly)
	if !s.IsILOnly() {
		t.Fatal("ILOnly should be set")
	}

	s.SetOrClear(FlagBit32Required, true)
	if !s.Is32BitRequired() {
		t.Fatal("Bit32Required should be set")
	}
	if got := s.Value(); got != FlagILOnly|FlagBit32Required {
		t.Fatalf("Value = 0x%X", got)
	}

	s.Clear(FlagILOnly)
	if s.IsILOnly() {
		t.Fatal("ILOnly should be clear")
	}
	if !s.Is32BitRequired() {
		t.Fatal("clearing ILOnly must not touch Bit32Required")
	}
}

func TestFlagSet_ConcurrentToggles(t *testing.T) {
	var s FlagSet

	// Two goroutine groups toggling unrelated bits must not lose updates.
	const iterations = 2000
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Set(FlagILOnly)
			s.Clear(FlagILOnly)
		}
		s.Set(FlagILOnly)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			s.Set(FlagStrongNameSigned)
			s.Clear(FlagStrongNameSigned)
		}
		s.Set(FlagStrongNameSigned)
	}()
	wg.Wait()

	if !s.Has(FlagILOnly | FlagStrongNameSigned) {
		t.Fatalf("lost an update: 0x%X", s.Value())
	}
}

func TestPointerSize(t *testing.T) {
	const def, pref = 8, 4

	tests := []struct {
		name    string
		machine pe.Machine
		flags   Flags
		rtVer   uint32
		want    int
	}{
		{"amd64 ignores flags", pe.MachineAMD64, FlagBit32Required, RuntimeVersion2_5, 8},
		{"ia64 ignores flags", pe.MachineIA64, FlagBit32Required | FlagBit32Preferred, RuntimeVersion2_5, 8},
		{"arm64 ignores flags", pe.MachineARM64, 0, RuntimeVersionCLR1x, 8},
		{"armnt uses default", pe.MachineARMNT, FlagBit32Required, RuntimeVersion2_5, def},
		{"i386 pre-2.5 always 32-bit", pe.MachineI386, FlagILOnly, RuntimeVersionCLR1x, 4},
		{"i386 native code always 32-bit", pe.MachineI386, 0, RuntimeVersion2_5, 4},
		{"i386 ilonly neither bit", pe.MachineI386, FlagILOnly, RuntimeVersion2_5, def},
		{"i386 ilonly required", pe.MachineI386, FlagILOnly | FlagBit32Required, RuntimeVersion2_5, 4},
		{"i386 ilonly both bits", pe.MachineI386, FlagILOnly | FlagBit32Required | FlagBit32Preferred, RuntimeVersion2_5, pref},
		// Bit32Preferred alone is illegal; the resolver falls through.
		{"i386 ilonly preferred alone", pe.MachineI386, FlagILOnly | FlagBit32Preferred, RuntimeVersion2_5, def},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PointerSize(tt.machine, tt.flags, tt.rtVer, def, pref)
			if got != tt.want {
				t.Errorf("PointerSize = %d, want %d", got, tt.want)
			}
		})
	}
}
