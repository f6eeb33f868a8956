package pe

import "fmt"

// Machine is the COFF file header machine field.
type Machine uint16

const (
	MachineUnknown Machine = 0x0000
	MachineI386    Machine = 0x014C
	MachineR4000   Machine = 0x0166
	MachineSH3     Machine = 0x01A2
	MachineSH4     Machine = 0x01A6
	MachineARM     Machine = 0x01C0
	MachineThumb   Machine = 0x01C2
	MachineARMNT   Machine = 0x01C4
	MachineIA64    Machine = 0x0200
	MachineMIPS16  Machine = 0x0266
	MachineAMD64   Machine = 0x8664
	MachineM32R    Machine = 0x9041
	MachineARM64   Machine = 0xAA64
	MachineEBC     Machine = 0x0EBC
)

var machineNames = map[Machine]string{
	MachineUnknown: "Unknown",
	MachineI386:    "I386",
	MachineR4000:   "R4000",
	MachineSH3:     "SH3",
	MachineSH4:     "SH4",
	MachineARM:     "ARM",
	MachineThumb:   "Thumb",
	MachineARMNT:   "ARMNT",
	MachineIA64:    "IA64",
	MachineMIPS16:  "MIPS16",
	MachineAMD64:   "AMD64",
	MachineM32R:    "M32R",
	MachineARM64:   "ARM64",
	MachineEBC:     "EBC",
}

func (m Machine) String() string {
	if name, ok := machineNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Machine(0x%04X)", uint16(m))
}

// Is64Bit reports whether the machine always loads as a 64-bit process.
func (m Machine) Is64Bit() bool {
	switch m {
	case MachineAMD64, MachineIA64, MachineARM64:
		return true
	}
	return false
}

// IsI386 reports whether the machine is the x86 family whose process
// bitness depends on the COR20 header flags rather than the machine field.
func (m Machine) IsI386() bool {
	return m == MachineI386
}

// Characteristics is the COFF file header characteristics field.
type Characteristics uint16

const (
	CharacteristicRelocsStripped       Characteristics = 0x0001
	CharacteristicExecutableImage      Characteristics = 0x0002
	CharacteristicLineNumsStripped     Characteristics = 0x0004
	CharacteristicLocalSymsStripped    Characteristics = 0x0008
	CharacteristicAggressiveWSTrim     Characteristics = 0x0010
	CharacteristicLargeAddressAware    Characteristics = 0x0020
	CharacteristicBytesReversedLo      Characteristics = 0x0080
	CharacteristicBit32Machine         Characteristics = 0x0100
	CharacteristicDebugStripped        Characteristics = 0x0200
	CharacteristicRemovableRunFromSwap Characteristics = 0x0400
	CharacteristicNetRunFromSwap       Characteristics = 0x0800
	CharacteristicSystem               Characteristics = 0x1000
	CharacteristicDll                  Characteristics = 0x2000
	CharacteristicUpSystemOnly         Characteristics = 0x4000
	CharacteristicBytesReversedHi      Characteristics = 0x8000
)

// IsDll reports whether the image is marked as a DLL.
func (c Characteristics) IsDll() bool {
	return c&CharacteristicDll != 0
}

// DLLCharacteristics is the optional header DLL characteristics field.
type DLLCharacteristics uint16

const (
	DLLCharacteristicHighEntropyVA       DLLCharacteristics = 0x0020
	DLLCharacteristicDynamicBase         DLLCharacteristics = 0x0040
	DLLCharacteristicForceIntegrity      DLLCharacteristics = 0x0080
	DLLCharacteristicNXCompat            DLLCharacteristics = 0x0100
	DLLCharacteristicNoIsolation         DLLCharacteristics = 0x0200
	DLLCharacteristicNoSEH               DLLCharacteristics = 0x0400
	DLLCharacteristicNoBind              DLLCharacteristics = 0x0800
	DLLCharacteristicAppContainer        DLLCharacteristics = 0x1000
	DLLCharacteristicWDMDriver           DLLCharacteristics = 0x2000
	DLLCharacteristicGuardCF             DLLCharacteristics = 0x4000
	DLLCharacteristicTerminalServerAware DLLCharacteristics = 0x8000
)
