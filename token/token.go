package token

import "fmt"

// RID is a 1-based row id within a metadata table. 0 means unassigned.
// Row ids occupy the low 24 bits of a token, so a RID never exceeds RIDMax.
type RID uint32

// RIDMax is the largest representable row id.
const RIDMax RID = 0x00FFFFFF

// Table identifies one of the metadata tables. Values match the ECMA-335
// table numbering, with the portable-PDB debug tables at 0x30-0x37.
type Table uint8

// NumTables is the size of the table tag space. Tags 0x38-0x3F are reserved.
const NumTables = 64

const (
	TableModule                 Table = 0x00
	TableTypeRef                Table = 0x01
	TableTypeDef                Table = 0x02
	TableFieldPtr               Table = 0x03
	TableField                  Table = 0x04
	TableMethodPtr              Table = 0x05
	TableMethod                 Table = 0x06
	TableParamPtr               Table = 0x07
	TableParam                  Table = 0x08
	TableInterfaceImpl          Table = 0x09
	TableMemberRef              Table = 0x0A
	TableConstant               Table = 0x0B
	TableCustomAttribute        Table = 0x0C
	TableFieldMarshal           Table = 0x0D
	TableDeclSecurity           Table = 0x0E
	TableClassLayout            Table = 0x0F
	TableFieldLayout            Table = 0x10
	TableStandAloneSig          Table = 0x11
	TableEventMap               Table = 0x12
	TableEventPtr               Table = 0x13
	TableEvent                  Table = 0x14
	TablePropertyMap            Table = 0x15
	TablePropertyPtr            Table = 0x16
	TableProperty               Table = 0x17
	TableMethodSemantics        Table = 0x18
	TableMethodImpl             Table = 0x19
	TableModuleRef              Table = 0x1A
	TableTypeSpec               Table = 0x1B
	TableImplMap                Table = 0x1C
	TableFieldRVA               Table = 0x1D
	TableENCLog                 Table = 0x1E
	TableENCMap                 Table = 0x1F
	TableAssembly               Table = 0x20
	TableAssemblyProcessor      Table = 0x21
	TableAssemblyOS             Table = 0x22
	TableAssemblyRef            Table = 0x23
	TableAssemblyRefProcessor   Table = 0x24
	TableAssemblyRefOS          Table = 0x25
	TableFile                   Table = 0x26
	TableExportedType           Table = 0x27
	TableManifestResource       Table = 0x28
	TableNestedClass            Table = 0x29
	TableGenericParam           Table = 0x2A
	TableMethodSpec             Table = 0x2B
	TableGenericParamConstraint Table = 0x2C

	// Portable PDB debug tables
	TableDocument               Table = 0x30
	TableMethodDebugInformation Table = 0x31
	TableLocalScope             Table = 0x32
	TableLocalVariable          Table = 0x33
	TableLocalConstant          Table = 0x34
	TableImportScope            Table = 0x35
	TableStateMachineMethod     Table = 0x36
	TableCustomDebugInformation Table = 0x37
)

var tableNames = map[Table]string{
	TableModule:                 "Module",
	TableTypeRef:                "TypeRef",
	TableTypeDef:                "TypeDef",
	TableFieldPtr:               "FieldPtr",
	TableField:                  "Field",
	TableMethodPtr:              "MethodPtr",
	TableMethod:                 "Method",
	TableParamPtr:               "ParamPtr",
	TableParam:                  "Param",
	TableInterfaceImpl:          "InterfaceImpl",
	TableMemberRef:              "MemberRef",
	TableConstant:               "Constant",
	TableCustomAttribute:        "CustomAttribute",
	TableFieldMarshal:           "FieldMarshal",
	TableDeclSecurity:           "DeclSecurity",
	TableClassLayout:            "ClassLayout",
	TableFieldLayout:            "FieldLayout",
	TableStandAloneSig:          "StandAloneSig",
	TableEventMap:               "EventMap",
	TableEventPtr:               "EventPtr",
	TableEvent:                  "Event",
	TablePropertyMap:            "PropertyMap",
	TablePropertyPtr:            "PropertyPtr",
	TableProperty:               "Property",
	TableMethodSemantics:        "MethodSemantics",
	TableMethodImpl:             "MethodImpl",
	TableModuleRef:              "ModuleRef",
	TableTypeSpec:               "TypeSpec",
	TableImplMap:                "ImplMap",
	TableFieldRVA:               "FieldRVA",
	TableENCLog:                 "ENCLog",
	TableENCMap:                 "ENCMap",
	TableAssembly:               "Assembly",
	TableAssemblyProcessor:      "AssemblyProcessor",
	TableAssemblyOS:             "AssemblyOS",
	TableAssemblyRef:            "AssemblyRef",
	TableAssemblyRefProcessor:   "AssemblyRefProcessor",
	TableAssemblyRefOS:          "AssemblyRefOS",
	TableFile:                   "File",
	TableExportedType:           "ExportedType",
	TableManifestResource:       "ManifestResource",
	TableNestedClass:            "NestedClass",
	TableGenericParam:           "GenericParam",
	TableMethodSpec:             "MethodSpec",
	TableGenericParamConstraint: "GenericParamConstraint",
	TableDocument:               "Document",
	TableMethodDebugInformation: "MethodDebugInformation",
	TableLocalScope:             "LocalScope",
	TableLocalVariable:          "LocalVariable",
	TableLocalConstant:          "LocalConstant",
	TableImportScope:            "ImportScope",
	TableStateMachineMethod:     "StateMachineMethod",
	TableCustomDebugInformation: "CustomDebugInformation",
}

func (t Table) String() string {
	if name, ok := tableNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Table(0x%02X)", uint8(t))
}

// Token is a 32-bit metadata token: the table tag in the high byte and a
// 1-based row id in the low 24 bits.
type Token uint32

// NewToken builds a token from a table tag and a row id. The row id is
// masked to 24 bits.
func NewToken(table Table, rid RID) Token {
	return Token(uint32(table)<<24 | uint32(rid&RIDMax))
}

// Table returns the table tag in the high byte.
func (t Token) Table() Table {
	return Table(t >> 24)
}

// RID returns the row id in the low 24 bits.
func (t Token) RID() RID {
	return RID(t) & RIDMax
}

// IsNil reports whether the token has an unassigned row id.
func (t Token) IsNil() bool {
	return t.RID() == 0
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%d] (0x%08X)", t.Table(), t.RID(), uint32(t))
}
