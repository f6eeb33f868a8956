// Package pe defines the COFF header words the metadata model carries:
// machine architecture, file characteristics and DLL characteristics.
//
// Only the fields the module facade stores and re-serializes live here; the
// PE/COFF header reader itself is an external collaborator.
package pe
