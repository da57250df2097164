// Package platform maps configuration onto concrete adaptors and drivers.
//
// Subpackages implement hardware and transport integrations (loopback,
// mqtt, serial, modbus) and register themselves by type name in their
// init functions, following the database/sql driver convention. Importing
// a subpackage for side effects makes its types available:
//
//	import _ "github.com/automaton-core/automaton/internal/platform/loopback"
//
// BuildConnection and BuildDevice look builders up by the type field of a
// connection or device config; Assemble does both for a whole robot.
package platform
