package spec

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of a spec node. The set is closed: layout rules
// exist for exactly these kinds.
type Kind uint8

const (
	KindAddressSpace Kind = iota
	KindStructure
	KindUnion
	KindArray
	KindElement
	KindRegister
	KindField
)

var kindNames = [...]string{
	KindAddressSpace: "address space",
	KindStructure:    "structure",
	KindUnion:        "union",
	KindArray:        "array",
	KindElement:      "array element",
	KindRegister:     "register",
	KindField:        "field",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Access is the software visible access mode of a register or field.
type Access uint8

const (
	AccessRW Access = iota
	AccessRO
	AccessWO
	AccessWriteEvent
	AccessReadEvent
)

var accessNames = [...]string{
	AccessRW:         "RW",
	AccessRO:         "RO",
	AccessWO:         "WO",
	AccessWriteEvent: "WR_EVT",
	AccessReadEvent:  "RD_EVT",
}

func (a Access) String() string {
	if int(a) < len(accessNames) {
		return accessNames[a]
	}
	return fmt.Sprintf("Access(%d)", uint8(a))
}

// CanRead reports whether software may read the location.
func (a Access) CanRead() bool {
	return a == AccessRW || a == AccessRO || a == AccessReadEvent
}

// CanWrite reports whether software may write the location.
func (a Access) CanWrite() bool {
	return a == AccessRW || a == AccessWO || a == AccessWriteEvent
}

// ParseAccess converts an access mode name. Matching is case insensitive.
func ParseAccess(s string) (Access, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for a, n := range accessNames {
		if n == name {
			return Access(a), nil
		}
	}
	return 0, fmt.Errorf("%w: access %q", ErrInvalidEnum, s)
}
