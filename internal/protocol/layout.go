package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	// RequestSize and ResponseSize are the network layout record sizes.
	RequestSize  = 4 + 8 + 8
	ResponseSize = 4 + 8

	LayoutNetwork = "network"
	LayoutLegacy  = "legacy"
)

// Layout fixes the byte order and padding of the two wire records.
//
// The network layout is big-endian with no padding. The legacy layout matches
// the C structs of the first calculator release on little-endian 64-bit hosts:
// each int32 is followed by four bytes of alignment padding before the next
// float64.
//
// The zero value behaves as the network layout.
type Layout struct {
	name  string
	order binary.ByteOrder
	pad   int
}

var (
	NetworkLayout = Layout{name: LayoutNetwork, order: binary.BigEndian}
	LegacyLayout  = Layout{name: LayoutLegacy, order: binary.LittleEndian, pad: 4}
)

// ParseLayout resolves a layout name from config. Empty selects network.
func ParseLayout(name string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", LayoutNetwork:
		return NetworkLayout, nil
	case LayoutLegacy:
		return LegacyLayout, nil
	default:
		return Layout{}, fmt.Errorf("%w: %q", ErrUnknownLayout, name)
	}
}

func (l Layout) Name() string {
	if l.name == "" {
		return LayoutNetwork
	}
	return l.name
}

func (l Layout) RequestSize() int {
	return RequestSize + l.pad
}

func (l Layout) ResponseSize() int {
	return ResponseSize + l.pad
}

func (l Layout) byteOrder() binary.ByteOrder {
	if l.order == nil {
		return binary.BigEndian
	}
	return l.order
}
