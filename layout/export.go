package layout

import (
	"errors"

	commoncbor "github.com/datatrails/go-datatrails-common/cbor"
)

var ErrDescriptorVersion = errors.New("unsupported layout descriptor version")

// DescriptorVersion is the version written by EncodeDescriptors.
const DescriptorVersion = 1

// Descriptor is the flattened, serializable form of a Region.
type Descriptor struct {
	Path      string `cbor:"1,keyasint"`
	Kind      string `cbor:"2,keyasint"`
	OID       []int  `cbor:"3,keyasint"`
	Ordinal   int    `cbor:"4,keyasint"`
	Register  *int   `cbor:"5,keyasint,omitempty"`
	Offset    uint64 `cbor:"6,keyasint"`
	Size      uint64 `cbor:"7,keyasint"`
	DataWidth uint64 `cbor:"8,keyasint"`
	Width     uint64 `cbor:"9,keyasint"`
	Mask      uint64 `cbor:"10,keyasint,omitempty"`
	Shift     uint64 `cbor:"11,keyasint,omitempty"`
	Pos       uint64 `cbor:"12,keyasint,omitempty"`
	InBits    bool   `cbor:"13,keyasint,omitempty"`
	Indirect  bool   `cbor:"14,keyasint,omitempty"`
	Access    string `cbor:"15,keyasint,omitempty"`
}

type descriptorSet struct {
	Version     int          `cbor:"1,keyasint"`
	Descriptors []Descriptor `cbor:"2,keyasint"`
}

// Descriptors flattens the map in ordinal order.
func (m *Map) Descriptors() []Descriptor {
	ds := make([]Descriptor, 0, len(m.regions))
	for _, r := range m.regions {
		d := Descriptor{
			Path:      r.Path(),
			Kind:      r.Kind().String(),
			OID:       append([]int(nil), r.OID...),
			Ordinal:   r.Ordinal,
			Offset:    r.Offset.Absolute,
			Size:      r.Size,
			DataWidth: r.DataWidth,
			Width:     r.Width,
			Mask:      r.Mask,
			Shift:     r.Shift,
			InBits:    r.InBits,
			Indirect:  r.Indirect,
		}
		if r.InBits {
			d.Pos = r.Pos.Absolute
		}
		if r.HasRegister {
			index := r.Register
			d.Register = &index
		}
		if c := r.Node.Config(); r.HasRegister || r.InBits {
			d.Access = c.Access.String()
		}
		ds = append(ds, d)
	}
	return ds
}

// DescriptorCodec encodes and decodes descriptor sets. Encoding is
// deterministic so equal layouts produce equal bytes.
type DescriptorCodec struct {
	codec commoncbor.CBORCodec
}

func NewDescriptorCodec() (DescriptorCodec, error) {
	codec, err := commoncbor.NewCBORCodec(
		commoncbor.NewDeterministicEncOpts(),
		commoncbor.NewDeterministicDecOpts(), // unsigned int decodes to uint64
	)
	if err != nil {
		return DescriptorCodec{}, err
	}
	return DescriptorCodec{codec: codec}, nil
}

// Encode serializes the descriptors as a versioned CBOR document.
func (c DescriptorCodec) Encode(ds []Descriptor) ([]byte, error) {
	return c.codec.MarshalCBOR(descriptorSet{Version: DescriptorVersion, Descriptors: ds})
}

// Decode parses a document produced by Encode.
func (c DescriptorCodec) Decode(data []byte) ([]Descriptor, error) {
	var set descriptorSet
	if err := c.codec.UnmarshalInto(data, &set); err != nil {
		return nil, err
	}
	if set.Version != DescriptorVersion {
		return nil, ErrDescriptorVersion
	}
	return set.Descriptors, nil
}

// EncodeDescriptors encodes the descriptors of m with a default codec.
func EncodeDescriptors(m *Map) ([]byte, error) {
	c, err := NewDescriptorCodec()
	if err != nil {
		return nil, err
	}
	return c.Encode(m.Descriptors())
}

// DecodeDescriptors decodes a document produced by EncodeDescriptors.
func DecodeDescriptors(data []byte) ([]Descriptor, error) {
	c, err := NewDescriptorCodec()
	if err != nil {
		return nil, err
	}
	return c.Decode(data)
}
