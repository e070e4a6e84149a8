package crypto

import "encoding/hex"

// Address is the 20-byte opaque identifier from spec §3. The all-zero
// value is the "null address": simultaneously "no output owner" and "the
// parent chain's native currency". Byte-identical in both roles by design
// (the wire format requires it); callers that need to keep the two
// meanings apart should do so at a higher layer (see tx.Currency /
// tx.Owner in the tx package).
type Address [AddressLength]byte

// ZeroAddress is the all-zero 20-byte sentinel.
func ZeroAddress() Address {
	return Address{}
}

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

// IsAccountAddress reports whether a is a genuine account address, i.e.
// not the null/native-currency sentinel.
func IsAccountAddress(a Address) bool {
	return !a.IsZero()
}

// Bytes returns a's bytes as a freshly allocated slice.
func (a Address) Bytes() []byte {
	b := make([]byte, AddressLength)
	copy(b, a[:])
	return b
}

// BytesToAddress left-pads or truncates b to AddressLength bytes, taking
// the trailing AddressLength bytes if b is longer.
func BytesToAddress(b []byte) Address {
	var a Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// NullSignature is the all-zero 65-byte value, used for input slots that
// do not require signing.
func NullSignature() [SignatureLength]byte {
	return [SignatureLength]byte{}
}

// IsNullSignature reports whether sig is the all-zero sentinel.
func IsNullSignature(sig [SignatureLength]byte) bool {
	return sig == [SignatureLength]byte{}
}
