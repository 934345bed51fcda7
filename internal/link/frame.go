package link

import (
	"errors"
	"fmt"
)

var ErrParity = errors.New("received byte has incorrect parity bit")

// EncodeFrame - packs a payload byte into a channel frame: the payload
// shifted left once with its fold-XOR parity in bit 0. The shift
// discards bit 7, so payloads are restricted to 7-bit character codes.
// That precondition is on the caller and is not enforced here.
func EncodeFrame(payload byte) byte {
	return payload<<1 | foldXor(payload)
}

// DecodeFrame - recovers the payload from a frame and verifies its
// parity bit. Any single-bit corruption of the frame is detected.
func DecodeFrame(frame byte) (byte, error) {
	payload := frame >> 1

	if foldXor(payload) != frame&1 {
		return 0, fmt.Errorf("%w: %#02x", ErrParity, frame)
	}

	return payload, nil
}

// foldXor collapses all bits of the byte into one: 1 if an odd number
// of bits are set, else 0.
func foldXor(b byte) byte {
	b ^= b >> 4
	b ^= b >> 2
	b ^= b >> 1

	return b & 1
}
