package outputs

import "fmt"

// HexByteLength returns the number of bytes encoded by the hex string s.
// The string must have even length; hex validity is checked before input
// reaches this point, so an odd length is a programming error and panics.
func HexByteLength(s string) uint32 {
	if len(s)%2 != 0 {
		panic(fmt.Sprintf("outputs: hex string of odd length %d", len(s)))
	}
	return uint32(len(s) / 2)
}
