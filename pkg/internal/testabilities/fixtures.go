package testabilities

import "strings"

// Sample values shared by tests.
const (
	DefaultAddress  = "addr1q84sh2j72ux0l03fxndjnhctdg7hcppsaejafsa84vh7lwgmcs5wgus8qt4atk45lvt4xfxpjtwfhdmvchdf2m3u3hlsd5tq5r"
	DefaultPolicyID = "95a292ffee938be03e9bae5657982a74e9014eb4960108c9e23a5b39"
	DefaultAmount   = "1000000"
)

// HexPayload returns a valid hex string of n characters. n must be even.
func HexPayload(n int) string {
	return strings.Repeat("ab", n/2)
}

// DefaultOutputParams returns raw output parameters paying DefaultAmount to DefaultAddress.
func DefaultOutputParams() map[string]any {
	return map[string]any{
		"address": DefaultAddress,
		"amount":  DefaultAmount,
	}
}
