package outputs

import (
	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
)

// TokenAmount is a single token of an asset group as supplied by the caller.
type TokenAmount struct {
	AssetNameBytes string  `json:"assetNameBytes"`
	Amount         *uint64 `json:"amount,omitempty"`
	MintAmount     *int64  `json:"mintAmount,omitempty"`
}

// AssetGroup is a policy together with its tokens as supplied by the caller.
type AssetGroup struct {
	PolicyID     string        `json:"policyId"`
	TokenAmounts []TokenAmount `json:"tokenAmounts"`
}

var assetGroupSchema = params.Schema{
	{Name: "policyId", Type: params.TypeHex, Required: true},
	{Name: "tokenAmounts", Type: params.TypeArray, Required: true},
}

var tokenAmountSchema = params.Schema{
	{Name: "assetNameBytes", Type: params.TypeHex, Required: true},
	{Name: "amount", Type: params.TypeUint},
	{Name: "mintAmount", Type: params.TypeInt},
}

// ValidateTokenBundle checks the shape of every group and token of a raw bundle.
func ValidateTokenBundle(raw []any) error {
	for _, g := range raw {
		group, ok := g.(map[string]any)
		if !ok {
			return params.NewInvalidTypeError("tokenBundle", params.TypeObject)
		}
		if err := params.Validate(group, assetGroupSchema); err != nil {
			return err
		}
		for _, t := range group["tokenAmounts"].([]any) {
			token, ok := t.(map[string]any)
			if !ok {
				return params.NewInvalidTypeError("tokenAmounts", params.TypeObject)
			}
			if err := params.Validate(token, tokenAmountSchema); err != nil {
				return err
			}
		}
	}
	return nil
}

// TokenBundleToProto converts the caller's asset groups into wire records.
// Group and token order is kept as given; nothing is merged or sorted.
func TokenBundleToProto(bundle []AssetGroup) []wire.AssetGroupWithTokens {
	groups := make([]wire.AssetGroupWithTokens, 0, len(bundle))
	for _, g := range bundle {
		tokens := make([]wire.Token, 0, len(g.TokenAmounts))
		for _, t := range g.TokenAmounts {
			tokens = append(tokens, wire.Token{
				AssetNameBytes: t.AssetNameBytes,
				Amount:         t.Amount,
				MintAmount:     t.MintAmount,
			})
		}
		groups = append(groups, wire.AssetGroupWithTokens{
			PolicyID: g.PolicyID,
			Tokens:   tokens,
		})
	}
	return groups
}
