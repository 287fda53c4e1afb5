package outputs

import (
	"math"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/addressparams"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
)

// OutputSpec is the caller's description of a transaction output.
type OutputSpec struct {
	Address           *string        `json:"address,omitempty"`
	Amount            uint64         `json:"amount,string"`
	TokenBundle       []AssetGroup   `json:"tokenBundle,omitempty"`
	DatumHash         *string        `json:"datumHash,omitempty"`
	Format            *uint32        `json:"format,omitempty"`
	InlineDatum       *string        `json:"inlineDatum,omitempty"`
	ReferenceScript   *string        `json:"referenceScript,omitempty"`
	AddressParameters map[string]any `json:"addressParameters,omitempty"`
}

// OutputWithData is the output header record together with the payloads
// that follow it on the wire. TokenBundle is nil (JSON null) when the caller
// gave no bundle and empty (JSON []) for an empty one. InlineDatum and
// ReferenceScript are nil when absent.
type OutputWithData struct {
	Output          wire.TxOutput               `json:"output"`
	TokenBundle     []wire.AssetGroupWithTokens `json:"tokenBundle"`
	InlineDatum     *string                     `json:"inlineDatum,omitempty"`
	ReferenceScript *string                     `json:"referenceScript,omitempty"`
}

var outputSchema = params.Schema{
	{Name: "address", Type: params.TypeString},
	{Name: "amount", Type: params.TypeUint, Required: true},
	{Name: "tokenBundle", Type: params.TypeArray, AllowEmpty: true},
	{Name: "datumHash", Type: params.TypeHex},
	{Name: "format", Type: params.TypeNumber},
	{Name: "inlineDatum", Type: params.TypeHex},
	{Name: "referenceScript", Type: params.TypeHex},
	{Name: "addressParameters", Type: params.TypeObject},
}

// TransformOutput validates raw output parameters and builds the header
// record and its payloads. When addressParameters is present it decides the
// destination and address is ignored. Validation errors are returned as
// produced by the validators.
func TransformOutput(raw map[string]any) (OutputWithData, error) {
	if err := params.Validate(raw, outputSchema); err != nil {
		return OutputWithData{}, err
	}
	if v, ok := raw["format"]; ok && v != nil {
		if n, ok := params.AsUint(v); !ok || n > math.MaxUint32 {
			return OutputWithData{}, &params.ValidationError{Field: "format", Reason: "is not a valid format"}
		}
	}
	bundle, hasBundle := raw["tokenBundle"].([]any)
	if hasBundle {
		if err := ValidateTokenBundle(bundle); err != nil {
			return OutputWithData{}, err
		}
	}

	var in OutputSpec
	if err := params.Decode(raw, &in); err != nil {
		return OutputWithData{}, &params.ValidationError{Field: "output", Reason: err.Error()}
	}

	result := OutputWithData{
		Output: wire.TxOutput{
			Amount:    in.Amount,
			DatumHash: in.DatumHash,
			Format:    in.Format,
		},
		InlineDatum:     in.InlineDatum,
		ReferenceScript: in.ReferenceScript,
	}
	if in.InlineDatum != nil {
		size := HexByteLength(*in.InlineDatum)
		result.Output.InlineDatumSize = &size
	}
	if in.ReferenceScript != nil {
		size := HexByteLength(*in.ReferenceScript)
		result.Output.ReferenceScriptSize = &size
	}

	switch {
	case in.AddressParameters != nil:
		p, err := addressparams.Validate(in.AddressParameters)
		if err != nil {
			return OutputWithData{}, err
		}
		result.Output.Destination = wire.ParametersDestination{Parameters: addressparams.ToProto(p)}
	case in.Address != nil:
		result.Output.Destination = wire.AddressDestination{Address: *in.Address}
	default:
		return OutputWithData{}, params.NewMissingParameterError("address")
	}

	if hasBundle {
		result.TokenBundle = TokenBundleToProto(in.TokenBundle)
		result.Output.AssetGroupsCount = uint32(len(result.TokenBundle))
	}

	return result, nil
}
