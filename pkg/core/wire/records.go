package wire

import (
	"encoding/json"
	"errors"
)

// Destination is where an output pays to. It is either an AddressDestination
// or a ParametersDestination, never both.
type Destination interface {
	isDestination()
}

// AddressDestination pays to an already encoded address.
type AddressDestination struct {
	Address string
}

// ParametersDestination pays to an address the device derives from parameters.
type ParametersDestination struct {
	Parameters AddressParameters
}

func (AddressDestination) isDestination()    {}
func (ParametersDestination) isDestination() {}

// ErrMissingDestination is returned when a TxOutput without destination is encoded.
var ErrMissingDestination = errors.New("wire: output has no destination")

// BlockchainPointer locates a stake registration certificate on chain.
type BlockchainPointer struct {
	BlockIndex       uint32 `json:"block_index"`
	TxIndex          uint32 `json:"tx_index"`
	CertificateIndex uint32 `json:"certificate_index"`
}

// AddressParameters is the structured address description understood by the device.
type AddressParameters struct {
	AddressType        uint32             `json:"address_type"`
	AddressN           []uint32           `json:"address_n"`
	AddressNStaking    []uint32           `json:"address_n_staking"`
	StakingKeyHash     *string            `json:"staking_key_hash,omitempty"`
	CertificatePointer *BlockchainPointer `json:"certificate_pointer,omitempty"`
	ScriptPaymentHash  *string            `json:"script_payment_hash,omitempty"`
	ScriptStakingHash  *string            `json:"script_staking_hash,omitempty"`
}

// TxOutput is the output header record. Optional fields are nil when absent;
// an absent size is distinct from a zero size.
type TxOutput struct {
	Destination         Destination
	Amount              uint64
	AssetGroupsCount    uint32
	DatumHash           *string
	Format              *uint32
	InlineDatumSize     *uint32
	ReferenceScriptSize *uint32
}

type txOutputJSON struct {
	Address             *string            `json:"address,omitempty"`
	AddressParameters   *AddressParameters `json:"address_parameters,omitempty"`
	Amount              uint64             `json:"amount,string"`
	AssetGroupsCount    uint32             `json:"asset_groups_count"`
	DatumHash           *string            `json:"datum_hash,omitempty"`
	Format              *uint32            `json:"format,omitempty"`
	InlineDatumSize     *uint32            `json:"inline_datum_size,omitempty"`
	ReferenceScriptSize *uint32            `json:"reference_script_size,omitempty"`
}

// MarshalJSON renders the destination as either "address" or "address_parameters".
func (o TxOutput) MarshalJSON() ([]byte, error) {
	aux := txOutputJSON{
		Amount:              o.Amount,
		AssetGroupsCount:    o.AssetGroupsCount,
		DatumHash:           o.DatumHash,
		Format:              o.Format,
		InlineDatumSize:     o.InlineDatumSize,
		ReferenceScriptSize: o.ReferenceScriptSize,
	}
	switch d := o.Destination.(type) {
	case AddressDestination:
		aux.Address = &d.Address
	case ParametersDestination:
		aux.AddressParameters = &d.Parameters
	}
	return json.Marshal(aux)
}

// UnmarshalJSON is the inverse of MarshalJSON. A record carrying both
// destinations resolves to the address parameters.
func (o *TxOutput) UnmarshalJSON(data []byte) error {
	var aux txOutputJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*o = TxOutput{
		Amount:              aux.Amount,
		AssetGroupsCount:    aux.AssetGroupsCount,
		DatumHash:           aux.DatumHash,
		Format:              aux.Format,
		InlineDatumSize:     aux.InlineDatumSize,
		ReferenceScriptSize: aux.ReferenceScriptSize,
	}
	switch {
	case aux.AddressParameters != nil:
		o.Destination = ParametersDestination{Parameters: *aux.AddressParameters}
	case aux.Address != nil:
		o.Destination = AddressDestination{Address: *aux.Address}
	}
	return nil
}

// Token is a single native asset amount inside an asset group.
type Token struct {
	AssetNameBytes string  `json:"asset_name_bytes"`
	Amount         *uint64 `json:"amount,omitempty,string"`
	MintAmount     *int64  `json:"mint_amount,omitempty,string"`
}

// AssetGroup is the header record announcing a policy and its token count.
type AssetGroup struct {
	PolicyID    string `json:"policy_id"`
	TokensCount uint32 `json:"tokens_count"`
}

// AssetGroupWithTokens is a policy together with its tokens, in caller order.
type AssetGroupWithTokens struct {
	PolicyID string  `json:"policy_id"`
	Tokens   []Token `json:"tokens"`
}

// Header returns the group header record sent before the group's tokens.
func (g AssetGroupWithTokens) Header() AssetGroup {
	return AssetGroup{
		PolicyID:    g.PolicyID,
		TokensCount: uint32(len(g.Tokens)),
	}
}

// Chunk is one slice of a hex payload streamed to the device.
type Chunk struct {
	Data string `json:"data"`
}

// TxItemAck is the device acknowledgement of a transaction item.
type TxItemAck struct{}

// Failure is the device error reply.
type Failure struct {
	Code    uint32 `json:"code"`
	Message string `json:"message"`
}
