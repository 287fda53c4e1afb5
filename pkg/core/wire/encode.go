package wire

import (
	"encoding/hex"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of the device messages.
const (
	txOutputAddress             protowire.Number = 1
	txOutputAmount              protowire.Number = 2
	txOutputAssetGroupsCount    protowire.Number = 3
	txOutputDatumHash           protowire.Number = 4
	txOutputAddressParameters   protowire.Number = 5
	txOutputFormat              protowire.Number = 6
	txOutputInlineDatumSize     protowire.Number = 7
	txOutputReferenceScriptSize protowire.Number = 8

	addressParamsType              protowire.Number = 1
	addressParamsN                 protowire.Number = 2
	addressParamsNStaking          protowire.Number = 3
	addressParamsStakingKeyHash    protowire.Number = 4
	addressParamsCertificatePtr    protowire.Number = 5
	addressParamsScriptPaymentHash protowire.Number = 6
	addressParamsScriptStakingHash protowire.Number = 7

	pointerBlockIndex       protowire.Number = 1
	pointerTxIndex          protowire.Number = 2
	pointerCertificateIndex protowire.Number = 3

	assetGroupPolicyID    protowire.Number = 1
	assetGroupTokensCount protowire.Number = 2

	tokenAssetNameBytes protowire.Number = 1
	tokenAmount         protowire.Number = 2
	tokenMintAmount     protowire.Number = 3

	chunkData protowire.Number = 1

	failureCode    protowire.Number = 1
	failureMessage protowire.Number = 2
)

// HexFieldError is returned when a hex encoded record field cannot be decoded.
type HexFieldError struct {
	Field string
	Err   error
}

func (e *HexFieldError) Error() string {
	return fmt.Sprintf("wire: field %s is not valid hex: %v", e.Field, e.Err)
}

func (e *HexFieldError) Unwrap() error { return e.Err }

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendHex(b []byte, num protowire.Number, field, h string) ([]byte, error) {
	raw, err := hex.DecodeString(h)
	if err != nil {
		return nil, &HexFieldError{Field: field, Err: err}
	}
	return appendBytes(b, num, raw), nil
}

func appendOptionalHex(b []byte, num protowire.Number, field string, h *string) ([]byte, error) {
	if h == nil {
		return b, nil
	}
	return appendHex(b, num, field, *h)
}

// MarshalWire encodes the output header record.
func (o TxOutput) MarshalWire() ([]byte, error) {
	var b []byte
	var err error
	switch d := o.Destination.(type) {
	case AddressDestination:
		b = protowire.AppendTag(b, txOutputAddress, protowire.BytesType)
		b = protowire.AppendString(b, d.Address)
	case ParametersDestination:
		nested, err := d.Parameters.MarshalWire()
		if err != nil {
			return nil, err
		}
		b = appendBytes(b, txOutputAddressParameters, nested)
	default:
		return nil, ErrMissingDestination
	}

	b = appendVarint(b, txOutputAmount, o.Amount)
	b = appendVarint(b, txOutputAssetGroupsCount, uint64(o.AssetGroupsCount))
	if b, err = appendOptionalHex(b, txOutputDatumHash, "datum_hash", o.DatumHash); err != nil {
		return nil, err
	}
	if o.Format != nil {
		b = appendVarint(b, txOutputFormat, uint64(*o.Format))
	}
	if o.InlineDatumSize != nil {
		b = appendVarint(b, txOutputInlineDatumSize, uint64(*o.InlineDatumSize))
	}
	if o.ReferenceScriptSize != nil {
		b = appendVarint(b, txOutputReferenceScriptSize, uint64(*o.ReferenceScriptSize))
	}
	return b, nil
}

// MarshalWire encodes the address parameters as a nested device message.
func (p AddressParameters) MarshalWire() ([]byte, error) {
	var err error
	b := appendVarint(nil, addressParamsType, uint64(p.AddressType))
	for _, n := range p.AddressN {
		b = appendVarint(b, addressParamsN, uint64(n))
	}
	for _, n := range p.AddressNStaking {
		b = appendVarint(b, addressParamsNStaking, uint64(n))
	}
	if b, err = appendOptionalHex(b, addressParamsStakingKeyHash, "staking_key_hash", p.StakingKeyHash); err != nil {
		return nil, err
	}
	if ptr := p.CertificatePointer; ptr != nil {
		nested := appendVarint(nil, pointerBlockIndex, uint64(ptr.BlockIndex))
		nested = appendVarint(nested, pointerTxIndex, uint64(ptr.TxIndex))
		nested = appendVarint(nested, pointerCertificateIndex, uint64(ptr.CertificateIndex))
		b = appendBytes(b, addressParamsCertificatePtr, nested)
	}
	if b, err = appendOptionalHex(b, addressParamsScriptPaymentHash, "script_payment_hash", p.ScriptPaymentHash); err != nil {
		return nil, err
	}
	if b, err = appendOptionalHex(b, addressParamsScriptStakingHash, "script_staking_hash", p.ScriptStakingHash); err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalWire encodes the asset group header.
func (g AssetGroup) MarshalWire() ([]byte, error) {
	b, err := appendHex(nil, assetGroupPolicyID, "policy_id", g.PolicyID)
	if err != nil {
		return nil, err
	}
	return appendVarint(b, assetGroupTokensCount, uint64(g.TokensCount)), nil
}

// MarshalWire encodes the token record. Mint amounts use zig-zag encoding.
func (t Token) MarshalWire() ([]byte, error) {
	b, err := appendHex(nil, tokenAssetNameBytes, "asset_name_bytes", t.AssetNameBytes)
	if err != nil {
		return nil, err
	}
	if t.Amount != nil {
		b = appendVarint(b, tokenAmount, *t.Amount)
	}
	if t.MintAmount != nil {
		b = appendVarint(b, tokenMintAmount, protowire.EncodeZigZag(*t.MintAmount))
	}
	return b, nil
}

// MarshalWire encodes the chunk; the hex data travels as raw bytes.
func (c Chunk) MarshalWire() ([]byte, error) {
	return appendHex(nil, chunkData, "data", c.Data)
}

// MarshalWire encodes the empty acknowledgement.
func (TxItemAck) MarshalWire() ([]byte, error) {
	return []byte{}, nil
}

// MarshalWire encodes the failure reply.
func (f Failure) MarshalWire() ([]byte, error) {
	b := appendVarint(nil, failureCode, uint64(f.Code))
	b = protowire.AppendTag(b, failureMessage, protowire.BytesType)
	return protowire.AppendString(b, f.Message), nil
}

// ParseFailure decodes a failure reply payload. Unknown fields are skipped.
func ParseFailure(b []byte) (Failure, error) {
	var f Failure
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return Failure{}, protowire.ParseError(n)
		}
		b = b[n:]
		switch {
		case num == failureCode && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Failure{}, protowire.ParseError(n)
			}
			f.Code = uint32(v)
			b = b[n:]
		case num == failureMessage && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(b)
			if n < 0 {
				return Failure{}, protowire.ParseError(n)
			}
			f.Message = v
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return Failure{}, protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return f, nil
}
