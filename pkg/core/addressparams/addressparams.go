// Package addressparams validates structured address parameters and converts
// them into the record the device derives addresses from.
package addressparams

import (
	"errors"
	"fmt"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
)

// AddressType enumerates the address kinds the device can derive.
type AddressType uint32

const (
	AddressTypeBase             AddressType = 0
	AddressTypeBaseScriptKey    AddressType = 1
	AddressTypeBaseKeyScript    AddressType = 2
	AddressTypeBaseScriptScript AddressType = 3
	AddressTypePointer          AddressType = 4
	AddressTypePointerScript    AddressType = 5
	AddressTypeEnterprise       AddressType = 6
	AddressTypeEnterpriseScript AddressType = 7
	AddressTypeByron            AddressType = 8
	AddressTypeReward           AddressType = 14
	AddressTypeRewardScript     AddressType = 15
)

// CertificatePointer locates a stake registration certificate on chain.
type CertificatePointer struct {
	BlockIndex       uint32 `json:"blockIndex"`
	TxIndex          uint32 `json:"txIndex"`
	CertificateIndex uint32 `json:"certificateIndex"`
}

// AddressParameters is the validated, typed form of the caller's address parameters.
type AddressParameters struct {
	AddressType        AddressType
	Path               Path
	StakingPath        Path
	StakingKeyHash     *string
	CertificatePointer *CertificatePointer
	PaymentScriptHash  *string
	StakingScriptHash  *string
}

var addressParametersSchema = params.Schema{
	{Name: "addressType", Type: params.TypeNumber, Required: true},
	{Name: "stakingKeyHash", Type: params.TypeHex},
	{Name: "paymentScriptHash", Type: params.TypeHex},
	{Name: "stakingScriptHash", Type: params.TypeHex},
	{Name: "certificatePointer", Type: params.TypeObject},
}

var certificatePointerSchema = params.Schema{
	{Name: "blockIndex", Type: params.TypeUint, Required: true},
	{Name: "txIndex", Type: params.TypeUint, Required: true},
	{Name: "certificateIndex", Type: params.TypeUint, Required: true},
}

type rawAddressParameters struct {
	AddressType        uint32              `json:"addressType"`
	StakingKeyHash     *string             `json:"stakingKeyHash"`
	PaymentScriptHash  *string             `json:"paymentScriptHash"`
	StakingScriptHash  *string             `json:"stakingScriptHash"`
	CertificatePointer *CertificatePointer `json:"certificatePointer"`
}

// Validate checks the shape of caller supplied address parameters and returns
// their typed form. Paths are required to have at least MinPathLength levels.
// Failures are *params.ValidationError values.
func Validate(raw map[string]any) (AddressParameters, error) {
	if err := params.Validate(raw, addressParametersSchema); err != nil {
		return AddressParameters{}, err
	}
	if _, ok := params.AsUint(raw["addressType"]); !ok {
		return AddressParameters{}, &params.ValidationError{Field: "addressType", Reason: "is not a valid address type"}
	}
	if ptr, ok := raw["certificatePointer"].(map[string]any); ok {
		if err := params.Validate(ptr, certificatePointerSchema); err != nil {
			return AddressParameters{}, err
		}
	}

	var decoded rawAddressParameters
	if err := params.Decode(raw, &decoded); err != nil {
		return AddressParameters{}, &params.ValidationError{Field: "addressParameters", Reason: err.Error()}
	}

	path, err := pathParam(raw, "path")
	if err != nil {
		return AddressParameters{}, err
	}
	stakingPath, err := pathParam(raw, "stakingPath")
	if err != nil {
		return AddressParameters{}, err
	}

	return AddressParameters{
		AddressType:        AddressType(decoded.AddressType),
		Path:               path,
		StakingPath:        stakingPath,
		StakingKeyHash:     decoded.StakingKeyHash,
		CertificatePointer: decoded.CertificatePointer,
		PaymentScriptHash:  decoded.PaymentScriptHash,
		StakingScriptHash:  decoded.StakingScriptHash,
	}, nil
}

func pathParam(raw map[string]any, name string) (Path, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return nil, nil
	}
	p, err := ParsePath(v)
	if err != nil {
		var pathErr *PathError
		if errors.As(err, &pathErr) {
			return nil, &params.ValidationError{Field: name, Reason: pathErr.Reason}
		}
		return nil, &params.ValidationError{Field: name, Reason: fmt.Sprintf("is not a valid path: %v", err)}
	}
	return p, nil
}

// ToProto converts validated parameters into the device record. Absent paths
// are encoded as empty lists.
func ToProto(p AddressParameters) wire.AddressParameters {
	rec := wire.AddressParameters{
		AddressType:       uint32(p.AddressType),
		AddressN:          p.Path.Levels(),
		AddressNStaking:   p.StakingPath.Levels(),
		StakingKeyHash:    p.StakingKeyHash,
		ScriptPaymentHash: p.PaymentScriptHash,
		ScriptStakingHash: p.StakingScriptHash,
	}
	if ptr := p.CertificatePointer; ptr != nil {
		rec.CertificatePointer = &wire.BlockchainPointer{
			BlockIndex:       ptr.BlockIndex,
			TxIndex:          ptr.TxIndex,
			CertificateIndex: ptr.CertificateIndex,
		}
	}
	return rec
}
