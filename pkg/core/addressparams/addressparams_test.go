package addressparams_test

import (
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/addressparams"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/4chain-ag/go-hw-outputs/pkg/core/wire"
	"github.com/stretchr/testify/require"
	"k8s.io/utils/ptr"
)

const stakingKeyHash = "32c728d3861e164cab28cb8f006448139c8f1740ffb8e7aa9e5232dc"

func TestParsePath(t *testing.T) {
	tests := map[string]struct {
		input    any
		expected addressparams.Path
	}{
		"string with apostrophes": {
			input:    "m/1852'/1815'/0'/0/0",
			expected: addressparams.Path{1852 | addressparams.HardenedBit, 1815 | addressparams.HardenedBit, addressparams.HardenedBit, 0, 0},
		},
		"string with h suffix and no m prefix": {
			input:    "44h/1815h/0h",
			expected: addressparams.Path{44 | addressparams.HardenedBit, 1815 | addressparams.HardenedBit, addressparams.HardenedBit},
		},
		"list of numbers": {
			input:    []any{float64(2147485500), float64(2147485463), float64(2147483648)},
			expected: addressparams.Path{2147485500, 2147485463, 2147483648},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			actual, err := addressparams.ParsePath(tc.input)

			// then:
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestParsePath_InvalidCases(t *testing.T) {
	tests := map[string]any{
		"too short":          "m/1852'/1815'",
		"garbage level":      "m/1852'/x/0",
		"level out of range": "m/2147483648/0/0",
		"negative list item": []any{float64(-1), float64(0), float64(0)},
		"wrong type":         true,
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			_, err := addressparams.ParsePath(input)

			// then:
			var pathErr *addressparams.PathError
			require.ErrorAs(t, err, &pathErr)
		})
	}
}

func TestPath_String(t *testing.T) {
	// given:
	p := addressparams.Path{1852 | addressparams.HardenedBit, 1815 | addressparams.HardenedBit, addressparams.HardenedBit, 2, 0}

	// then:
	require.Equal(t, "m/1852'/1815'/0'/2/0", p.String())
}

func TestValidate_ValidCase(t *testing.T) {
	// given:
	raw := map[string]any{
		"addressType":    float64(0),
		"path":           "m/1852'/1815'/0'/0/0",
		"stakingKeyHash": stakingKeyHash,
		"certificatePointer": map[string]any{
			"blockIndex":       float64(1),
			"txIndex":          float64(2),
			"certificateIndex": float64(3),
		},
	}

	// when:
	actual, err := addressparams.Validate(raw)

	// then:
	require.NoError(t, err)
	require.Equal(t, addressparams.AddressTypeBase, actual.AddressType)
	require.Equal(t, "m/1852'/1815'/0'/0/0", actual.Path.String())
	require.Nil(t, actual.StakingPath)
	require.Equal(t, ptr.To(stakingKeyHash), actual.StakingKeyHash)
	require.Equal(t, &addressparams.CertificatePointer{BlockIndex: 1, TxIndex: 2, CertificateIndex: 3}, actual.CertificatePointer)
}

func TestValidate_InvalidCases(t *testing.T) {
	tests := map[string]struct {
		raw           map[string]any
		expectedError *params.ValidationError
	}{
		"missing address type": {
			raw:           map[string]any{"path": "m/1852'/1815'/0'/0/0"},
			expectedError: params.NewMissingParameterError("addressType"),
		},
		"negative address type": {
			raw:           map[string]any{"addressType": float64(-1)},
			expectedError: &params.ValidationError{Field: "addressType", Reason: "is not a valid address type"},
		},
		"staking key hash is not hex": {
			raw:           map[string]any{"addressType": float64(0), "stakingKeyHash": "xyz1"},
			expectedError: &params.ValidationError{Field: "stakingKeyHash", Reason: "is not a valid hex string"},
		},
		"certificate pointer without tx index": {
			raw: map[string]any{
				"addressType":        float64(4),
				"certificatePointer": map[string]any{"blockIndex": float64(1), "certificateIndex": float64(3)},
			},
			expectedError: params.NewMissingParameterError("txIndex"),
		},
		"short staking path": {
			raw:           map[string]any{"addressType": float64(0), "stakingPath": "m/1852'"},
			expectedError: &params.ValidationError{Field: "stakingPath", Reason: "is not a valid path, at least 3 levels expected"},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			_, err := addressparams.Validate(tc.raw)

			// then:
			var actualErr *params.ValidationError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, tc.expectedError, actualErr)
		})
	}
}

func TestToProto(t *testing.T) {
	// given:
	p := addressparams.AddressParameters{
		AddressType:        addressparams.AddressTypePointer,
		Path:               addressparams.Path{1, 2, 3},
		CertificatePointer: &addressparams.CertificatePointer{BlockIndex: 7, TxIndex: 8, CertificateIndex: 9},
		PaymentScriptHash:  ptr.To("aa"),
	}

	// when:
	actual := addressparams.ToProto(p)

	// then:
	expected := wire.AddressParameters{
		AddressType:        4,
		AddressN:           []uint32{1, 2, 3},
		AddressNStaking:    []uint32{},
		CertificatePointer: &wire.BlockchainPointer{BlockIndex: 7, TxIndex: 8, CertificateIndex: 9},
		ScriptPaymentHash:  ptr.To("aa"),
	}
	require.Equal(t, expected, actual)
}
