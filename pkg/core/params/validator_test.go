package params_test

import (
	"encoding/json"
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/core/params"
	"github.com/stretchr/testify/require"
)

var testSchema = params.Schema{
	{Name: "address", Type: params.TypeString},
	{Name: "amount", Type: params.TypeUint, Required: true},
	{Name: "tokenBundle", Type: params.TypeArray, AllowEmpty: true},
	{Name: "tags", Type: params.TypeArray},
	{Name: "format", Type: params.TypeNumber},
	{Name: "inlineDatum", Type: params.TypeHex},
	{Name: "mintAmount", Type: params.TypeInt},
	{Name: "addressParameters", Type: params.TypeObject},
}

func TestValidate_ValidCases(t *testing.T) {
	tests := map[string]map[string]any{
		"only required amount as JSON number": {
			"amount": float64(1000000),
		},
		"amount as decimal string above 2^53": {
			"amount": "18446744073709551615",
		},
		"amount as json.Number": {
			"amount": json.Number("42"),
		},
		"empty token bundle is allowed": {
			"amount":      "1",
			"tokenBundle": []any{},
		},
		"nil optional values are treated as absent": {
			"amount":  "1",
			"address": nil,
		},
		"negative mint amount": {
			"amount":     "1",
			"mintAmount": "-20",
		},
		"all optional fields present": {
			"address":           "addr1",
			"amount":            uint64(7),
			"format":            float64(1),
			"inlineDatum":       "d8799f",
			"addressParameters": map[string]any{},
		},
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			err := params.Validate(input, testSchema)

			// then:
			require.NoError(t, err)
		})
	}
}

func TestValidate_InvalidCases(t *testing.T) {
	tests := map[string]struct {
		input         map[string]any
		expectedError *params.ValidationError
	}{
		"missing required amount": {
			input:         map[string]any{"address": "addr1"},
			expectedError: params.NewMissingParameterError("amount"),
		},
		"amount as negative number": {
			input:         map[string]any{"amount": float64(-1)},
			expectedError: &params.ValidationError{Field: "amount", Reason: "is not a valid uint"},
		},
		"amount with leading zero": {
			input:         map[string]any{"amount": "01"},
			expectedError: &params.ValidationError{Field: "amount", Reason: "is not a valid uint"},
		},
		"amount as fraction": {
			input:         map[string]any{"amount": 1.5},
			expectedError: &params.ValidationError{Field: "amount", Reason: "is not a valid uint"},
		},
		"address of wrong type": {
			input:         map[string]any{"amount": "1", "address": 12},
			expectedError: params.NewInvalidTypeError("address", params.TypeString),
		},
		"token bundle is not an array": {
			input:         map[string]any{"amount": "1", "tokenBundle": "x"},
			expectedError: params.NewInvalidTypeError("tokenBundle", params.TypeArray),
		},
		"empty array where not allowed": {
			input:         map[string]any{"amount": "1", "tags": []any{}},
			expectedError: &params.ValidationError{Field: "tags", Reason: "is empty"},
		},
		"format is not a number": {
			input:         map[string]any{"amount": "1", "format": "1"},
			expectedError: params.NewInvalidTypeError("format", params.TypeNumber),
		},
		"inline datum of odd length": {
			input:         map[string]any{"amount": "1", "inlineDatum": "abc"},
			expectedError: &params.ValidationError{Field: "inlineDatum", Reason: "is not a valid hex string, odd length"},
		},
		"inline datum with non hex characters": {
			input:         map[string]any{"amount": "1", "inlineDatum": "zz"},
			expectedError: &params.ValidationError{Field: "inlineDatum", Reason: "is not a valid hex string"},
		},
		"mint amount with garbage": {
			input:         map[string]any{"amount": "1", "mintAmount": "-x"},
			expectedError: &params.ValidationError{Field: "mintAmount", Reason: "is not a valid integer"},
		},
		"address parameters is not an object": {
			input:         map[string]any{"amount": "1", "addressParameters": []any{}},
			expectedError: params.NewInvalidTypeError("addressParameters", params.TypeObject),
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// when:
			err := params.Validate(tc.input, testSchema)

			// then:
			var actualErr *params.ValidationError
			require.ErrorAs(t, err, &actualErr)
			require.Equal(t, tc.expectedError, actualErr)
		})
	}
}

func TestValidate_ReportsFirstViolationInSchemaOrder(t *testing.T) {
	// given:
	input := map[string]any{"address": 1, "format": "x"}

	// when:
	err := params.Validate(input, testSchema)

	// then:
	require.EqualError(t, err, `Parameter "address" has invalid type, "string" expected`)
}

func TestDecode(t *testing.T) {
	type token struct {
		AssetNameBytes string  `json:"assetNameBytes"`
		Amount         *uint64 `json:"amount"`
		MintAmount     *int64  `json:"mintAmount"`
	}

	// given:
	input := map[string]any{
		"assetNameBytes": "74657374",
		"amount":         "18446744073709551615",
		"mintAmount":     json.Number("-3"),
	}

	// when:
	var actual token
	err := params.Decode(input, &actual)

	// then:
	require.NoError(t, err)
	require.Equal(t, "74657374", actual.AssetNameBytes)
	require.NotNil(t, actual.Amount)
	require.Equal(t, uint64(18446744073709551615), *actual.Amount)
	require.NotNil(t, actual.MintAmount)
	require.Equal(t, int64(-3), *actual.MintAmount)
}
