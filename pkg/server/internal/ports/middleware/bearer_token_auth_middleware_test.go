package middleware_test

import (
	"testing"

	"github.com/4chain-ag/go-hw-outputs/pkg/internal/testabilities"
	"github.com/4chain-ag/go-hw-outputs/pkg/server"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/ports"
	"github.com/4chain-ag/go-hw-outputs/pkg/server/internal/ports/middleware"
	servertestabilities "github.com/4chain-ag/go-hw-outputs/pkg/server/internal/testabilities"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

const bearerToken = "valid_admin_token"

func TestBearerTokenAuthMiddleware_ValidCase(t *testing.T) {
	// given:
	device := testabilities.NewDeviceSenderMock(t, testabilities.DefaultDeviceSenderMockExpectations)
	fixture := server.NewServerTestFixture(t,
		server.WithAdminBearerToken(bearerToken),
		server.WithSender(device),
	)

	// when:
	res, _ := fixture.Client().
		R().
		SetHeader(fiber.HeaderAuthorization, "Bearer "+bearerToken).
		SetBody(testabilities.DefaultOutputParams()).
		Post(server.SendOutputPath)

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
	device.AssertCalled()
}

func TestBearerTokenAuthMiddleware_InvalidCases(t *testing.T) {
	tests := map[string]struct {
		expectedResponse ports.ErrorResponse
		expectedStatus   int
		headers          map[string]string
	}{
		"Authorization header with invalid HTTP server token": {
			expectedStatus:   fiber.StatusForbidden,
			expectedResponse: servertestabilities.NewTestErrorResponse(t, middleware.NewInvalidBearerTokenValueError()),
			headers: map[string]string{
				fiber.HeaderAuthorization: "Bearer " + "1234",
			},
		},
		"Missing Authorization header in the HTTP request": {
			expectedStatus:   fiber.StatusUnauthorized,
			expectedResponse: servertestabilities.NewTestErrorResponse(t, middleware.NewMissingAuthorizationHeaderError()),
			headers: map[string]string{
				"RandomHeader": "Bearer " + bearerToken,
			},
		},
		"Missing Authorization header value in the HTTP request": {
			expectedStatus:   fiber.StatusUnauthorized,
			expectedResponse: servertestabilities.NewTestErrorResponse(t, middleware.NewMissingAuthorizationHeaderError()),
			headers: map[string]string{
				fiber.HeaderAuthorization: "",
			},
		},
		"Invalid Bearer scheme in the Authorization header appended to the HTTP request": {
			expectedStatus:   fiber.StatusUnauthorized,
			expectedResponse: servertestabilities.NewTestErrorResponse(t, middleware.NewMissingBearerTokenValueError()),
			headers: map[string]string{
				fiber.HeaderAuthorization: "InvalidScheme " + bearerToken,
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			// given:
			device := testabilities.NewDeviceSenderMock(t, testabilities.DeviceSenderMockExpectations{SendCall: false})
			fixture := server.NewServerTestFixture(t,
				server.WithAdminBearerToken(bearerToken),
				server.WithSender(device),
			)

			// when:
			var actual ports.ErrorResponse

			res, _ := fixture.Client().
				R().
				SetHeaders(tc.headers).
				SetBody(testabilities.DefaultOutputParams()).
				SetError(&actual).
				Post(server.SendOutputPath)

			// then:
			require.Equal(t, tc.expectedStatus, res.StatusCode())
			require.Equal(t, tc.expectedResponse, actual)
			device.AssertCalled()
		})
	}
}

func TestBearerTokenAuthMiddleware_TransformRouteIsPublic(t *testing.T) {
	// given:
	fixture := server.NewServerTestFixture(t, server.WithAdminBearerToken(bearerToken))

	// when:
	res, _ := fixture.Client().
		R().
		SetBody(testabilities.DefaultOutputParams()).
		Post(server.TransformOutputPath)

	// then:
	require.Equal(t, fiber.StatusOK, res.StatusCode())
}
