package forward_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearstack/pkg/cqrs/command"
	"github.com/clearstack/pkg/cqrs/query"
	"github.com/clearstack/pkg/dto"
	"github.com/clearstack/pkg/http/server"
	"github.com/clearstack/pkg/http/server/forward"
	"github.com/clearstack/pkg/http/server/middleware"
)

func createUserHandler() fiber.Handler {
	cmd := command.Func[*createUserIn, createUserOut](
		func(_ context.Context, in *createUserIn) (createUserOut, error) {
			return createUserOut{ID: 7, Name: in.Name}, nil
		})
	return forward.ToCommand(cmd)
}

type createUserIn struct {
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type createUserOut struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if c.Response().StatusCode() >= fiber.StatusBadRequest {
				return nil
			}
			_ = server.WriteErrorResponse(c, err)
			return nil
		},
	})
	app.Use(middleware.NewErrorHandlerMW().Handler)
	return app
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body T
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestToCommandDecodesBodyAndWrapsResult(t *testing.T) {
	app := newApp()
	app.Post("/users", createUserHandler())

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"alice","email":"alice@example.com"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[dto.DataResponse[createUserOut]](t, resp)
	assert.True(t, body.Succeeded)
	assert.EqualValues(t, 7, body.Data.ID)
	assert.Equal(t, "alice", body.Data.Name)
}

func TestToCommandRejectsInvalidInput(t *testing.T) {
	app := newApp()
	app.Post("/users", createUserHandler())

	req := httptest.NewRequest(http.MethodPost, "/users",
		strings.NewReader(`{"name":"","email":"not-an-email"}`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	body := decodeBody[dto.Response](t, resp)
	assert.False(t, body.Succeeded)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "email")
}

func TestToCommandRejectsNonJSONContentType(t *testing.T) {
	app := newApp()
	app.Post("/users", createUserHandler())

	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(`name=alice`))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestToQueryDecodesQueryAndPathParams(t *testing.T) {
	type getUserIn struct {
		ID      int64  `params:"id"`
		Expand  string `query:"expand"`
		Version string `query:"version"`
	}

	q := query.Func[*getUserIn, *getUserIn](
		func(_ context.Context, in *getUserIn) (*getUserIn, error) {
			return in, nil
		})

	app := newApp()
	app.Get("/users/:id", forward.ToQuery(q))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/users/42?expand=roles&version=v2", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody[dto.DataResponse[getUserIn]](t, resp)
	assert.EqualValues(t, 42, body.Data.ID)
	assert.Equal(t, "roles", body.Data.Expand)
	assert.Equal(t, "v2", body.Data.Version)
}
