package stubapi

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Doer adapts a fiber app to api.Doer so the whole HTTP stack runs in-process without a
// listener. The request context is not propagated into fiber.
type Doer struct {
	App *fiber.App
}

func (d Doer) Do(req *http.Request) (*http.Response, error) {
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return d.App.Test(req, -1)
}
