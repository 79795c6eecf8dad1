package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/timechallenge/backend/pkg/errorx"
	"github.com/timechallenge/backend/pkg/xcontext"
)

var validate = validator.New()

// bind parses the request into a new Request. GET requests read the query
// string, POST requests read a JSON body.
func bind[Request any](ctx context.Context, method string) (*Request, error) {
	req := new(Request)
	httpReq := xcontext.HTTPRequest(ctx)

	switch method {
	case http.MethodGet:
		query := map[string]any{}
		for key, values := range httpReq.URL.Query() {
			if len(values) > 0 {
				query[key] = values[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           req,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create query decoder: %v", err)
			return nil, errorx.Unknown
		}

		if err := decoder.Decode(query); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid query: %v", err)
		}

	case http.MethodPost:
		if err := json.NewDecoder(httpReq.Body).Decode(req); err != nil && !errors.Is(err, io.EOF) {
			return nil, errorx.New(errorx.BadRequest, "Invalid body: %v", err)
		}
	}

	if err := validate.StructCtx(ctx, req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return req, nil
		}

		return nil, errorx.New(errorx.BadRequest, "Invalid request: %v", err)
	}

	return req, nil
}
