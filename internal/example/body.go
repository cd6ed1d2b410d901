package example

import (
	"context"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/advdv/bconnect"
	"github.com/cockroachdb/errors"
	"github.com/tidwall/gjson"
)

// JSONBody reads JSON request bodies of at most maxBytes and makes them available through [Body].
// Requests without a JSON content type pass through untouched.
func JSONBody(maxBytes int64) bconnect.Handler {
	return bconnect.HandlerFunc(func(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
		if r.Body == nil || r.ContentLength == 0 || !isJSON(r.Header.Get("Content-Type")) {
			return nil
		}

		data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return bconnect.NewError(bconnect.CodeRequestEntityTooLarge,
					errors.Newf("request body exceeds %d bytes", mbe.Limit))
			}

			return errors.Wrap(err, "failed to read request body")
		}

		if !gjson.ValidBytes(data) {
			return bconnect.NewError(bconnect.CodeBadRequest, errors.New("request body is not valid JSON"))
		}

		r.Request = r.WithContext(context.WithValue(r.Context(), ctxKey("json"), gjson.ParseBytes(data)))

		return nil
	})
}

// Body returns the JSON body read by [JSONBody]. The result does not exist when there was none.
func Body(ctx context.Context) gjson.Result {
	v, _ := ctx.Value(ctxKey("json")).(gjson.Result)
	return v
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mt == "application/json" || strings.HasSuffix(mt, "+json")
}
