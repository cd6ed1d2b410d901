package example

import (
	"encoding/json"
	"net/url"

	"github.com/advdv/bconnect"
	"go.uber.org/zap"
)

type echoResponse struct {
	URL      string          `json:"url"`
	Pathname string          `json:"pathname"`
	Query    url.Values      `json:"query"`
	Body     json.RawMessage `json:"body,omitempty"`
}

// Echo responds with the url, pathname, query and JSON body of the request.
func Echo(w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
	Log(r.Context()).Debug("echo")

	resp := echoResponse{URL: r.URL.RequestURI(), Pathname: r.Pathname, Query: r.Query}
	if body := Body(r.Context()); body.Exists() {
		resp.Body = json.RawMessage(body.Raw)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// JSONErrors renders the pending error as a JSON document. Without a pending error it does nothing, and
// once headers are sent the error is left for the terminal to report.
func JSONErrors() bconnect.ErrorHandler {
	return bconnect.ErrorHandlerFunc(func(err error, w bconnect.ResponseWriter, r *bconnect.Request, _ bconnect.Next) error {
		if err == nil || w.HeadersSent() {
			return err
		}

		status := int(bconnect.CodeOf(err))
		if !bconnect.IsErrorCode(bconnect.Code(status)) {
			status = 500
		}

		Log(r.Context()).Info("rendering error", zap.Error(err), zap.Int("status", status))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		return json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
	})
}
