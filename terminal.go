package bconnect

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// Terminal receives the error left pending after the stack was walked, or nil when no entry failed
// (or the last failure was cleared).
type Terminal func(err error)

const documentTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Error</title>
</head>
<body>
<pre>%s</pre>
</body>
</html>
`

// FinalHandler returns the default terminal. Without an error it responds with 404, with an error it
// responds with the error's [Code] when that is a 4xx/5xx status, otherwise with the pending status of
// w when that is one, otherwise with 500. HEAD requests get no body. Nothing is written when headers
// were already sent, the error is then only reported as skipped.
func FinalHandler(w ResponseWriter, r *Request, mode Mode, logs Logger) Terminal {
	return func(err error) {
		if w.HeadersSent() {
			if err != nil {
				logs.LogTerminalSkipped(err)
			}

			return
		}

		if err != nil {
			logs.LogUnhandledError(err)
		}

		var status int
		var msg string
		if err == nil {
			status = http.StatusNotFound
			msg = fmt.Sprintf("Cannot %s %s", html.EscapeString(r.Method), html.EscapeString(r.URL.EscapedPath()))
		} else {
			status = errorStatus(err, w)
			msg = errorBody(err, status, mode)
		}

		send(w, r, status, msg)
	}
}

func errorStatus(err error, w ResponseWriter) int {
	if code := CodeOf(err); IsErrorCode(code) {
		return int(code)
	}

	if IsErrorCode(Code(w.Status())) {
		return w.Status()
	}

	return http.StatusInternalServerError
}

func errorBody(err error, status int, mode Mode) string {
	if mode == ModeProduction {
		return html.EscapeString(http.StatusText(status))
	}

	body := html.EscapeString(fmt.Sprintf("%+v", err))
	body = strings.ReplaceAll(body, "\n", "<br>")

	return strings.ReplaceAll(body, "  ", " &nbsp;")
}

func send(w ResponseWriter, r *Request, status int, msg string) {
	body := fmt.Sprintf(documentTemplate, msg)

	hdr := w.Header()
	hdr.Set("Content-Security-Policy", "default-src 'none'")
	hdr.Set("X-Content-Type-Options", "nosniff")
	hdr.Set("Content-Type", "text/html; charset=utf-8")
	hdr.Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)

	if r.Method == http.MethodHead {
		return
	}

	_, _ = w.Write([]byte(body))
}
