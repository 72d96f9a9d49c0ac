package testutils

import (
	"io"
	"net/http"
	"net/http/httptest"
)

type RequestOptions struct {
	headers map[string]string
}

type RequestArgs struct {
	Router http.Handler
	Method string
	URL    string
	Body   io.Reader
}

func MakeRequest(args RequestArgs, opts ...func(*RequestOptions)) *http.Response {
	options := RequestOptions{
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(&options)
	}

	request := httptest.NewRequest(args.Method, args.URL, args.Body)
	request.Header.Set("Content-Type", "application/json")
	for k, v := range options.headers {
		request.Header.Set(k, v)
	}

	recorder := httptest.NewRecorder()

	args.Router.ServeHTTP(recorder, request)

	return recorder.Result()
}

func WithHeader(name, value string) func(*RequestOptions) {
	return func(fn *RequestOptions) {
		fn.headers[name] = value
	}
}

func WithBearer(token string) func(*RequestOptions) {
	return WithHeader("Authorization", "Bearer "+token)
}
