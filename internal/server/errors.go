package server

import (
	"errors"
	"net/http"

	"github.com/mohanadbarakat001/ATS/internal/generation"
	"github.com/mohanadbarakat001/ATS/internal/history"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *history.NotFoundError
	var duplicate *history.DuplicateIDError
	var apiCall *generation.APICallError
	var parse *generation.ParseError
	var incomplete *generation.IncompleteResponseError

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &duplicate):
		return http.StatusConflict
	case errors.As(err, &apiCall):
		return http.StatusBadGateway
	case errors.As(err, &parse), errors.As(err, &incomplete):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
