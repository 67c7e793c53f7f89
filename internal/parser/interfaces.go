package parser

import "io"

// Parser turns a fetched page body into an ordered list of records
type Parser[T any] interface {
	ParseHtml(body io.Reader) ([]T, error)
}
