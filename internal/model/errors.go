package model

import "errors"

// Sentinel errors shared by the retrieval, tagging and matching stages
var (
	ErrRetrieval         = errors.New("retrieval failure")
	ErrMalformedDocument = errors.New("malformed document")
	ErrLexiconLoad       = errors.New("lexicon load failure")
	ErrInvalidIdentifier = errors.New("invalid identifier")
)
