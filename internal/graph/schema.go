package graph

// Package graph defines the GraphQL schema and resolvers. Query execution is
// delegated to the graph-gophers engine; the request context carries the
// identity attached by the authentication gate.

import (
	"net/http"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
)

// Schema is the GraphQL schema served at the GraphQL mount point.
const Schema = `
	schema {
		query: Query
	}

	type Query {
		# about returns a static informational record about this service.
		about: About!
	}

	type About {
		env: String!
		version: String!
		hostedAt: String!
		node: String!
		serverTime: String!
	}
`

// NewHandler parses the schema against the resolver and returns the HTTP
// handler that executes GraphQL queries.
func NewHandler(resolver *Resolver) http.Handler {
	schema := graphql.MustParseSchema(Schema, resolver)
	return &relay.Handler{Schema: schema}
}
