// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"

	"github.com/graphql-go/graphql"
	gqlhandler "github.com/graphql-go/handler"

	"github.com/danielhkuo/quickly-vote/ledger"
)

var candidateType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Candidate",
	Fields: graphql.Fields{
		"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"votes":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
	},
})

var standingType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Standing",
	Fields: graphql.Fields{
		"rank":        &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"candidateId": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"description": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"votes":       &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"share":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
	},
})

var resultsType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Results",
	Fields: graphql.Fields{
		"totalVotes": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		"standings":  &graphql.Field{Type: graphql.NewList(standingType)},
	},
})

// NewGraphQLSchema builds the read-only schema over the ledger:
//
//	candidates: [Candidate]
//	candidate(id: Int!): Candidate
//	results: Results
func NewGraphQLSchema(l ledger.Ledger) (graphql.Schema, error) {
	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"candidates": &graphql.Field{
				Type: graphql.NewList(candidateType),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return l.ListCandidates(p.Context)
				},
			},
			"candidate": &graphql.Field{
				Type: candidateType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					candidates, err := l.ListCandidates(p.Context)
					if err != nil {
						return nil, err
					}
					for _, c := range candidates {
						if c.ID == int64(id) {
							return c, nil
						}
					}
					return nil, nil
				},
			},
			"results": &graphql.Field{
				Type: resultsType,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					candidates, err := l.ListCandidates(p.Context)
					if err != nil {
						return nil, err
					}
					return ComputeStandings(candidates), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: query})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to build graphql schema: %w", err)
	}
	return schema, nil
}

// NewGraphQLHandler serves GET and POST /api/graphql
func NewGraphQLHandler(l ledger.Ledger) (*gqlhandler.Handler, error) {
	schema, err := NewGraphQLSchema(l)
	if err != nil {
		return nil, err
	}

	return gqlhandler.New(&gqlhandler.Config{
		Schema:   &schema,
		Pretty:   false,
		GraphiQL: false,
	}), nil
}
