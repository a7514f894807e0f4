// Package apidoc describes the bridge's HTTP surface as an OpenAPI 3 document.
package apidoc

import (
	"context"
	"fmt"

	"github.com/brizzai/cms-oauth-bridge/internal/auth/constants"
	"github.com/getkin/kin-openapi/openapi3"
)

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(description).
		WithJSONSchema(schema)}
}

func plainResponse(description string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(description)}
}

func errorSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().WithProperty("error", openapi3.NewStringSchema())
	schema.Required = []string{"error"}
	return schema
}

func authPathItem() *openapi3.PathItem {
	codeSchema := openapi3.NewObjectSchema().WithProperty("code", openapi3.NewStringSchema())
	codeSchema.Required = []string{"code"}

	tokenSchema := openapi3.NewObjectSchema().WithProperty("token", openapi3.NewStringSchema())
	tokenSchema.Required = []string{"token"}

	return &openapi3.PathItem{
		Options: &openapi3.Operation{
			OperationID: "authPreflight",
			Summary:     "CORS preflight",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, plainResponse("Preflight accepted")),
			),
		},
		Get: &openapi3.Operation{
			OperationID: "authorize",
			Summary:     "Redirect the browser to the GitHub consent screen",
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(302, plainResponse("Redirect to GitHub")),
				openapi3.WithStatus(500, jsonResponse("Bridge is not configured", errorSchema())),
			),
		},
		Post: &openapi3.Operation{
			OperationID: "exchangeCode",
			Summary:     "Exchange an authorization code for an access token",
			RequestBody: &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
				WithRequired(true).
				WithJSONSchema(codeSchema)},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, jsonResponse("Access token", tokenSchema)),
				openapi3.WithStatus(400, jsonResponse("Missing code, or the provider's error payload", openapi3.NewObjectSchema())),
				openapi3.WithStatus(405, plainResponse("Method not allowed")),
				openapi3.WithStatus(500, jsonResponse("Configuration or transport error", errorSchema())),
			),
		},
	}
}

func callbackPathItem() *openapi3.PathItem {
	codeParam := openapi3.NewQueryParameter("code").WithSchema(openapi3.NewStringSchema())
	codeParam.Description = "Authorization code, read by the page script"

	page := openapi3.NewResponse().
		WithDescription("Page relaying the code to the opener window").
		WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/html"}))

	return &openapi3.PathItem{
		Get: &openapi3.Operation{
			OperationID: "callback",
			Summary:     "GitHub redirect landing page",
			Parameters:  openapi3.Parameters{{Value: codeParam}},
			Responses: openapi3.NewResponses(
				openapi3.WithStatus(200, &openapi3.ResponseRef{Value: page}),
			),
		},
	}
}

// New builds and validates the document.
func New(version string) (*openapi3.T, error) {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "cms-oauth-bridge",
			Description: "GitHub OAuth code exchange for browser based CMS clients",
			Version:     version,
		},
		Paths: openapi3.NewPaths(
			openapi3.WithPath(constants.AuthPath, authPathItem()),
			openapi3.WithPath(constants.CallbackPath, callbackPathItem()),
		),
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}
	return doc, nil
}
