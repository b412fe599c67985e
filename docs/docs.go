// Package docs registers the OpenAPI document served under /swagger.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/account/balance": {"get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get own balance", "responses": {"200": {"description": "Balance fetched"}}}},
        "/account/{id}/balance": {"get": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Get account balance", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Balance fetched"}}}},
        "/account/transfer": {"post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Transfer points", "responses": {"200": {"description": "Transfer successful"}, "422": {"description": "Insufficient funds"}}}},
        "/account/daily": {"post": {"security": [{"BearerAuth": []}], "tags": ["accounts"], "summary": "Claim daily reward", "responses": {"200": {"description": "Reward granted"}, "409": {"description": "Already claimed today"}}}},
        "/leaderboard": {"get": {"tags": ["accounts"], "summary": "Leaderboard", "parameters": [{"type": "integer", "name": "limit", "in": "query"}], "responses": {"200": {"description": "Leaderboard fetched"}}}},
        "/listings": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "List active listings", "responses": {"200": {"description": "Listings fetched"}}},
            "post": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "Create listing", "responses": {"201": {"description": "Listing created"}}}
        },
        "/listings/{id}": {
            "get": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "Get listing", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Listing fetched"}}},
            "put": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "Edit listing", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Listing updated"}}},
            "delete": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "Delete listing", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Listing deleted"}}}
        },
        "/listings/{id}/purchase": {"post": {"security": [{"BearerAuth": []}], "tags": ["listings"], "summary": "Purchase listing", "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Purchase successful"}, "409": {"description": "Listing already sold"}}}},
        "/admin/accounts/{id}/credit": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Admin credit", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Points added"}}}},
        "/admin/accounts/{id}/debit": {"post": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Admin debit", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Points removed"}}}},
        "/admin/accounts/{id}/audit": {"get": {"security": [{"BearerAuth": []}], "tags": ["admin"], "summary": "Account audit log", "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}], "responses": {"200": {"description": "Audit entries fetched"}}}}
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Enter your Bearer token in the format: ` + "`Bearer {token}`" + `",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:3000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Point Market API",
	Description:      "Points ledger and listing marketplace",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
