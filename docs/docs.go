// Package docs holds the OpenAPI document served at /swagger. It is maintained
// by hand alongside the routes in api/routes.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/token": {
            "post": {
                "consumes": ["application/x-www-form-urlencoded", "application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Log in with username or e-mail and password",
                "parameters": [
                    {"type": "string", "name": "username", "in": "formData", "required": true},
                    {"type": "string", "name": "password", "in": "formData", "required": true}
                ],
                "responses": {
                    "200": {"description": "Authorization header and refresh cookie set"},
                    "401": {"description": "Authentication failed"}
                }
            }
        },
        "/token/refresh": {
            "post": {
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue a new access token from the refresh cookie",
                "responses": {
                    "200": {"description": "Authorization header set"},
                    "401": {"description": "Refresh token missing, expired or invalid"}
                }
            }
        },
        "/invalidate-token": {
            "post": {
                "tags": ["auth"],
                "summary": "Clear the refresh cookie",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "Cookie cleared"},
                    "401": {"description": "Authentication required"}
                }
            }
        },
        "/admin/members": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin-members"],
                "summary": "List members",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "integer", "default": 0, "name": "page", "in": "query"},
                    {"type": "integer", "default": 5, "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/admin/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin-products"],
                "summary": "List products",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "integer", "default": 0, "name": "page", "in": "query"},
                    {"type": "integer", "default": 5, "name": "size", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        },
        "/admin/orders": {
            "get": {
                "produces": ["application/json"],
                "tags": ["admin-orders"],
                "summary": "List orders",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"type": "integer", "default": 0, "name": "page", "in": "query"},
                    {"type": "integer", "default": 10, "name": "size", "in": "query"},
                    {"type": "string", "default": "orderDate,desc", "name": "sort", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/response.StandardApiResponse"}}
                }
            }
        }
    },
    "definitions": {
        "response.StandardApiResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "message": {"type": "string"},
                "data": {},
                "errors": {}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Shop Admin API",
	Description:      "Administration backend with JWT authentication and role-based access.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
