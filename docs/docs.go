// Package docs registers the OpenAPI document served under /swagger/*.
//
// Keep it in sync with the handler annotations (swag init -g cmd/server/main.go).
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {
                        "description": "Login credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.loginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register a new user",
                "parameters": [
                    {
                        "description": "Login, password and role (ADMIN or USER)",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.registerRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.registerResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.readinessResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.readinessResponse"}}
                }
            }
        },
        "/products": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a product",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Idempotency key to prevent duplicate submissions",
                        "name": "Idempotency-Key",
                        "in": "header"
                    },
                    {
                        "description": "Product details",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.createProductRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/products/all": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.productResponse"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/products/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product",
                "parameters": [
                    {"type": "string", "description": "Product id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["products"],
                "summary": "Delete a product",
                "parameters": [
                    {"type": "string", "description": "Product id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/products/{id}/stock": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update product stock",
                "parameters": [
                    {"type": "string", "description": "Product id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "New stock level",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.updateStockRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.productResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.meResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.authLinks": {
            "type": "object",
            "properties": {
                "login": {"type": "string"},
                "register": {"type": "string"},
                "self": {"type": "string"}
            }
        },
        "handler.createProductRequest": {
            "type": "object",
            "required": ["image", "product_name"],
            "properties": {
                "image": {"type": "string"},
                "price": {"type": "number"},
                "product_name": {"type": "string"},
                "stock": {"type": "integer", "minimum": 0}
            }
        },
        "handler.dependencyStatus": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["ok", "unhealthy", "disabled"]}
            }
        },
        "handler.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "handler.loginRequest": {
            "type": "object",
            "required": ["login", "password"],
            "properties": {
                "login": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/handler.authLinks"},
                "token": {"type": "string"}
            }
        },
        "handler.meResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "login": {"type": "string"},
                "role": {"type": "string", "enum": ["ADMIN", "USER"]}
            }
        },
        "handler.productLinks": {
            "type": "object",
            "properties": {
                "collection": {"type": "string"},
                "self": {"type": "string"}
            }
        },
        "handler.productResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/handler.productLinks"},
                "created_at": {"type": "string"},
                "id": {"type": "string"},
                "image": {"type": "string"},
                "price": {"type": "number"},
                "product_name": {"type": "string"},
                "stock": {"type": "integer"}
            }
        },
        "handler.readinessResponse": {
            "type": "object",
            "properties": {
                "dependencies": {
                    "type": "object",
                    "additionalProperties": {"$ref": "#/definitions/handler.dependencyStatus"}
                },
                "status": {"type": "string"}
            }
        },
        "handler.registerRequest": {
            "type": "object",
            "required": ["login", "password", "role"],
            "properties": {
                "login": {"type": "string", "maxLength": 100},
                "password": {"type": "string", "maxLength": 72},
                "role": {"type": "string"}
            }
        },
        "handler.registerResponse": {
            "type": "object",
            "properties": {
                "_links": {"$ref": "#/definitions/handler.authLinks"},
                "message": {"type": "string"}
            }
        },
        "handler.updateStockRequest": {
            "type": "object",
            "required": ["stock"],
            "properties": {
                "stock": {"type": "integer", "minimum": 0}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Type \"Bearer\" followed by a space and the token.",
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
	Title:            "App API",
	Description:      "User registration, login and product catalogue behind bearer token authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
